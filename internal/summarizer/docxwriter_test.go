package summarizer

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/cjdbcurvajxjencj/dIArio-backend/internal/job"
)

func TestWriteDocx(t *testing.T) {
	tests := []struct {
		name string
		res  job.Result
	}{
		{"full result", job.Result{
			Transcript:     "Buongiorno.\nOggi parliamo di enzimi.",
			Summary:        "## Enzimi\n\n* **Catalisi** biologica\n1. Primo punto\nTesto libero",
			SuggestedTopic: "Enzimi e catalisi",
		}},
		{"no topic", job.Result{Transcript: "Buongiorno.", Summary: "Breve."}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "lesson.docx")
			if err := WriteDocx(path, tt.res); err != nil {
				t.Fatalf("WriteDocx() error = %v", err)
			}

			b, err := os.ReadFile(path)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.HasPrefix(b, []byte("PK")) {
				t.Error("docx output must be a zip archive")
			}
		})
	}
}

func TestCleanMarkdownInline(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"**bold**", "bold"},
		{"__under__", "under"},
		{"`code`", "code"},
		{"$Na^+$", "$Na^+$"},
	}
	for _, tt := range tests {
		if got := cleanMarkdownInline(tt.in); got != tt.want {
			t.Errorf("cleanMarkdownInline(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
