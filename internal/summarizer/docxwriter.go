package summarizer

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"

	"github.com/cjdbcurvajxjencj/dIArio-backend/internal/job"
)

const (
	fontName   = "Times New Roman"
	fontSize   = 13
	titleSize  = 18
	colorBlack = "000000"
)

const defaultTitle = "Lezione"

var (
	reHeading = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)
	reBold    = regexp.MustCompile(`\*\*(.+?)\*\*`)
	reBullet  = regexp.MustCompile(`^[\-\*]\s+(.+)$`)
	reNumberd = regexp.MustCompile(`^\d+\.\s+(.+)$`)
)

// WriteDocx renders a completed job as a Word document at outputPath: the
// suggested topic as title, the Markdown summary, then the transcript.
func WriteDocx(outputPath string, res job.Result) error {
	doc, err := godocx.NewDocument()
	if err != nil {
		return fmt.Errorf("create document: %w", err)
	}

	title := strings.TrimSpace(res.SuggestedTopic)
	if title == "" {
		title = defaultTitle
	}
	addStyledRun(doc.AddParagraph(""), title, true, titleSize)

	addStyledRun(doc.AddParagraph(""), "Riassunto", true, headingSize(1))
	addMarkdown(doc, res.Summary)

	addStyledRun(doc.AddParagraph(""), "Trascrizione", true, headingSize(1))
	for _, para := range strings.Split(res.Transcript, "\n") {
		trimmed := strings.TrimSpace(para)
		if trimmed == "" {
			continue
		}
		doc.AddParagraph("").AddText(trimmed).Font(fontName).Size(fontSize).Color(colorBlack)
	}

	if err := doc.SaveTo(outputPath); err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	return nil
}

func addMarkdown(doc *docx.RootDoc, markdown string) {
	for _, line := range strings.Split(markdown, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || trimmed == "---" {
			continue
		}

		if m := reHeading.FindStringSubmatch(trimmed); m != nil {
			// summary headings sit below the document's own section titles
			addStyledRun(doc.AddParagraph(""), m[2], true, headingSize(len(m[1])+1))
			continue
		}

		if m := reBullet.FindStringSubmatch(trimmed); m != nil {
			addRichText(doc.AddParagraph(""), "• "+m[1])
			continue
		}

		if reNumberd.MatchString(trimmed) {
			addRichText(doc.AddParagraph(""), trimmed)
			continue
		}

		addRichText(doc.AddParagraph(""), trimmed)
	}
}

func headingSize(level int) uint64 {
	switch level {
	case 1:
		return 16
	case 2:
		return 15
	case 3:
		return 14
	default:
		return fontSize
	}
}

func addStyledRun(p *docx.Paragraph, text string, bold bool, size uint64) {
	text = cleanMarkdownInline(text)
	run := p.AddText(text).Font(fontName).Size(size).Color(colorBlack)
	if bold {
		run.Bold(true)
	}
}

func addRichText(p *docx.Paragraph, text string) {
	parts := reBold.Split(text, -1)
	matches := reBold.FindAllStringSubmatch(text, -1)

	for i, part := range parts {
		if part != "" {
			p.AddText(cleanMarkdownInline(part)).Font(fontName).Size(fontSize).Color(colorBlack)
		}
		if i < len(matches) {
			p.AddText(cleanMarkdownInline(matches[i][1])).Font(fontName).Size(fontSize).Color(colorBlack).Bold(true)
		}
	}
}

func cleanMarkdownInline(s string) string {
	s = strings.ReplaceAll(s, "**", "")
	s = strings.ReplaceAll(s, "__", "")
	s = strings.ReplaceAll(s, "`", "")
	return s
}
