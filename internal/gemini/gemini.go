package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

func (c *implClient) UploadFile(ctx context.Context, path, mimeType string) (File, error) {
	f, err := c.client.Files.UploadFromPath(ctx, path, &genai.UploadFileConfig{MIMEType: mimeType})
	if err != nil {
		return File{}, fmt.Errorf("upload file: %w", classify(err))
	}
	return toFile(f), nil
}

func (c *implClient) GetFile(ctx context.Context, name string) (File, error) {
	f, err := c.client.Files.Get(ctx, name, nil)
	if err != nil {
		return File{}, fmt.Errorf("get file %s: %w", name, classify(err))
	}
	return toFile(f), nil
}

func (c *implClient) DeleteFile(ctx context.Context, name string) error {
	if _, err := c.client.Files.Delete(ctx, name, nil); err != nil {
		return fmt.Errorf("delete file %s: %w", name, classify(err))
	}
	return nil
}

func (c *implClient) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	parts := []*genai.Part{genai.NewPartFromText(req.Prompt)}
	if req.File != nil {
		parts = append(parts, genai.NewPartFromURI(req.File.URI, req.File.MIMEType))
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	var cfg *genai.GenerateContentConfig
	if req.JSON {
		cfg = &genai.GenerateContentConfig{ResponseMIMEType: "application/json"}
	}

	result, err := c.client.Models.GenerateContent(ctx, req.Model, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", classify(err))
	}

	if result != nil && len(result.Candidates) > 0 && result.Candidates[0].Content != nil {
		var text strings.Builder
		for _, part := range result.Candidates[0].Content.Parts {
			if part != nil && part.Text != "" {
				text.WriteString(part.Text)
			}
		}
		return text.String(), nil
	}

	return "", errors.New("empty response from Gemini")
}

func toFile(f *genai.File) File {
	if f == nil {
		return File{}
	}
	return File{
		Name:     f.Name,
		URI:      f.URI,
		MIMEType: f.MIMEType,
		State:    FileState(f.State),
	}
}
