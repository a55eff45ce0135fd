package gemini

import "context"

// FileState is the server-side lifecycle of an uploaded file.
type FileState string

const (
	StateProcessing FileState = "PROCESSING"
	StateActive     FileState = "ACTIVE"
	StateFailed     FileState = "FAILED"
)

// File is a handle to media uploaded to the Files API.
type File struct {
	Name     string
	URI      string
	MIMEType string
	State    FileState
}

// GenerateRequest is one generation call. File is attached after the prompt
// when set. JSON asks the model for an application/json response.
type GenerateRequest struct {
	Model  string
	Prompt string
	File   *File
	JSON   bool
}

// Client is the slice of the Gemini API the pipeline needs.
type Client interface {
	UploadFile(ctx context.Context, path, mimeType string) (File, error)
	GetFile(ctx context.Context, name string) (File, error)
	DeleteFile(ctx context.Context, name string) error
	Generate(ctx context.Context, req GenerateRequest) (string, error)
}

// Factory builds a Client bound to one caller's API key.
type Factory func(ctx context.Context, apiKey string) (Client, error)
