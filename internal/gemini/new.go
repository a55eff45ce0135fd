package gemini

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/genai"
)

// Options configures clients built by NewFactory.
type Options struct {
	// BaseURL overrides the API endpoint; empty uses the SDK default.
	BaseURL string
	// RequestTimeout bounds each generation call.
	RequestTimeout time.Duration
}

type implClient struct {
	client  *genai.Client
	timeout time.Duration
}

// NewFactory returns a Factory producing genai-backed clients.
func NewFactory(opts Options) Factory {
	return func(ctx context.Context, apiKey string) (Client, error) {
		return New(ctx, apiKey, opts)
	}
}

// New creates a Client for apiKey.
func New(ctx context.Context, apiKey string, opts Options) (Client, error) {
	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if opts.BaseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: opts.BaseURL}
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}

	return &implClient{client: client, timeout: opts.RequestTimeout}, nil
}
