package repository

import "context"

// Translator turns an instruction into the raw text of a chat completion.
// Decoding that text is the caller's job.
type Translator interface {
	Translate(ctx context.Context, instruction string) (string, error)
	// Provider names the backing chat endpoint for logs and metrics.
	Provider() string
}
