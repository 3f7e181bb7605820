// Package genai provides text generation backed by a remote model provider.
package genai

import "context"

// TextProvider generates a text completion for a prompt.
type TextProvider interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
