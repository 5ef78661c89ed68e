package port

import "context"

// TranslationEngine is the remote transcription/translation/synthesis
// service. Implementations must be safe for concurrent use; model selection
// is an explicit per-call parameter so concurrent connections never share
// mutable engine configuration.
type TranslationEngine interface {
	Transcribe(ctx context.Context, audio []byte, model string) (string, error)
	Translate(ctx context.Context, text, targetLanguage, model string) (string, error)
	Synthesize(ctx context.Context, text string) ([]byte, error)
}
