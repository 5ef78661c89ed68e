package domain

// DefaultTargetLanguage is used until a connection picks its own subtitle
// language.
const DefaultTargetLanguage = "es"

// SessionState is a connection's per-call translation configuration. It is
// owned and mutated only by the connection's own read loop; the pipeline
// works on a by-value snapshot taken when a chunk is dispatched, so a
// mid-flight language or model change cannot race an ongoing invocation.
type SessionState struct {
	TargetLanguage     string
	TranscriptionModel string
	TranslationModel   string
}

func NewSessionState(transcriptionModel, translationModel string) SessionState {
	return SessionState{
		TargetLanguage:     DefaultTargetLanguage,
		TranscriptionModel: transcriptionModel,
		TranslationModel:   translationModel,
	}
}
