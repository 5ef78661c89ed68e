package domain

// AudioChunk is one captured audio payload headed through the translation
// pipeline. Chunks are transient: they live for a single pipeline invocation
// and are never persisted.
type AudioChunk struct {
	ConnID ConnID
	RoomID RoomID
	Data   []byte
}
