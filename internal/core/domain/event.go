package domain

// Event is one outbound message to a client. On the wire it becomes
// {"event": Name, "data": Data}.
type Event struct {
	Name string
	Data any
}

const (
	EventUserConnected    = "user-connected"
	EventUserDisconnected = "user-disconnected"
	EventTranslatedAudio  = "translated-audio"
	EventSubtitles        = "subtitles"
)

// TranslatedAudioPayload carries one synthesized utterance. AudioData is the
// encoded audio bytes (MP3 by default), base64 on the wire.
type TranslatedAudioPayload struct {
	AudioData []byte `json:"audioData"`
}

// SubtitlePayload is translated text attributed to its speaker.
type SubtitlePayload struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
}

func NewUserConnectedEvent(id ConnID) Event {
	return Event{Name: EventUserConnected, Data: id.String()}
}

func NewUserDisconnectedEvent(id ConnID) Event {
	return Event{Name: EventUserDisconnected, Data: id.String()}
}

func NewTranslatedAudioEvent(audio []byte) Event {
	return Event{Name: EventTranslatedAudio, Data: TranslatedAudioPayload{AudioData: audio}}
}

func NewSubtitleEvent(speaker ConnID, text string) Event {
	return Event{Name: EventSubtitles, Data: SubtitlePayload{Speaker: speaker.String(), Text: text}}
}
