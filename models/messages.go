package models

// Screen-guidance wire protocol. One JSON text message per logical event,
// discriminated by the "type" field.

// Inbound message types (client → session).
const (
	MsgStart   = "start"
	MsgFrame   = "frame"
	MsgCommand = "command"
	MsgStop    = "stop"
)

// Command actions carried by a "command" message.
const (
	ActionRepeat = "repeat"
	ActionNext   = "next"
	ActionStop   = "stop"
)

// Outbound message types (session → client).
const (
	MsgGuidance = "guidance"
	MsgStatus   = "status"
	MsgError    = "error"
)

// ScreenMessage is the envelope for every inbound guidance-channel message.
// Fields not relevant to the message type are left empty.
type ScreenMessage struct {
	Type    string `json:"type"`
	Lang    string `json:"lang,omitempty"`
	Context string `json:"context,omitempty"`
	Image   string `json:"image,omitempty"`
	Action  string `json:"action,omitempty"`
}

// GuidanceEvent is emitted after a frame analysis produced new guidance,
// and on a "repeat" command.
type GuidanceEvent struct {
	Type     string `json:"type"`
	Text     string `json:"text"`
	AudioB64 string `json:"audio_b64"`
	FrameNum int    `json:"frame_num"`
}

// StatusEvent carries ready/stopped/timeout/heartbeat notices.
type StatusEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// ErrorEvent reports a protocol violation back to the client.
type ErrorEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// ChatTurn is one turn of rolling conversation history.
type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the body of POST /api/chat/query.
type ChatRequest struct {
	Message   string     `json:"message"`
	Lang      string     `json:"lang"`
	SessionID string     `json:"session_id"`
	History   []ChatTurn `json:"history"`
}

// ChatResponse is the reply to POST /api/chat/query. IsGuided signals that
// the reply warrants an offer of live screen guidance.
type ChatResponse struct {
	Reply     string `json:"reply"`
	AudioB64  string `json:"audio_b64"`
	IsGuided  bool   `json:"is_guided"`
	SessionID string `json:"session_id"`
}

// ScreenAnalyzeRequest is the body of POST /api/screen/analyze, the
// single-shot analysis surface used when live guidance is unavailable.
type ScreenAnalyzeRequest struct {
	ImageB64 string `json:"image_b64"`
	Context  string `json:"context"`
	Lang     string `json:"lang"`
}

// ScreenAnalyzeResponse carries the guidance for one screenshot.
type ScreenAnalyzeResponse struct {
	Guidance string `json:"guidance"`
	AudioB64 string `json:"audio_b64"`
}

// SynthesizeRequest is the body of POST /api/voice/synthesize.
type SynthesizeRequest struct {
	Text string `json:"text"`
	Lang string `json:"lang"`
}
