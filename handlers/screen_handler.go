package handlers

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/sampark-ai/sampark-backend/models"
)

const (
	// Hard ceiling on session age. Once exceeded the session is terminated
	// regardless of activity.
	maxSessionDuration = 5 * time.Minute

	// Frames arriving faster than this since the last analyzed frame are
	// dropped silently. This bounds vision-provider load no matter how fast
	// the client captures.
	minFrameInterval = 5 * time.Second

	// Idle wait before emitting a heartbeat status so the transport can
	// detect liveness.
	heartbeatInterval = 60 * time.Second

	// Deadline for one vision analysis and its TTS.
	analysisTimeout = 30 * time.Second
)

// ScreenAnalyzer turns one screenshot plus task context into guidance text.
type ScreenAnalyzer interface {
	AnalyzeScreen(ctx context.Context, imageB64, taskContext string, lang models.Language) (string, error)
}

// Synthesizer converts guidance text to audio. Empty bytes mean synthesis
// failed; the guidance event is still sent with text only.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string, lang models.Language) []byte
}

// screenConn is the slice of *websocket.Conn the session loop needs.
type screenConn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// ScreenSession owns one live screen-share: the rate gate, guidance dedup,
// voice commands, timeouts and the ordered outbound event stream. All state
// is touched only by the session's own loop, so none of it needs locking.
type ScreenSession struct {
	ID          string
	Conn        screenConn
	Logger      *zap.Logger
	Lang        models.Language
	TaskContext string

	LastGuidance string
	FrameCount   int
	StartedAt    time.Time
	IsActive     bool

	analyzer ScreenAnalyzer
	speech   Synthesizer

	// Updated before each vision call so frames queued behind a slow
	// analysis are dropped by the gate rather than piling up.
	lastAnalysis time.Time

	heartbeat time.Duration
	now       func() time.Time
}

func NewScreenSession(id string, conn screenConn, analyzer ScreenAnalyzer, speech Synthesizer) *ScreenSession {
	logger := zap.L().With(zap.String("session_id", id))

	return &ScreenSession{
		ID:        id,
		Conn:      conn,
		Logger:    logger,
		Lang:      models.LangHindi,
		StartedAt: time.Now(),
		IsActive:  true,
		analyzer:  analyzer,
		speech:    speech,
		heartbeat: heartbeatInterval,
		now:       time.Now,
	}
}

func (s *ScreenSession) age() time.Duration {
	return s.now().Sub(s.StartedAt)
}

// Run drives the session until stop, timeout or disconnect. Inbound messages
// are processed strictly one at a time, which is what keeps the rate gate
// and dedup correct without locks and outbound events in order.
func (s *ScreenSession) Run() {
	msgs := make(chan []byte, 16)
	go func() {
		defer close(msgs)
		for {
			_, raw, err := s.Conn.ReadMessage()
			if err != nil {
				return
			}
			msgs <- raw
		}
	}()

	for s.IsActive {
		if s.age() > maxSessionDuration {
			s.IsActive = false
			s.sendStatus("Session timed out (5 minutes). Stopping.")
			return
		}

		select {
		case raw, ok := <-msgs:
			if !ok {
				// Transport closed: silent cleanup, no channel left to
				// report on.
				s.Logger.Info("Screen session disconnected")
				return
			}
			s.handleMessage(raw)
		case <-time.After(s.heartbeat):
			s.sendStatus("heartbeat")
		}
	}
}

func (s *ScreenSession) handleMessage(raw []byte) {
	var msg models.ScreenMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		s.sendError("Invalid JSON")
		return
	}

	switch msg.Type {
	case models.MsgStart:
		s.Lang = models.ParseLanguage(msg.Lang)
		s.TaskContext = msg.Context
		s.sendStatus("Screen sharing started. Send frames.")

	case models.MsgFrame:
		s.handleFrame(msg.Image)

	case models.MsgCommand:
		s.handleCommand(msg.Action)

	case models.MsgStop:
		s.IsActive = false
		s.sendStatus("Screen sharing stopped.")

	default:
		s.sendError("Invalid message")
	}
}

// handleFrame runs the analysis pipeline for one frame, or drops it.
func (s *ScreenSession) handleFrame(imageB64 string) {
	now := s.now()
	if now.Sub(s.lastAnalysis) < minFrameInterval {
		return
	}
	if imageB64 == "" {
		return
	}

	s.lastAnalysis = now

	ctx, cancel := context.WithTimeout(context.Background(), analysisTimeout)
	defer cancel()

	guidance, err := s.analyzer.AnalyzeScreen(ctx, imageB64, s.TaskContext, s.Lang)
	if err != nil {
		// Degrades to "no guidance this frame"; the session waits for the
		// next one.
		s.Logger.Warn("Screen analysis failed", zap.Error(err))
		return
	}
	s.FrameCount++

	if guidance == "" || guidance == s.LastGuidance {
		return
	}
	s.LastGuidance = guidance

	audio := s.speech.Synthesize(ctx, guidance, s.Lang)
	s.sendGuidance(guidance, audio)
}

func (s *ScreenSession) handleCommand(action string) {
	switch action {
	case models.ActionRepeat:
		if s.LastGuidance == "" {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), analysisTimeout)
		defer cancel()
		audio := s.speech.Synthesize(ctx, s.LastGuidance, s.Lang)
		s.sendGuidance(s.LastGuidance, audio)

	case models.ActionStop:
		s.IsActive = false
		s.sendStatus("Screen sharing stopped.")

	case models.ActionNext:
		s.sendStatus("Send next frame for analysis.")

	default:
		s.sendError("Invalid message")
	}
}

func (s *ScreenSession) sendGuidance(text string, audio []byte) {
	audioB64 := ""
	if len(audio) > 0 {
		audioB64 = base64.StdEncoding.EncodeToString(audio)
	}

	s.send(models.GuidanceEvent{
		Type:     models.MsgGuidance,
		Text:     text,
		AudioB64: audioB64,
		FrameNum: s.FrameCount,
	})
}

func (s *ScreenSession) sendStatus(message string) {
	s.send(models.StatusEvent{Type: models.MsgStatus, Message: message})
}

func (s *ScreenSession) sendError(message string) {
	s.send(models.ErrorEvent{Type: models.MsgError, Message: message})
}

// send is best-effort: a dead transport must not corrupt session state.
func (s *ScreenSession) send(v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := s.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
		s.Logger.Debug("Failed to send websocket message", zap.Error(err))
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow connections from any origin
	},
}

// ScreenShareHandler upgrades /ws/screen/{session_id} connections and hands
// them to a ScreenSession.
type ScreenShareHandler struct {
	Registry *SessionRegistry
	Analyzer ScreenAnalyzer
	Speech   Synthesizer
	Enabled  bool
}

func (h *ScreenShareHandler) HandleScreenShare(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		zap.L().Error("Failed to upgrade to websocket", zap.Error(err))
		return
	}
	defer conn.Close()

	if !h.Enabled {
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(4003, "Screen guide disabled"))
		return
	}

	sessionID := r.PathValue("session_id")
	session := NewScreenSession(sessionID, conn, h.Analyzer, h.Speech)
	session.Logger.Info("Screen session connected")

	h.Registry.Add(session)
	defer h.Registry.Remove(sessionID)

	session.Run()

	session.Logger.Info("Screen session ended",
		zap.Int("frames", session.FrameCount),
		zap.Duration("duration", session.age()))
}

// HandleScreenAnalyze is the single-shot, non-streaming analysis surface:
// one screenshot in, one guidance text plus audio out. No session, no rate
// limiting; callers are expected to throttle.
func (h *ScreenShareHandler) HandleScreenAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !h.Enabled {
		http.Error(w, "Screen guide disabled", http.StatusForbidden)
		return
	}

	var req models.ScreenAnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	lang := models.ParseLanguage(req.Lang)

	ctx, cancel := context.WithTimeout(r.Context(), analysisTimeout)
	defer cancel()

	guidance, err := h.Analyzer.AnalyzeScreen(ctx, req.ImageB64, req.Context, lang)
	if err != nil {
		zap.L().Warn("Single-shot screen analysis failed", zap.Error(err))
		guidance = visionFallback(lang)
	}

	audio := h.Speech.Synthesize(ctx, guidance, lang)
	audioB64 := ""
	if len(audio) > 0 {
		audioB64 = base64.StdEncoding.EncodeToString(audio)
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(models.ScreenAnalyzeResponse{
		Guidance: guidance,
		AudioB64: audioB64,
	})
}

func visionFallback(lang models.Language) string {
	if lang == models.LangHindi {
		return "स्क्रीन विश्लेषण में समस्या हुई। कृपया दोबारा प्रयास करें।"
	}
	return "Screen analysis failed. Please try again."
}
