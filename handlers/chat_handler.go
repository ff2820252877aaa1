package handlers

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sampark-ai/sampark-backend/models"
	"github.com/sampark-ai/sampark-backend/utils"
)

const chatTimeout = 60 * time.Second

// ChatCompleter is the text-inference collaborator.
type ChatCompleter interface {
	CompleteChat(ctx context.Context, userMessage string, history []models.ChatTurn, lang models.Language, ragContext string) (string, error)
}

// SchemeSearcher retrieves reference text for a query. Opaque collaborator;
// failures degrade to no context.
type SchemeSearcher interface {
	Search(ctx context.Context, query string, topK int) (string, error)
}

// ChatHandler is the stateless per-call orchestrator: prompt + history +
// retrieved context → one completion → reply, TTS audio and the
// screen-guidance offer flag.
type ChatHandler struct {
	Completer ChatCompleter
	Schemes   SchemeSearcher
	Speech    Synthesizer
	Memory    *utils.ChatMemory
}

func (h *ChatHandler) HandleChatQuery(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		http.Error(w, "Empty message", http.StatusBadRequest)
		return
	}

	lang := models.ParseLanguage(req.Lang)
	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.New().String()[:12]
	}

	ctx, cancel := context.WithTimeout(r.Context(), chatTimeout)
	defer cancel()

	history := req.History
	if len(history) == 0 {
		history = h.Memory.RecentTurns(ctx, sessionID)
	}

	ragContext := ""
	if h.Schemes != nil {
		var err error
		ragContext, err = h.Schemes.Search(ctx, req.Message, 3)
		if err != nil {
			zap.L().Warn("Scheme search failed", zap.Error(err))
			ragContext = ""
		}
	}

	reply, err := h.Completer.CompleteChat(ctx, req.Message, history, lang, ragContext)
	if err != nil {
		zap.L().Error("Chat completion failed", zap.Error(err))
		reply = utils.FallbackReply(lang)
	}

	audio := h.Speech.Synthesize(ctx, reply, lang)
	audioB64 := ""
	if len(audio) > 0 {
		audioB64 = base64.StdEncoding.EncodeToString(audio)
	}

	h.Memory.AppendTurn(ctx, sessionID, "user", req.Message)
	h.Memory.AppendTurn(ctx, sessionID, "assistant", reply)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(models.ChatResponse{
		Reply:     reply,
		AudioB64:  audioB64,
		IsGuided:  utils.IsGuidedFlow(reply),
		SessionID: sessionID,
	})
}
