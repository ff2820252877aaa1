package handlers

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sampark-ai/sampark-backend/models"
	"github.com/sampark-ai/sampark-backend/utils"
)

type fakeCompleter struct {
	reply      string
	err        error
	gotMessage string
	gotHistory []models.ChatTurn
	gotLang    models.Language
	gotRAG     string
}

func (c *fakeCompleter) CompleteChat(ctx context.Context, userMessage string, history []models.ChatTurn, lang models.Language, ragContext string) (string, error) {
	c.gotMessage = userMessage
	c.gotHistory = history
	c.gotLang = lang
	c.gotRAG = ragContext
	return c.reply, c.err
}

type fakeSearcher struct {
	context string
	err     error
	gotQ    string
	gotTopK int
}

func (s *fakeSearcher) Search(ctx context.Context, query string, topK int) (string, error) {
	s.gotQ = query
	s.gotTopK = topK
	return s.context, s.err
}

func postChat(t *testing.T, h *ChatHandler, body string) (*httptest.ResponseRecorder, models.ChatResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/chat/query", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.HandleChatQuery(rec, req)

	var resp models.ChatResponse
	if rec.Code == http.StatusOK {
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("response is not JSON: %v", err)
		}
	}
	return rec, resp
}

func TestChatQueryHappyPath(t *testing.T) {
	completer := &fakeCompleter{reply: "पीएम किसान में सालाना ₹6000 मिलते हैं।"}
	searcher := &fakeSearcher{context: "PM-KISAN: income support for farmers"}
	h := &ChatHandler{
		Completer: completer,
		Schemes:   searcher,
		Speech:    &fakeSpeech{audio: []byte("mp3")},
	}

	rec, resp := postChat(t, h, `{"message":"pm kisan kya hai","lang":"hi","session_id":"abc123"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if resp.Reply != completer.reply {
		t.Errorf("reply = %q", resp.Reply)
	}
	if resp.SessionID != "abc123" {
		t.Errorf("session_id = %q", resp.SessionID)
	}
	if resp.AudioB64 != base64.StdEncoding.EncodeToString([]byte("mp3")) {
		t.Errorf("audio_b64 = %q", resp.AudioB64)
	}
	if resp.IsGuided {
		t.Error("a plain factual reply should not be flagged guided")
	}

	if completer.gotLang != models.LangHindi {
		t.Errorf("lang passed to completer = %q", completer.gotLang)
	}
	if completer.gotRAG != searcher.context {
		t.Errorf("rag context = %q", completer.gotRAG)
	}
	if searcher.gotQ != "pm kisan kya hai" || searcher.gotTopK != 3 {
		t.Errorf("search called with (%q, %d)", searcher.gotQ, searcher.gotTopK)
	}
}

func TestChatQueryGuidedReply(t *testing.T) {
	h := &ChatHandler{
		Completer: &fakeCompleter{reply: "Step 1: open the portal at pmkisan.gov.in and fill the form."},
		Speech:    &fakeSpeech{},
	}

	_, resp := postChat(t, h, `{"message":"how do I apply","lang":"en"}`)

	if !resp.IsGuided {
		t.Error("a multi-step reply should be flagged guided")
	}
}

func TestChatQueryGeneratesSessionID(t *testing.T) {
	h := &ChatHandler{
		Completer: &fakeCompleter{reply: "ok"},
		Speech:    &fakeSpeech{},
	}

	_, resp := postChat(t, h, `{"message":"hello","lang":"en"}`)

	if len(resp.SessionID) != 12 {
		t.Errorf("generated session_id = %q, want 12 chars", resp.SessionID)
	}
}

func TestChatQueryFallbackOnCompleterError(t *testing.T) {
	h := &ChatHandler{
		Completer: &fakeCompleter{err: fmt.Errorf("provider down")},
		Speech:    &fakeSpeech{},
	}

	rec, resp := postChat(t, h, `{"message":"hello","lang":"en"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (degraded, not failed)", rec.Code)
	}
	if resp.Reply != utils.FallbackReply(models.LangEnglish) {
		t.Errorf("reply = %q, want the offline fallback", resp.Reply)
	}
}

func TestChatQuerySearchFailureDegrades(t *testing.T) {
	completer := &fakeCompleter{reply: "ok"}
	h := &ChatHandler{
		Completer: completer,
		Schemes:   &fakeSearcher{err: fmt.Errorf("index unreachable")},
		Speech:    &fakeSpeech{},
	}

	rec, _ := postChat(t, h, `{"message":"hello","lang":"en"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if completer.gotRAG != "" {
		t.Errorf("rag context = %q, want empty after search failure", completer.gotRAG)
	}
}

func TestChatQueryUsesRequestHistory(t *testing.T) {
	completer := &fakeCompleter{reply: "ok"}
	h := &ChatHandler{
		Completer: completer,
		Speech:    &fakeSpeech{},
	}

	body := `{"message":"and for women?","lang":"en","history":[{"role":"user","content":"farmer schemes?"},{"role":"assistant","content":"PM Kisan."}]}`
	postChat(t, h, body)

	if len(completer.gotHistory) != 2 {
		t.Fatalf("history length = %d, want 2", len(completer.gotHistory))
	}
	if completer.gotHistory[1].Content != "PM Kisan." {
		t.Errorf("history[1] = %+v", completer.gotHistory[1])
	}
}

func TestChatQueryRejectsBadInput(t *testing.T) {
	h := &ChatHandler{
		Completer: &fakeCompleter{reply: "ok"},
		Speech:    &fakeSpeech{},
	}

	tests := []struct {
		name string
		body string
	}{
		{"broken JSON", `{nope`},
		{"empty message", `{"message":"   ","lang":"en"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, _ := postChat(t, h, tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestChatQueryRejectsGet(t *testing.T) {
	h := &ChatHandler{Completer: &fakeCompleter{}, Speech: &fakeSpeech{}}

	req := httptest.NewRequest(http.MethodGet, "/api/chat/query", nil)
	rec := httptest.NewRecorder()
	h.HandleChatQuery(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}
