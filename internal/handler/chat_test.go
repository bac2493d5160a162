package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sahay-helpdesk/helpdesk-service/internal/logger"
)

type fakeCompleter struct {
	lastPrompt string
	reply      string
	err        error
}

func (f *fakeCompleter) Complete(_ context.Context, prompt string) (string, error) {
	f.lastPrompt = prompt
	return f.reply, f.err
}

func newChatRouter(llm *fakeCompleter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewChatHandler(llm, logger.NewNop())
	r := gin.New()
	r.POST("/api/v1/chatbot", h.Chatbot)
	r.POST("/api/v1/chat", h.Chat)
	return r
}

func TestChatbotPassThrough(t *testing.T) {
	llm := &fakeCompleter{reply: "Try turning it off and on again."}
	r := newChatRouter(llm)

	w := doJSON(t, r, http.MethodPost, "/api/v1/chatbot", map[string]any{"message": "My laptop is slow"})
	if w.Code != http.StatusOK {
		t.Fatalf("status %d, body %s", w.Code, w.Body.String())
	}
	var got map[string]string
	json.Unmarshal(w.Body.Bytes(), &got)
	if got["response"] != llm.reply {
		t.Errorf("response %q", got["response"])
	}
	// Raw pass-through: no persona framing.
	if llm.lastPrompt != "My laptop is slow" {
		t.Errorf("prompt %q, want the raw message", llm.lastPrompt)
	}
}

func TestChatbotCompletionFailure(t *testing.T) {
	llm := &fakeCompleter{err: errors.New("quota exceeded")}
	r := newChatRouter(llm)

	w := doJSON(t, r, http.MethodPost, "/api/v1/chatbot", map[string]any{"message": "hello"})
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status %d, want 500", w.Code)
	}
	if !strings.Contains(w.Body.String(), "quota exceeded") {
		t.Errorf("body does not carry the error detail: %s", w.Body.String())
	}
}

func TestChatWrapsPersonaPrompt(t *testing.T) {
	llm := &fakeCompleter{reply: "Hello! How can I help?"}
	r := newChatRouter(llm)

	w := doJSON(t, r, http.MethodPost, "/api/v1/chat", map[string]any{"message": "  hi there  "})
	if w.Code != http.StatusOK {
		t.Fatalf("status %d, body %s", w.Code, w.Body.String())
	}
	if !strings.Contains(llm.lastPrompt, "You are SAHAY") {
		t.Errorf("prompt missing persona: %q", llm.lastPrompt)
	}
	if !strings.Contains(llm.lastPrompt, "Employee: hi there\n") {
		t.Errorf("message not trimmed into prompt: %q", llm.lastPrompt)
	}
	var got map[string]string
	json.Unmarshal(w.Body.Bytes(), &got)
	if got["reply"] != llm.reply {
		t.Errorf("reply %q", got["reply"])
	}
}

func TestChatFailureIsReplyWith200(t *testing.T) {
	llm := &fakeCompleter{err: errors.New("connection refused")}
	r := newChatRouter(llm)

	w := doJSON(t, r, http.MethodPost, "/api/v1/chat", map[string]any{"message": "hi"})
	if w.Code != http.StatusOK {
		t.Fatalf("status %d, want 200 even on completion failure", w.Code)
	}
	var got map[string]string
	json.Unmarshal(w.Body.Bytes(), &got)
	if !strings.Contains(got["reply"], "connection refused") {
		t.Errorf("reply does not carry the error text: %q", got["reply"])
	}
}

func TestChatMissingMessageRejected(t *testing.T) {
	r := newChatRouter(&fakeCompleter{})
	w := doJSON(t, r, http.MethodPost, "/api/v1/chat", map[string]any{})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status %d, want 422", w.Code)
	}
}
