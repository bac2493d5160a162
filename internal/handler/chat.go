package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sahay-helpdesk/helpdesk-service/internal/logger"
)

// Completer is the text-completion dependency: one prompt in, one plain-text
// completion out.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// sahaySystemPrompt frames the assistant persona for the /chat wrapper.
const sahaySystemPrompt = "You are SAHAY, a helpful assistant for POWERGRID employees. " +
	"Answer in a polite, clear, and concise way. " +
	"Do not use technical jargon unless necessary."

type ChatHandler struct {
	llm Completer
	log *logger.Logger
}

func NewChatHandler(llm Completer, log *logger.Logger) *ChatHandler {
	return &ChatHandler{llm: llm, log: log.With("handler", "chat")}
}

type chatRequest struct {
	Message string `json:"message" binding:"required"`
}

// Chatbot handles POST /chatbot: a raw pass-through to the completion
// endpoint.
func (h *ChatHandler) Chatbot(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationError(c, err)
		return
	}
	text, err := h.llm.Complete(c.Request.Context(), req.Message)
	if err != nil {
		h.log.Error("chatbot completion", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"response": text})
}

// Chat handles POST /chat: wraps the message in the SAHAY persona prompt.
// A completion failure is reported inside the reply body with HTTP 200, so
// the chat widget renders it like any other assistant turn.
func (h *ChatHandler) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationError(c, err)
		return
	}
	message := strings.TrimSpace(req.Message)
	prompt := fmt.Sprintf("%s\n\nEmployee: %s\nSahay:", sahaySystemPrompt, message)
	reply, err := h.llm.Complete(c.Request.Context(), prompt)
	if err != nil {
		h.log.Error("chat completion", "error", err)
		reply = fmt.Sprintf("Error contacting Gemini API: %v", err)
	}
	c.JSON(http.StatusOK, gin.H{"reply": reply})
}
