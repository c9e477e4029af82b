package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	chatapp "github.com/spendlens/backend/internal/application/chat"
	"github.com/spendlens/backend/internal/interfaces/http/dto"
)

// QuestionAsker answers a natural-language question with the upstream JSON
type QuestionAsker interface {
	Ask(ctx context.Context, question string) (json.RawMessage, error)
}

// ChatHandler proxies dashboard questions to the text-to-SQL service
type ChatHandler struct {
	BaseHandler
	chat QuestionAsker
}

// NewChatHandler creates a new ChatHandler
func NewChatHandler(chat QuestionAsker) *ChatHandler {
	return &ChatHandler{chat: chat}
}

// Ask handles POST /api/chat. The upstream body is relayed unchanged.
func (h *ChatHandler) Ask(c *gin.Context) {
	var req dto.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.Error(c, http.StatusRequestEntityTooLarge, dto.MsgRequestBodyTooLarge)
			return
		}
		h.BadRequest(c, dto.MsgQuestionRequired)
		return
	}

	answer, err := h.chat.Ask(c.Request.Context(), req.Question)
	if err != nil {
		h.handleChatError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", answer)
}

func (h *ChatHandler) handleChatError(c *gin.Context, err error) {
	if errors.Is(err, chatapp.ErrQuestionRequired) {
		h.BadRequest(c, dto.MsgQuestionRequired)
		return
	}

	var details any = err.Error()
	var upstream *chatapp.UpstreamError
	if errors.As(err, &upstream) && upstream.Details != nil {
		details = upstream.Details
	}
	h.InternalErrorWithDetails(c, dto.MsgProcessQuestion, err, details)
}
