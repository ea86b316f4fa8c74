package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taxsarthi/internal/domain"
	"taxsarthi/internal/service"
)

// ChatHandler handles the tax chatbot endpoints. Sessions are selected by
// the optional X-Session-ID header; absent, a shared default session is
// used.
type ChatHandler struct {
	chatService service.ChatService
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(chatService service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

func sessionID(c *gin.Context) string {
	return c.GetHeader("X-Session-ID")
}

// SetContext handles POST /api/v1/chat/context
func (h *ChatHandler) SetContext(c *gin.Context) {
	var taxCtx domain.ChatContext
	if err := c.ShouldBindJSON(&taxCtx); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	h.chatService.SetContext(sessionID(c), &taxCtx)
	RespondOK(c, gin.H{"message": "context updated"})
}

// ChatRequest is the payload for a chat turn.
type ChatRequest struct {
	Message string `json:"message" binding:"required"`
}

// Chat handles POST /api/v1/chat
func (h *ChatHandler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	reply, hasContext, err := h.chatService.Chat(c.Request.Context(), sessionID(c), req.Message)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"response": reply, "has_context": hasContext})
}

// Suggestions handles GET /api/v1/chat/suggestions
func (h *ChatHandler) Suggestions(c *gin.Context) {
	suggestions, err := h.chatService.Suggestions(c.Request.Context(), sessionID(c))
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"suggestions": suggestions})
}

// Clear handles POST /api/v1/chat/clear
func (h *ChatHandler) Clear(c *gin.Context) {
	h.chatService.Clear(sessionID(c))
	RespondOK(c, gin.H{"message": "chat history cleared"})
}
