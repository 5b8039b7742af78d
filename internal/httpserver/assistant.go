package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"obak-storefront/internal/service/assistant"
)

type chatRequest struct {
	Message string              `json:"message" binding:"required"`
	History []assistant.Message `json:"history"`
}

func (h *handlers) assistantChat(c *gin.Context) {
	if h.deps.Assistant == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "assistant not configured"})
		return
	}
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad json"})
		return
	}

	reply, err := h.deps.Assistant.Chat(c.Request.Context(), req.History, req.Message)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error":  "حدث خطأ أثناء التواصل مع المساعد الذكي",
			"detail": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reply": reply})
}
