package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ChatInput defines the structure of the JSON request body.
type ChatInput struct {
	Message string `json:"message" binding:"required"`
	Model   string `json:"model"` // optional override, defaults server-side
}

// ChatAI handles the interaction with the AI Assistant.
// POST /v1/ai/chat
func (h *Handlers) ChatAI(c *gin.Context) {
	// 1. Get User Context (set by AuthMiddleware)
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	// 2. Parse Input
	var input ChatInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// 3. Call the AI Service
	aiResponse, tokensUsed, err := h.AIService.GenerateResponse(c.Request.Context(), input.Message, input.Model)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "AI Service unavailable: " + err.Error()})
		return
	}

	// 4. Save to History
	// The user already has their answer; a history failure is logged,
	// not surfaced.
	query := `
		INSERT INTO ai_chat_history (user_id, user_message, ai_response, tokens_used, created_at)
		VALUES (?, ?, ?, ?, NOW())`
	if _, dbErr := h.DB.Exec(query, userID, input.Message, aiResponse, tokensUsed); dbErr != nil {
		log.Printf("Warning: failed to save chat history: %v", dbErr)
	}

	// 5. Return the Answer
	c.JSON(http.StatusOK, gin.H{
		"response":   aiResponse,
		"tokensUsed": tokensUsed,
	})
}
