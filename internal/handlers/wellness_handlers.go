package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/welcomenesthr/welcomenest-golang/internal/models"
)

//
// --- Wellness Journal (LifeSync) Handlers ---
//

// WellnessEntryInput defines the JSON body for a mood log entry.
type WellnessEntryInput struct {
	Mood string `json:"mood" binding:"required,oneof=great good okay low stressed"`
	Note string `json:"note" binding:"max=2000"`
}

// CreateWellnessEntry is the handler for POST /v1/wellness/entries.
func (h *Handlers) CreateWellnessEntry(c *gin.Context) {
	userID_raw, _ := c.Get("userID")
	userID := userID_raw.(int64)

	var input WellnessEntryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	now := time.Now()
	query := `
		INSERT INTO wellness_entries (user_id, mood, note, created_at)
		VALUES (?, ?, ?, ?)`

	res, err := h.DB.Exec(query, userID, input.Mood, input.Note, now)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save entry"})
		return
	}
	entryID, _ := res.LastInsertId()

	c.JSON(http.StatusCreated, gin.H{
		"entry": models.WellnessEntry{
			ID:        entryID,
			UserID:    userID,
			Mood:      input.Mood,
			Note:      input.Note,
			CreatedAt: now,
		},
	})
}

// GetMyWellnessHistory is the handler for GET /v1/wellness/entries.
// Newest first, capped at 90 entries (the history view shows 3 months).
func (h *Handlers) GetMyWellnessHistory(c *gin.Context) {
	userID_raw, _ := c.Get("userID")
	userID := userID_raw.(int64)

	query := `
		SELECT id, user_id, mood, note, created_at
		FROM wellness_entries
		WHERE user_id = ?
		ORDER BY created_at DESC
		LIMIT 90`

	rows, err := h.DB.Query(query, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database query failed"})
		return
	}
	defer rows.Close()

	entries := []*models.WellnessEntry{}
	for rows.Next() {
		var entry models.WellnessEntry
		if err := rows.Scan(&entry.ID, &entry.UserID, &entry.Mood, &entry.Note, &entry.CreatedAt); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan entry row"})
			return
		}
		entries = append(entries, &entry)
	}
	if err = rows.Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error iterating rows"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"entries": entries})
}
