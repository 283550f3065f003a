package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/welcomenesthr/welcomenest-golang/internal/models"
)

//
// --- Milestone Handlers ---
//

// GetMyMilestones is the handler for GET /v1/milestones.
func (h *Handlers) GetMyMilestones(c *gin.Context) {
	userID_raw, _ := c.Get("userID")
	userID := userID_raw.(int64)

	query := `
		SELECT id, user_id, title, description, status, sort_order, start_date, end_date
		FROM milestones
		WHERE user_id = ?
		ORDER BY sort_order ASC`

	rows, err := h.DB.Query(query, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database query failed"})
		return
	}
	defer rows.Close()

	milestones := []*models.Milestone{}
	for rows.Next() {
		var m models.Milestone
		if err := rows.Scan(
			&m.ID,
			&m.UserID,
			&m.Title,
			&m.Description,
			&m.Status,
			&m.SortOrder,
			&m.StartDate,
			&m.EndDate,
		); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan milestone row"})
			return
		}
		milestones = append(milestones, &m)
	}
	if err = rows.Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error iterating rows"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"milestones": milestones})
}

// MilestoneStatusInput defines the JSON body for status transitions.
type MilestoneStatusInput struct {
	Status string `json:"status" binding:"required,oneof=upcoming in_progress complete"`
}

// UpdateMilestoneStatus is the handler for PATCH /v1/milestones/:id.
func (h *Handlers) UpdateMilestoneStatus(c *gin.Context) {
	userID_raw, _ := c.Get("userID")
	userID := userID_raw.(int64)
	milestoneID := c.Param("id")

	var input MilestoneStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	query := "UPDATE milestones SET status = ? WHERE id = ? AND user_id = ?"
	res, err := h.DB.Exec(query, input.Status, milestoneID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update milestone"})
		return
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Milestone not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Milestone updated", "status": input.Status})
}
