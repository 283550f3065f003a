package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/welcomenesthr/welcomenest-golang/internal/models"
)

//
// --- Onboarding Checklist Handlers ---
//

// GetMyOnboardingTasks is the handler for GET /v1/onboarding/tasks.
// Accounts created before the checklist feature existed get the default
// tasks seeded on first read.
func (h *Handlers) GetMyOnboardingTasks(c *gin.Context) {
	userID_raw, _ := c.Get("userID")
	userID := userID_raw.(int64)

	tasks, err := h.loadOnboardingTasks(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load onboarding tasks"})
		return
	}

	if len(tasks) == 0 {
		log.Printf("Seeding default onboarding tasks for user %d", userID)
		if err := h.seedDefaultTasks(userID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to seed onboarding tasks"})
			return
		}
		tasks, err = h.loadOnboardingTasks(userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load onboarding tasks"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

func (h *Handlers) loadOnboardingTasks(userID int64) ([]*models.OnboardingTask, error) {
	query := `
		SELECT id, user_id, title, description, completed, sort_order, created_at
		FROM onboarding_tasks
		WHERE user_id = ?
		ORDER BY sort_order ASC`

	rows, err := h.DB.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []*models.OnboardingTask{}
	for rows.Next() {
		var task models.OnboardingTask
		if err := rows.Scan(
			&task.ID,
			&task.UserID,
			&task.Title,
			&task.Description,
			&task.Completed,
			&task.SortOrder,
			&task.CreatedAt,
		); err != nil {
			return nil, err
		}
		tasks = append(tasks, &task)
	}
	return tasks, rows.Err()
}

func (h *Handlers) seedDefaultTasks(userID int64) error {
	tx, err := h.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO onboarding_tasks (user_id, title, description, completed, sort_order, created_at)
		VALUES (?, ?, ?, 0, ?, ?)`
	now := time.Now()
	for _, task := range defaultOnboardingTasks {
		if _, err := tx.Exec(query, userID, task.Title, task.Description, task.SortOrder, now); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ToggleTaskInput defines the JSON body for the completion toggle.
type ToggleTaskInput struct {
	Completed *bool `json:"completed" binding:"required"`
}

// ToggleOnboardingTask is the handler for PATCH /v1/onboarding/tasks/:id.
func (h *Handlers) ToggleOnboardingTask(c *gin.Context) {
	userID_raw, _ := c.Get("userID")
	userID := userID_raw.(int64)
	taskID := c.Param("id")

	var input ToggleTaskInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	query := "UPDATE onboarding_tasks SET completed = ? WHERE id = ? AND user_id = ?"
	res, err := h.DB.Exec(query, *input.Completed, taskID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task"})
		return
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task updated"})
}

// GetOnboardingProgress is the handler for GET /v1/onboarding/progress.
// Feeds the checklist progress bar.
func (h *Handlers) GetOnboardingProgress(c *gin.Context) {
	userID_raw, _ := c.Get("userID")
	userID := userID_raw.(int64)

	var total, done int
	query := `
		SELECT COUNT(*), COALESCE(SUM(completed), 0)
		FROM onboarding_tasks
		WHERE user_id = ?`
	if err := h.DB.QueryRow(query, userID).Scan(&total, &done); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute progress"})
		return
	}

	percent := 0
	if total > 0 {
		percent = done * 100 / total
	}

	c.JSON(http.StatusOK, gin.H{
		"total":   total,
		"done":    done,
		"percent": percent,
	})
}
