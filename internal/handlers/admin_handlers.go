package handlers

import (
	"database/sql"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/welcomenesthr/welcomenest-golang/internal/billing"
	"github.com/welcomenesthr/welcomenest-golang/internal/models"
)

//
// --- Superadmin Console Handlers ---
//

// PlatformStats feeds the superadmin dashboard cards.
type PlatformStats struct {
	TotalUsers     int `json:"totalUsers"`
	TotalCompanies int `json:"totalCompanies"`
	TotalEmployees int `json:"totalEmployees"`
	FreeUsers      int `json:"freeUsers"`
	TrialUsers     int `json:"trialUsers"`
	PlatinumUsers  int `json:"platinumUsers"`
}

// GetPlatformStats is the handler for GET /v1/admin/stats.
func (h *Handlers) GetPlatformStats(c *gin.Context) {
	stats := PlatformStats{}

	if err := h.DB.QueryRow("SELECT COUNT(*) FROM users").Scan(&stats.TotalUsers); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count users"})
		return
	}
	if err := h.DB.QueryRow("SELECT COUNT(*) FROM companies").Scan(&stats.TotalCompanies); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count companies"})
		return
	}
	if err := h.DB.QueryRow("SELECT COUNT(*) FROM employees").Scan(&stats.TotalEmployees); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count employees"})
		return
	}

	// Plan breakdown in one pass.
	rows, err := h.DB.Query("SELECT plan, COUNT(*) FROM users GROUP BY plan")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute plan breakdown"})
		return
	}
	defer rows.Close()

	for rows.Next() {
		var plan string
		var count int
		if err := rows.Scan(&plan, &count); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan plan row"})
			return
		}
		switch billing.Tier(plan) {
		case billing.TierFree:
			stats.FreeUsers = count
		case billing.TierTrial:
			stats.TrialUsers = count
		case billing.TierPlatinum:
			stats.PlatinumUsers = count
		}
	}
	if err = rows.Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error iterating rows"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// GetAllCompanies is the handler for GET /v1/admin/companies.
func (h *Handlers) GetAllCompanies(c *gin.Context) {
	query := `
		SELECT co.id, co.user_id, co.name, co.industry, co.employee_count, co.created_at, co.updated_at, u.email
		FROM companies co
		JOIN users u ON u.id = co.user_id
		ORDER BY co.created_at DESC`

	rows, err := h.DB.Query(query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database query failed"})
		return
	}
	defer rows.Close()

	companies := []*models.Company{}
	for rows.Next() {
		var company models.Company
		var industry sql.NullString
		if err := rows.Scan(
			&company.ID,
			&company.UserID,
			&company.Name,
			&industry,
			&company.EmployeeCount,
			&company.CreatedAt,
			&company.UpdatedAt,
			&company.OwnerEmail,
		); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan company row"})
			return
		}
		if industry.Valid {
			company.Industry = &industry.String
		}
		companies = append(companies, &company)
	}
	if err = rows.Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error iterating rows"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"companies": companies})
}

// SetUserPlanInput defines the JSON body for the direct plan edit.
type SetUserPlanInput struct {
	Plan string `json:"plan" binding:"required"`
}

// SetUserPlan is the handler for PATCH /v1/admin/users/:id/plan.
// This is the only plan mutation path besides the webhook reconciler.
// Setting 'trial' also restarts a fresh 30-day expiration, keeping the
// tier/expiration pairing intact at assignment time.
func (h *Handlers) SetUserPlan(c *gin.Context) {
	targetID := c.Param("id")

	var input SetUserPlanInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !billing.ValidTier(input.Plan) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Plan must be one of: free, trial, platinum"})
		return
	}

	now := time.Now()
	var res sql.Result
	var err error
	if billing.Tier(input.Plan) == billing.TierTrial {
		trialEndsAt := now.Add(TrialDays * 24 * time.Hour)
		res, err = h.DB.Exec(
			"UPDATE users SET plan = ?, trial_ends_at = ?, updated_at = ? WHERE id = ?",
			input.Plan, trialEndsAt, now, targetID)
	} else {
		res, err = h.DB.Exec(
			"UPDATE users SET plan = ?, updated_at = ? WHERE id = ?",
			input.Plan, now, targetID)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update plan"})
		return
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	adminID_raw, _ := c.Get("userID")
	log.Printf("Superadmin %v set plan=%s for user %s", adminID_raw, input.Plan, targetID)

	c.JSON(http.StatusOK, gin.H{"message": "Plan updated", "plan": input.Plan})
}
