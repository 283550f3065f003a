package handlers

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/welcomenesthr/welcomenest-golang/internal/models"
)

//
// --- Company Handlers ---
//

// CompanyInput defines the JSON body for creating/updating a company.
type CompanyInput struct {
	Name     string  `json:"name" binding:"required"`
	Industry *string `json:"industry"`
}

// CreateCompany is the handler for POST /v1/companies.
func (h *Handlers) CreateCompany(c *gin.Context) {
	userID_raw, _ := c.Get("userID")
	userID := userID_raw.(int64)

	var input CompanyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	now := time.Now()
	query := `
		INSERT INTO companies (user_id, name, industry, employee_count, created_at, updated_at)
		VALUES (?, ?, ?, 0, ?, ?)`

	res, err := h.DB.Exec(query, userID, input.Name, input.Industry, now, now)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create company"})
		return
	}
	companyID, _ := res.LastInsertId()

	c.JSON(http.StatusCreated, gin.H{
		"message": "Company created",
		"company": models.Company{
			ID:        companyID,
			UserID:    userID,
			Name:      input.Name,
			Industry:  input.Industry,
			CreatedAt: now,
			UpdatedAt: now,
		},
	})
}

// GetMyCompanies is the handler for GET /v1/companies.
func (h *Handlers) GetMyCompanies(c *gin.Context) {
	userID_raw, _ := c.Get("userID")
	userID := userID_raw.(int64)

	query := `
		SELECT id, user_id, name, industry, employee_count, created_at, updated_at
		FROM companies
		WHERE user_id = ?
		ORDER BY created_at DESC`

	rows, err := h.DB.Query(query, userID)
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

// UpdateCompany is the handler for PUT /v1/companies/:id.
func (h *Handlers) UpdateCompany(c *gin.Context) {
	userID_raw, _ := c.Get("userID")
	userID := userID_raw.(int64)
	companyID := c.Param("id")

	var input CompanyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Ownership is enforced in the WHERE clause.
	query := `
		UPDATE companies SET name = ?, industry = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`

	res, err := h.DB.Exec(query, input.Name, input.Industry, time.Now(), companyID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update company"})
		return
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Company not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Company updated"})
}

// DeleteCompany is the handler for DELETE /v1/companies/:id.
// Removes the company and everything under it.
func (h *Handlers) DeleteCompany(c *gin.Context) {
	userID_raw, _ := c.Get("userID")
	userID := userID_raw.(int64)
	companyID := c.Param("id")

	tx, err := h.DB.Begin()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
		return
	}
	defer tx.Rollback()

	res, err := tx.Exec("DELETE FROM companies WHERE id = ? AND user_id = ?", companyID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete company"})
		return
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Company not found"})
		return
	}

	if _, err := tx.Exec("DELETE FROM employees WHERE company_id = ?", companyID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete employees"})
		return
	}
	if _, err := tx.Exec("DELETE FROM announcements WHERE company_id = ?", companyID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete announcements"})
		return
	}

	if err := tx.Commit(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit transaction"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Company deleted"})
}

// ownsCompany checks that the company belongs to the user. Shared by the
// employee and announcement handlers.
func (h *Handlers) ownsCompany(userID int64, companyID string) (bool, error) {
	var exists bool
	query := "SELECT EXISTS(SELECT 1 FROM companies WHERE id = ? AND user_id = ?)"
	if err := h.DB.QueryRow(query, companyID, userID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
