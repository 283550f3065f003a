package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/welcomenesthr/welcomenest-golang/internal/models"
)

//
// --- Announcement Handlers ---
//

// AnnouncementInput defines the JSON body for posting an announcement.
type AnnouncementInput struct {
	Title string `json:"title" binding:"required,max=200"`
	Body  string `json:"body" binding:"required,max=5000"`
}

// CreateAnnouncement is the handler for POST /v1/companies/:id/announcements.
func (h *Handlers) CreateAnnouncement(c *gin.Context) {
	userID_raw, _ := c.Get("userID")
	userID := userID_raw.(int64)
	companyID := c.Param("id")

	owns, err := h.ownsCompany(userID, companyID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check company ownership"})
		return
	}
	if !owns {
		c.JSON(http.StatusNotFound, gin.H{"error": "Company not found"})
		return
	}

	var input AnnouncementInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	query := `
		INSERT INTO announcements (company_id, author_id, title, body, created_at)
		VALUES (?, ?, ?, ?, ?)`

	res, err := h.DB.Exec(query, companyID, userID, input.Title, input.Body, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create announcement"})
		return
	}
	announcementID, _ := res.LastInsertId()

	c.JSON(http.StatusCreated, gin.H{"message": "Announcement posted", "id": announcementID})
}

// GetAnnouncements is the handler for GET /v1/companies/:id/announcements.
func (h *Handlers) GetAnnouncements(c *gin.Context) {
	userID_raw, _ := c.Get("userID")
	userID := userID_raw.(int64)
	companyID := c.Param("id")

	owns, err := h.ownsCompany(userID, companyID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check company ownership"})
		return
	}
	if !owns {
		c.JSON(http.StatusNotFound, gin.H{"error": "Company not found"})
		return
	}

	query := `
		SELECT a.id, a.company_id, a.author_id, a.title, a.body, a.created_at, u.full_name
		FROM announcements a
		JOIN users u ON u.id = a.author_id
		WHERE a.company_id = ?
		ORDER BY a.created_at DESC
		LIMIT 50`

	rows, err := h.DB.Query(query, companyID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database query failed"})
		return
	}
	defer rows.Close()

	announcements := []*models.Announcement{}
	for rows.Next() {
		var a models.Announcement
		if err := rows.Scan(&a.ID, &a.CompanyID, &a.AuthorID, &a.Title, &a.Body, &a.CreatedAt, &a.AuthorName); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan announcement row"})
			return
		}
		announcements = append(announcements, &a)
	}
	if err = rows.Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error iterating rows"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"announcements": announcements})
}
