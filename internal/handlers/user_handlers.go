package handlers

import (
	"database/sql"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-sql-driver/mysql"
	"github.com/welcomenesthr/welcomenest-golang/internal/access"
	"github.com/welcomenesthr/welcomenest-golang/internal/auth"
	"github.com/welcomenesthr/welcomenest-golang/internal/billing"
	"github.com/welcomenesthr/welcomenest-golang/internal/models"
)

// TrialDays is the length of the signup trial.
const TrialDays = 30

//
// --- Signup ---
//

// defaultOnboardingTasks are seeded for every new account.
var defaultOnboardingTasks = []models.OnboardingTask{
	{Title: "Complete your profile", Description: "Add your name, role, and profile picture", SortOrder: 1},
	{Title: "Meet your onboarding buddy", Description: "Schedule a meeting with your assigned buddy", SortOrder: 2},
	{Title: "Read the company handbook", Description: "Review policies and guidelines", SortOrder: 3},
	{Title: "Set up work tools", Description: "Install and configure Slack, Jira, and email", SortOrder: 4},
	{Title: "Schedule your 30-day check-in", Description: "Meet with your manager to discuss progress", SortOrder: 5},
}

// defaultMilestones seed the four-stage journey timeline. Start/end
// offsets are in days from signup.
var defaultMilestones = []struct {
	Title       string
	Description string
	Status      string
	StartOffset int
	EndOffset   int
}{
	{"Start your journey", "Complete your profile and get started", models.MilestoneStatusInProgress, 0, 7},
	{"Meet your team", "Get to know your colleagues and role", models.MilestoneStatusUpcoming, 8, 15},
	{"Finish compliance training", "Complete all required onboarding courses", models.MilestoneStatusUpcoming, 16, 23},
	{"Review your 90-day goals", "Discuss objectives with your manager", models.MilestoneStatusUpcoming, 24, 31},
}

// isDuplicateEntry reports whether err is the MySQL duplicate-key error
// (code 1062), here raised by the unique email index.
func isDuplicateEntry(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}

// SignupInput defines the JSON body for POST /v1/signup.
type SignupInput struct {
	FullName string `json:"fullName" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// Signup creates the account with a fresh 30-day trial and seeds the
// onboarding checklist and milestone timeline in one transaction.
func (h *Handlers) Signup(c *gin.Context) {
	// 1. --- Bind & Validate JSON ---
	var input SignupInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// 2. --- Hash the Password ---
	var password models.Password
	if err := password.Set(input.Password); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	now := time.Now()
	trialEndsAt := now.Add(TrialDays * 24 * time.Hour)

	// 3. --- Begin Transaction ---
	tx, err := h.DB.Begin()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
		return
	}
	defer tx.Rollback()

	// 4. --- Create User ---
	// Trial plan and expiration are assigned here and only here; the
	// billing reconciler never writes trial_ends_at.
	userQuery := `
		INSERT INTO users
		(role, email, password_hash, full_name, plan, trial_ends_at, created_at, updated_at)
		VALUES ('member', ?, ?, ?, ?, ?, ?, ?)`

	res, err := tx.Exec(userQuery, input.Email, password.Hash, input.FullName,
		string(billing.TierTrial), trialEndsAt, now, now)
	if err != nil {
		if isDuplicateEntry(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "An account with this email already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account"})
		return
	}
	userID, err := res.LastInsertId()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read new user id"})
		return
	}

	// 5. --- Seed Onboarding Checklist ---
	taskQuery := `
		INSERT INTO onboarding_tasks (user_id, title, description, completed, sort_order, created_at)
		VALUES (?, ?, ?, 0, ?, ?)`
	for _, task := range defaultOnboardingTasks {
		if _, err := tx.Exec(taskQuery, userID, task.Title, task.Description, task.SortOrder, now); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to seed onboarding tasks"})
			return
		}
	}

	// 6. --- Seed Milestones ---
	milestoneQuery := `
		INSERT INTO milestones (user_id, title, description, status, sort_order, start_date, end_date)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	for i, m := range defaultMilestones {
		startDate := now.Add(time.Duration(m.StartOffset) * 24 * time.Hour)
		endDate := now.Add(time.Duration(m.EndOffset) * 24 * time.Hour)
		if _, err := tx.Exec(milestoneQuery, userID, m.Title, m.Description, m.Status, i+1, startDate, endDate); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to seed milestones"})
			return
		}
	}

	// 7. --- Commit ---
	if err := tx.Commit(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit transaction"})
		return
	}

	log.Printf("New account %d created with %d tasks and %d milestones", userID, len(defaultOnboardingTasks), len(defaultMilestones))

	// 8. --- Issue Token ---
	token, err := auth.GenerateToken(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Account created but failed to issue token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Account created. Your 30-day trial has started.",
		"token":   token,
		"user": gin.H{
			"id":          userID,
			"email":       input.Email,
			"fullName":    input.FullName,
			"plan":        billing.TierTrial,
			"trialEndsAt": trialEndsAt,
		},
	})
}

//
// --- Login ---
//

// LoginInput defines the JSON body for POST /v1/login.
type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login verifies credentials and returns a JWT.
func (h *Handlers) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	query := "SELECT id, password_hash FROM users WHERE email = ?"
	err := h.DB.QueryRow(query, input.Email).Scan(&user.ID, &user.PasswordHash)
	if err != nil {
		// Same response for unknown email and wrong password.
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	password := models.Password{Hash: user.PasswordHash}
	matches, err := password.Matches(input.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify password"})
		return
	}
	if !matches {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	token, err := auth.GenerateToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

//
// --- Profile ---
//

// GetMe returns the caller's profile plus the current access decision.
// GET /v1/me
func (h *Handlers) GetMe(c *gin.Context) {
	userID_raw, _ := c.Get("userID")
	userID := userID_raw.(int64)

	var user models.User
	var trialEndsAt sql.NullTime
	query := `
		SELECT id, role, email, full_name, plan, trial_ends_at, created_at
		FROM users WHERE id = ?`
	err := h.DB.QueryRow(query, userID).Scan(
		&user.ID, &user.Role, &user.Email, &user.FullName, &user.Plan, &trialEndsAt, &user.CreatedAt,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load profile"})
		return
	}
	if trialEndsAt.Valid {
		user.TrialEndsAt = &trialEndsAt.Time
	}

	decision := access.Evaluate(billing.Tier(user.Plan), user.TrialEndsAt, time.Now())

	c.JSON(http.StatusOK, gin.H{
		"user":   user,
		"access": decision,
	})
}
