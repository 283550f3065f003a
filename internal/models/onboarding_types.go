package models

import "time"

// OnboardingTask defines the model for the 'onboarding_tasks' table.
// Tasks belong to a user and are seeded at signup.
type OnboardingTask struct {
	ID          int64     `json:"id" db:"id"`
	UserID      int64     `json:"userId" db:"user_id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Completed   bool      `json:"completed" db:"completed"`
	SortOrder   int       `json:"sortOrder" db:"sort_order"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

// Milestone statuses for the journey timeline.
const (
	MilestoneStatusComplete   = "complete"
	MilestoneStatusInProgress = "in_progress"
	MilestoneStatusUpcoming   = "upcoming"
)

// Milestone defines the model for the 'milestones' table.
type Milestone struct {
	ID          int64     `json:"id" db:"id"`
	UserID      int64     `json:"userId" db:"user_id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Status      string    `json:"status" db:"status"`
	SortOrder   int       `json:"sortOrder" db:"sort_order"`
	StartDate   time.Time `json:"startDate" db:"start_date"`
	EndDate     time.Time `json:"endDate" db:"end_date"`
}
