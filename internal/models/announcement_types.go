package models

import "time"

// Announcement defines the model for the 'announcements' table
// (the Connect & Collaborate board).
type Announcement struct {
	ID        int64     `json:"id" db:"id"`
	CompanyID int64     `json:"companyId" db:"company_id"`
	AuthorID  int64     `json:"authorId" db:"author_id"`
	Title     string    `json:"title" db:"title"`
	Body      string    `json:"body" db:"body"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	AuthorName string `json:"authorName,omitempty" db:"-"`
}
