package models

import "time"

// Company defines the model for the 'companies' table.
// Each account owner can manage one or more companies.
type Company struct {
	ID            int64     `json:"id" db:"id"`
	UserID        int64     `json:"userId" db:"user_id"`
	Name          string    `json:"name" db:"name"`
	Industry      *string   `json:"industry,omitempty" db:"industry"`
	EmployeeCount int       `json:"employeeCount" db:"employee_count"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt" db:"updated_at"`

	// Populated by the superadmin listing, not stored on the row.
	OwnerEmail string `json:"ownerEmail,omitempty" db:"-"`
}
