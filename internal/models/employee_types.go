package models

import "time"

// Employee statuses recognised by the employee table and export.
const (
	EmployeeStatusActive  = "Active"
	EmployeeStatusOnLeave = "On Leave"
	EmployeeStatusExited  = "Exited"
)

// Employee defines the model for the 'employees' table.
type Employee struct {
	ID         int64      `json:"id" db:"id"`
	CompanyID  int64      `json:"companyId" db:"company_id"`
	Name       string     `json:"name" db:"name"`
	Title      string     `json:"title" db:"title"`
	Department string     `json:"department" db:"department"`
	Email      string     `json:"email" db:"email"`
	Status     string     `json:"status" db:"status"`
	StartDate  string     `json:"startDate" db:"start_date"`
	EndDate    *time.Time `json:"endDate,omitempty" db:"end_date"` // stamped when status becomes Exited
	CreatedAt  time.Time  `json:"createdAt" db:"created_at"`
}
