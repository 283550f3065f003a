package handlers

import (
	"database/sql"
	"encoding/csv"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/welcomenesthr/welcomenest-golang/internal/models"
)

//
// --- Employee Handlers ---
//

// EmployeeInput defines the JSON body for creating/updating an employee.
type EmployeeInput struct {
	Name       string `json:"name" binding:"required"`
	Title      string `json:"title" binding:"required"`
	Department string `json:"department" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	Status     string `json:"status" binding:"required,oneof='Active' 'On Leave' 'Exited'"`
	StartDate  string `json:"startDate" binding:"required"`
}

// CreateEmployee is the handler for POST /v1/companies/:id/employees.
func (h *Handlers) CreateEmployee(c *gin.Context) {
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

	var input EmployeeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Exited employees get their end date stamped automatically.
	var endDate *time.Time
	if input.Status == models.EmployeeStatusExited {
		now := time.Now()
		endDate = &now
	}

	tx, err := h.DB.Begin()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
		return
	}
	defer tx.Rollback()

	query := `
		INSERT INTO employees
		(company_id, name, title, department, email, status, start_date, end_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	res, err := tx.Exec(query, companyID, input.Name, input.Title, input.Department,
		input.Email, input.Status, input.StartDate, endDate, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create employee"})
		return
	}
	employeeID, _ := res.LastInsertId()

	// Keep the denormalized headcount in step.
	if _, err := tx.Exec("UPDATE companies SET employee_count = employee_count + 1 WHERE id = ?", companyID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update employee count"})
		return
	}

	if err := tx.Commit(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit transaction"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Employee added", "id": employeeID})
}

// employeeListFilters builds the WHERE tail and args for the list and
// export queries from the request's query string.
func employeeListFilters(c *gin.Context, companyID string) (string, []interface{}) {
	where := "WHERE company_id = ?"
	args := []interface{}{companyID}

	if status := c.Query("status"); status != "" {
		where += " AND status = ?"
		args = append(args, status)
	}
	if department := c.Query("department"); department != "" {
		where += " AND department = ?"
		args = append(args, department)
	}

	return where, args
}

// scanEmployees drains an employee result set.
func scanEmployees(rows *sql.Rows) ([]*models.Employee, error) {
	employees := []*models.Employee{}
	for rows.Next() {
		var emp models.Employee
		var endDate sql.NullTime
		if err := rows.Scan(
			&emp.ID,
			&emp.CompanyID,
			&emp.Name,
			&emp.Title,
			&emp.Department,
			&emp.Email,
			&emp.Status,
			&emp.StartDate,
			&endDate,
			&emp.CreatedAt,
		); err != nil {
			return nil, err
		}
		if endDate.Valid {
			emp.EndDate = &endDate.Time
		}
		employees = append(employees, &emp)
	}
	return employees, rows.Err()
}

const employeeColumns = "id, company_id, name, title, department, email, status, start_date, end_date, created_at"

// GetEmployees is the handler for GET /v1/companies/:id/employees.
// Supports ?status=&department=&page=&limit=, newest first.
func (h *Handlers) GetEmployees(c *gin.Context) {
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

	// Pagination with sane bounds.
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "25"))
	if limit < 1 || limit > 100 {
		limit = 25
	}
	offset := (page - 1) * limit

	where, args := employeeListFilters(c, companyID)

	var total int
	if err := h.DB.QueryRow("SELECT COUNT(*) FROM employees "+where, args...).Scan(&total); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count employees"})
		return
	}

	query := "SELECT " + employeeColumns + " FROM employees " + where +
		" ORDER BY created_at DESC LIMIT ? OFFSET ?"
	rows, err := h.DB.Query(query, append(args, limit, offset)...)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database query failed"})
		return
	}
	defer rows.Close()

	employees, err := scanEmployees(rows)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan employee rows"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"employees": employees,
		"total":     total,
		"page":      page,
		"limit":     limit,
	})
}

// UpdateEmployee is the handler for PUT /v1/companies/:id/employees/:employeeId.
func (h *Handlers) UpdateEmployee(c *gin.Context) {
	userID_raw, _ := c.Get("userID")
	userID := userID_raw.(int64)
	companyID := c.Param("id")
	employeeID := c.Param("employeeId")

	owns, err := h.ownsCompany(userID, companyID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check company ownership"})
		return
	}
	if !owns {
		c.JSON(http.StatusNotFound, gin.H{"error": "Company not found"})
		return
	}

	var input EmployeeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var endDate *time.Time
	if input.Status == models.EmployeeStatusExited {
		now := time.Now()
		endDate = &now
	}

	query := `
		UPDATE employees
		SET name = ?, title = ?, department = ?, email = ?, status = ?, start_date = ?, end_date = ?
		WHERE id = ? AND company_id = ?`

	res, err := h.DB.Exec(query, input.Name, input.Title, input.Department, input.Email,
		input.Status, input.StartDate, endDate, employeeID, companyID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update employee"})
		return
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Employee not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Employee updated"})
}

// DeleteEmployee is the handler for DELETE /v1/companies/:id/employees/:employeeId.
func (h *Handlers) DeleteEmployee(c *gin.Context) {
	userID_raw, _ := c.Get("userID")
	userID := userID_raw.(int64)
	companyID := c.Param("id")
	employeeID := c.Param("employeeId")

	owns, err := h.ownsCompany(userID, companyID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check company ownership"})
		return
	}
	if !owns {
		c.JSON(http.StatusNotFound, gin.H{"error": "Company not found"})
		return
	}

	tx, err := h.DB.Begin()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
		return
	}
	defer tx.Rollback()

	res, err := tx.Exec("DELETE FROM employees WHERE id = ? AND company_id = ?", employeeID, companyID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete employee"})
		return
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Employee not found"})
		return
	}

	if _, err := tx.Exec("UPDATE companies SET employee_count = employee_count - 1 WHERE id = ? AND employee_count > 0", companyID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update employee count"})
		return
	}

	if err := tx.Commit(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit transaction"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Employee deleted"})
}

//
// --- CSV Export ---
//

// writeEmployeesCSV renders the export rows. Split out from the handler
// so the format is testable without a database.
func writeEmployeesCSV(w io.Writer, employees []*models.Employee) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"Name", "Title", "Department", "Email", "Status", "Start Date", "End Date"}); err != nil {
		return err
	}
	for _, emp := range employees {
		endDate := ""
		if emp.EndDate != nil {
			endDate = emp.EndDate.Format("2006-01-02")
		}
		record := []string{emp.Name, emp.Title, emp.Department, emp.Email, emp.Status, emp.StartDate, endDate}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// ExportEmployeesCSV is the handler for GET /v1/companies/:id/employees/export.
// Streams the filtered employee set (same filters as the list, no
// pagination) as a CSV download.
func (h *Handlers) ExportEmployeesCSV(c *gin.Context) {
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

	where, args := employeeListFilters(c, companyID)
	query := "SELECT " + employeeColumns + " FROM employees " + where + " ORDER BY created_at DESC"
	rows, err := h.DB.Query(query, args...)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database query failed"})
		return
	}
	defer rows.Close()

	employees, err := scanEmployees(rows)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan employee rows"})
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="employees.csv"`)
	c.Status(http.StatusOK)

	if err := writeEmployeesCSV(c.Writer, employees); err != nil {
		// Headers are already gone; nothing better to do than log.
		log.Printf("Failed to stream employee export for company %s: %v", companyID, err)
	}
}
