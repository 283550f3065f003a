package handlers

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/welcomenesthr/welcomenest-golang/internal/models"
)

func TestWriteEmployeesCSV(t *testing.T) {
	exitedAt := time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)
	employees := []*models.Employee{
		{
			Name:       "Ada Example",
			Title:      "HR Specialist",
			Department: "People",
			Email:      "ada@example.com",
			Status:     models.EmployeeStatusActive,
			StartDate:  "2025-01-06",
		},
		{
			Name:       "Ben, Jr.", // comma forces quoting
			Title:      "Engineer",
			Department: "IT",
			Email:      "ben@example.com",
			Status:     models.EmployeeStatusExited,
			StartDate:  "2024-02-01",
			EndDate:    &exitedAt,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, writeEmployeesCSV(&buf, employees))

	want := "Name,Title,Department,Email,Status,Start Date,End Date\n" +
		"Ada Example,HR Specialist,People,ada@example.com,Active,2025-01-06,\n" +
		"\"Ben, Jr.\",Engineer,IT,ben@example.com,Exited,2024-02-01,2025-03-15\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteEmployeesCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeEmployeesCSV(&buf, nil))
	assert.Equal(t, "Name,Title,Department,Email,Status,Start Date,End Date\n", buf.String())
}
