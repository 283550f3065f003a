package handlers

import (
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
)

func TestIsDuplicateEntry(t *testing.T) {
	dup := &mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'a@b.com' for key 'users.email'"}
	assert.True(t, isDuplicateEntry(dup))
	assert.True(t, isDuplicateEntry(fmt.Errorf("insert user: %w", dup)))

	assert.False(t, isDuplicateEntry(&mysql.MySQLError{Number: 1213, Message: "Deadlock found"}))
	assert.False(t, isDuplicateEntry(fmt.Errorf("connection refused")))
	assert.False(t, isDuplicateEntry(nil))
}
