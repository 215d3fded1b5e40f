package repository

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetClause(t *testing.T) {
	clause, args := setClause(map[string]any{
		"vehicle_type": "large",
		"rate":         "0.34",
		"status":       "Occupied",
	})
	// Columns come out sorted so the statement text is deterministic.
	assert.Equal(t, "rate = ?, status = ?, vehicle_type = ?", clause)
	assert.Equal(t, []any{"0.34", "Occupied", "large"}, args)
}

func TestSetClauseEmpty(t *testing.T) {
	clause, args := setClause(map[string]any{})
	assert.Equal(t, "", clause)
	assert.Empty(t, args)
}

func TestIsDuplicateKey(t *testing.T) {
	assert.True(t, isDuplicateKey(errors.New("Error 1062 (23000): Duplicate entry 'DT' for key 'garages.prefix'")))
	assert.False(t, isDuplicateKey(errors.New("Error 1146 (42S02): Table 'parking.garages' doesn't exist")))
	assert.False(t, isDuplicateKey(nil))
}
