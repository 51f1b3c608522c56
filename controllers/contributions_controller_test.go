package controllers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDueDateEmptyIsNil(t *testing.T) {
	d, err := parseDueDate("")
	require.NoError(t, err)
	assert.Nil(t, d)
}

func TestParseDueDateDateOnly(t *testing.T) {
	d, err := parseDueDate("2025-05-01")
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC), *d)
}

func TestParseDueDateRFC3339(t *testing.T) {
	d, err := parseDueDate("2025-05-01T12:30:00Z")
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, 12, d.Hour())
}

func TestParseDueDateMalformed(t *testing.T) {
	_, err := parseDueDate("01/05/2025")
	assert.Error(t, err)
}
