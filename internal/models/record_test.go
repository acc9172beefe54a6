package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRecordInvariants(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	done := NewCompleted("cat.png", "resized/cat.png", now)
	assert.Equal(t, StatusCompleted, done.Status)
	assert.NotEmpty(t, done.OutputKey)
	assert.Empty(t, done.Error)
	assert.Equal(t, now.UnixMilli(), done.Timestamp)
	assert.Equal(t, now.Add(24*time.Hour).Unix(), done.Expiry)

	failed := NewError("cat.png", "download failed", now)
	assert.Equal(t, StatusError, failed.Status)
	assert.NotEmpty(t, failed.Error)
	assert.Empty(t, failed.OutputKey)
	assert.Equal(t, now.Add(24*time.Hour).Unix(), failed.Expiry)
}

func TestUnknownIsNeverExpiring(t *testing.T) {
	u := Unknown()
	assert.Equal(t, StatusUnknown, u.Status)
	assert.Zero(t, u.Timestamp)
	assert.Zero(t, u.Expiry)
}
