package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFileID(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare name", "cat.png", "cat.png"},
		{"upload prefix", "uploads/cat.png", "cat.png"},
		{"nested path", "a/b/cat.png", "cat.png"},
		{"prefixed nested path", "uploads/a/b/cat.png", "cat.png"},
		{"name with spaces", "uploads/my cat.png", "my cat.png"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FileID(tt.in))
		})
	}
}

func TestFileIDIdempotent(t *testing.T) {
	for _, in := range []string{"cat.png", "uploads/cat.png", "a/b/cat.png", "uploads/a/b/cat.png", ""} {
		once := FileID(in)
		assert.Equal(t, once, FileID(once), "normalizing twice must equal normalizing once for %q", in)
	}
}
