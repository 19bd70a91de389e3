package transport

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateAddress(t *testing.T) {
	valid := []string{":8000", "localhost:8000", "127.0.0.1:80", "[::1]:443", "api.example.com:65535"}
	for _, addr := range valid {
		assert.True(t, ValidateAddress(addr), addr)
	}

	invalid := []string{"", "8000", ":0", ":65536", "host:port", "-bad:80", "bad_host:80", "localhost:"}
	for _, addr := range invalid {
		assert.False(t, ValidateAddress(addr), addr)
	}
}
