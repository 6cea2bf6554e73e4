package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSwapStatus(t *testing.T) {
	tests := []struct {
		in     string
		status SwapStatus
		ok     bool
	}{
		{"", "", true},
		{"all", "", true},
		{"any", "", true},
		{"pending", SwapStatusPending, true},
		{"accepted", SwapStatusAccepted, true},
		{"rejected", SwapStatusRejected, true},
		{"Accepted", "", false},
		{"canceled", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			status, ok := ParseSwapStatus(tt.in)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.ok, ok)
		})
	}
}
