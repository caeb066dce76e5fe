package camunda

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsRetryableZeebeError(t *testing.T) {
	tests := map[string]bool{
		"rpc error: code = Unavailable desc = connection refused": true,
		"context deadline exceeded":                              true,
		"write: broken pipe":                                     true,
		"rpc error: code = NotFound desc = job not found":        false,
		"rpc error: code = PermissionDenied":                     false,
	}
	for msg, want := range tests {
		assert.Equal(t, want, isRetryableZeebeError(errors.New(msg)), msg)
	}
}
