package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

var errSample = Conflict("sample_conflict", "sample conflict")

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"direct", errSample, KindConflict},
		{"wrapped", fmt.Errorf("booking 7: %w", errSample), KindConflict},
		{"validation", Validation("bad", "bad input"), KindValidation},
		{"external", External("gw", "gateway failed", errors.New("timeout")), KindExternal},
		{"plain", errors.New("boom"), KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestSentinelIdentitySurvivesWrapping(t *testing.T) {
	wrapped := fmt.Errorf("cancel booking: %w", errSample)
	assert.True(t, errors.Is(wrapped, errSample))
	assert.True(t, Is(wrapped, KindConflict))
	assert.False(t, Is(nil, KindConflict))
}

func TestErrorMessage(t *testing.T) {
	cause := errors.New("connection refused")
	err := External("smtp", "send failed", cause)

	assert.Equal(t, "send failed: connection refused", err.Error())
	assert.ErrorIs(t, err, cause)

	e, ok := As(fmt.Errorf("outer: %w", err))
	assert.True(t, ok)
	assert.Equal(t, "smtp", e.Code)
}
