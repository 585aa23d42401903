package ferrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsInvalidInputMatchesKindThroughWrap(t *testing.T) {
	base := New(KindInvalidInput, CodeInvalidSpec, "bad page size")
	wrapped := fmt.Errorf("while rendering: %w", base)
	assert.True(t, IsInvalidInput(wrapped))
	assert.False(t, IsUnresolved(wrapped))
}

func TestWithDetailAttachesAndErrorIncludesCause(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap(KindStructural, CodeInvariantBroken, "mcid overflow", cause).
		WithDetail("page", 3)
	assert.Equal(t, 3, err.Details["page"])
	assert.Contains(t, err.Error(), "disk full")
	assert.ErrorIs(t, err, cause)
}

func TestIsReturnsFalseForPlainErrors(t *testing.T) {
	assert.False(t, Is(errors.New("plain"), KindUnresolved))
}
