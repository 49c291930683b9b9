package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMatchesWrappedCode(t *testing.T) {
	cause := fmt.Errorf("disk says no")
	err := Wrap(CodeInvalidRecord, "loading person", cause)
	wrapped := fmt.Errorf("listing: %w", err)

	assert.True(t, Is(wrapped, CodeInvalidRecord))
	assert.False(t, Is(wrapped, CodeNotFound))
	assert.Equal(t, CodeInvalidRecord, CodeOf(wrapped))
}

func TestCodeOfDefaultsToInternal(t *testing.T) {
	assert.Equal(t, CodeInternal, CodeOf(fmt.Errorf("plain")))
}

func TestToHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, ToHTTPStatus(CodeNotFound))
	assert.Equal(t, http.StatusInternalServerError, ToHTTPStatus(CodeInvalidRecord))
	assert.Equal(t, http.StatusInternalServerError, ToHTTPStatus(Code("unknown")))
}

func TestErrorStringIncludesCause(t *testing.T) {
	err := Wrap(CodeInternal, "reading schema", fmt.Errorf("permission denied"))
	assert.Equal(t, "reading schema: permission denied", err.Error())
}
