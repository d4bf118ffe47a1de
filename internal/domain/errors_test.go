package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainErrorFormat(t *testing.T) {
	err := NewDomainError("Agent.Conversations", ErrUnavailable, "dial tcp refused")
	want := "Agent.Conversations: dial tcp refused: backend unavailable"
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}
}

func TestDomainErrorFormatNoDetail(t *testing.T) {
	err := NewDomainError("Studio.Retry", ErrNoLastRequest, "")
	want := "Studio.Retry: no previous request to resubmit"
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}
}

func TestDomainErrorUnwrap(t *testing.T) {
	err := NewDomainError("Agent.Evaluate", ErrEvaluatorDown, "circuit open")
	if !errors.Is(err, ErrEvaluatorDown) {
		t.Error("errors.Is should match ErrEvaluatorDown")
	}
}

func TestDomainErrorAs(t *testing.T) {
	err := NewDomainError("Agent.GenerateStream", ErrRateLimit, "429")
	var de *DomainError
	if !errors.As(err, &de) {
		t.Fatal("errors.As should match *DomainError")
	}
	if de.Op != "Agent.GenerateStream" {
		t.Errorf("Op = %q, want %q", de.Op, "Agent.GenerateStream")
	}
}

func TestWrapOpNil(t *testing.T) {
	if WrapOp("op", nil) != nil {
		t.Error("WrapOp(nil) should be nil")
	}
}

func TestErrorCodeOf_DirectSentinel(t *testing.T) {
	assert.Equal(t, CodeRateLimit, ErrorCodeOf(ErrRateLimit))
	assert.Equal(t, CodeStreamInterrupted, ErrorCodeOf(ErrStreamInterrupted))
	assert.Equal(t, CodeSafetyBlocked, ErrorCodeOf(ErrSafetyBlocked))
}

func TestErrorCodeOf_WrappedError(t *testing.T) {
	err := fmt.Errorf("outer: %w", ErrUnavailable)
	assert.Equal(t, CodeUnavailable, ErrorCodeOf(err))
}

func TestErrorCodeOf_SubSystem(t *testing.T) {
	err := NewSubSystemError("conversation", "Agent.Conversation", ErrNotFound, "abc123")
	assert.Equal(t, CodeConversationNotFound, ErrorCodeOf(err))
	assert.Equal(t, CodeConversationNotFound, err.Code())

	// Without a subsystem the category code applies.
	plain := NewDomainError("Agent.Conversation", ErrNotFound, "abc123")
	assert.Equal(t, CodeNotFound, ErrorCodeOf(plain))
}

func TestErrorCodeOf_Unknown(t *testing.T) {
	assert.Equal(t, CodeUnknown, ErrorCodeOf(nil))
	assert.Equal(t, CodeUnknown, ErrorCodeOf(errors.New("something else")))
}

func TestIsRetryableError(t *testing.T) {
	assert.True(t, IsRetryableError(ErrRateLimit))
	assert.True(t, IsRetryableError(fmt.Errorf("wrap: %w", ErrStreamInterrupted)))
	assert.False(t, IsRetryableError(ErrInvalidInput))
}
