package domain

import (
	"errors"
	"fmt"
)

// Category sentinels. Combine with NewSubSystemError when the same failure
// category needs a subsystem-specific error code.
var (
	ErrNotFound     = fmt.Errorf("not found")
	ErrInvalidInput = fmt.Errorf("invalid input")
	ErrTimeout      = fmt.Errorf("operation timed out")
	ErrRateLimit    = fmt.Errorf("rate limit exceeded")
	ErrAuthInvalid  = fmt.Errorf("authentication failed")
	ErrUnavailable  = fmt.Errorf("backend unavailable")
)

// Sentinel errors for the domain layer.
var (
	ErrBackendReported   = fmt.Errorf("backend reported an error")
	ErrStreamInterrupted = fmt.Errorf("stream interrupted")
	ErrNoLastRequest     = fmt.Errorf("no previous request to resubmit")
	ErrNoOutput          = fmt.Errorf("no structured output resolved")
	ErrSafetyBlocked     = fmt.Errorf("content blocked by safety policy")
	ErrEvaluatorDown     = fmt.Errorf("evaluator unavailable")
	ErrConfigLoad        = fmt.Errorf("failed to load configuration")
	ErrDraftStore        = fmt.Errorf("draft store operation failed")
	ErrExportFailed      = fmt.Errorf("export failed")
)

// DomainError wraps a sentinel error with context.
type DomainError struct {
	Op        string // operation name (e.g., "Agent.GenerateStream")
	Err       error  // underlying sentinel or wrapped error
	Detail    string // human-readable detail
	SubSystem string // subsystem identifier (e.g., "conversation", "draft"); used for ErrorCode dispatch
}

func (e *DomainError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Detail, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Err)
}

func (e *DomainError) Unwrap() error { return e.Err }

// NewDomainError creates a new DomainError.
func NewDomainError(op string, err error, detail string) *DomainError {
	return &DomainError{Op: op, Err: err, Detail: detail}
}

// NewSubSystemError creates a DomainError tagged with a subsystem so that
// ErrorCodeOf can map the sentinel + subsystem pair to a specific code.
func NewSubSystemError(subsystem, op string, err error, detail string) *DomainError {
	return &DomainError{Op: op, Err: err, Detail: detail, SubSystem: subsystem}
}

// WrapOp adds operation context to an error using fmt.Errorf wrapping.
// Returns nil if err is nil, enabling idiomatic use: return domain.WrapOp("op", err)
func WrapOp(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, err)
}

// IsRetryableError reports whether err is a transient error that may succeed on retry.
func IsRetryableError(err error) bool {
	return errors.Is(err, ErrRateLimit) ||
		errors.Is(err, ErrUnavailable) ||
		errors.Is(err, ErrStreamInterrupted)
}

// ErrorCode is a machine-parseable error category for logging and monitoring.
type ErrorCode string

// Error codes. Every sentinel error maps to exactly one code.
const (
	CodeUnknown           ErrorCode = "UNKNOWN"
	CodeNotFound          ErrorCode = "NOT_FOUND"
	CodeInvalidInput      ErrorCode = "INVALID_INPUT"
	CodeTimeout           ErrorCode = "TIMEOUT"
	CodeRateLimit         ErrorCode = "RATE_LIMIT"
	CodeAuthInvalid       ErrorCode = "AUTH_INVALID"
	CodeUnavailable       ErrorCode = "BACKEND_UNAVAILABLE"
	CodeBackendReported   ErrorCode = "BACKEND_REPORTED"
	CodeStreamInterrupted ErrorCode = "STREAM_INTERRUPTED"
	CodeNoLastRequest     ErrorCode = "NO_LAST_REQUEST"
	CodeNoOutput          ErrorCode = "NO_OUTPUT"
	CodeSafetyBlocked     ErrorCode = "SAFETY_BLOCKED"
	CodeEvaluatorDown     ErrorCode = "EVALUATOR_DOWN"
	CodeConfigLoad        ErrorCode = "CONFIG_LOAD"
	CodeDraftStore        ErrorCode = "DRAFT_STORE"
	CodeExportFailed      ErrorCode = "EXPORT_FAILED"

	// Subsystem-specific codes used by subSystemCodeMap.
	CodeConversationNotFound ErrorCode = "CONVERSATION_NOT_FOUND"
	CodeDraftNotFound        ErrorCode = "DRAFT_NOT_FOUND"
)

// errorCodeMap maps sentinel errors to their machine-parseable codes.
var errorCodeMap = map[error]ErrorCode{
	ErrNotFound:          CodeNotFound,
	ErrInvalidInput:      CodeInvalidInput,
	ErrTimeout:           CodeTimeout,
	ErrRateLimit:         CodeRateLimit,
	ErrAuthInvalid:       CodeAuthInvalid,
	ErrUnavailable:       CodeUnavailable,
	ErrBackendReported:   CodeBackendReported,
	ErrStreamInterrupted: CodeStreamInterrupted,
	ErrNoLastRequest:     CodeNoLastRequest,
	ErrNoOutput:          CodeNoOutput,
	ErrSafetyBlocked:     CodeSafetyBlocked,
	ErrEvaluatorDown:     CodeEvaluatorDown,
	ErrConfigLoad:        CodeConfigLoad,
	ErrDraftStore:        CodeDraftStore,
	ErrExportFailed:      CodeExportFailed,
}

// subSystemCodeMap maps (category sentinel, subsystem) pairs to specific codes.
var subSystemCodeMap = map[error]map[string]ErrorCode{
	ErrNotFound: {
		"conversation": CodeConversationNotFound,
		"draft":        CodeDraftNotFound,
	},
}

// ErrorCodeOf returns the machine-parseable error code for the given error.
// It unwraps DomainError and uses errors.Is to match sentinel errors.
// Returns CodeUnknown if no matching sentinel is found.
func ErrorCodeOf(err error) ErrorCode {
	if err == nil {
		return CodeUnknown
	}

	// Fast path: direct sentinel lookup.
	if code, ok := errorCodeMap[err]; ok {
		return code
	}

	var de *DomainError
	if errors.As(err, &de) {
		if de.SubSystem != "" {
			if subsysMap, ok := subSystemCodeMap[de.Err]; ok {
				if code, ok := subsysMap[de.SubSystem]; ok {
					return code
				}
			}
		}
		if code, ok := errorCodeMap[de.Err]; ok {
			return code
		}
	}

	// Walk the error chain with errors.Is.
	for sentinel, code := range errorCodeMap {
		if errors.Is(err, sentinel) {
			return code
		}
	}

	return CodeUnknown
}

// Code returns the ErrorCode for this DomainError's underlying sentinel.
func (e *DomainError) Code() ErrorCode {
	if e.SubSystem != "" {
		if subsysMap, ok := subSystemCodeMap[e.Err]; ok {
			if code, ok := subsysMap[e.SubSystem]; ok {
				return code
			}
		}
	}
	if code, ok := errorCodeMap[e.Err]; ok {
		return code
	}
	return CodeUnknown
}
