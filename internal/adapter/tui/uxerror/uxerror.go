// Package uxerror translates raw errors into user-friendly messages with
// recovery hints for the TUI.
package uxerror

import (
	"errors"
	"fmt"
	"strings"

	"social-studio/internal/adapter/tui/theme"
	"social-studio/internal/domain"
)

// FriendlyError is a user-facing error with suggestions for recovery.
type FriendlyError struct {
	Title   string   // short heading, e.g. "Backend Unreachable"
	Message string   // one-liner explanation
	Hints   []string // actionable recovery suggestions
	Raw     string   // original error text (for debug)
}

// Render formats the FriendlyError for display in the TUI transcript.
func (fe FriendlyError) Render() string {
	var sb strings.Builder
	sb.WriteString(fe.Title)
	if fe.Message != "" {
		sb.WriteString("\n  ")
		sb.WriteString(fe.Message)
	}
	if len(fe.Hints) > 0 {
		sb.WriteString("\n  Suggestions:")
		for _, h := range fe.Hints {
			sb.WriteString(fmt.Sprintf("\n    %s %s", theme.SymbolBullet, h))
		}
	}
	return sb.String()
}

type errorPattern struct {
	match   func(err error) bool
	produce func(err error) FriendlyError
}

var patterns = []errorPattern{
	// Domain sentinel errors (checked first so errors.Is works through wrapping).
	{
		match: func(err error) bool { return errors.Is(err, domain.ErrUnavailable) },
		produce: func(err error) FriendlyError {
			return FriendlyError{
				Title:   "Backend Unreachable",
				Message: "The content agent backend did not respond.",
				Hints:   []string{"Check that the backend is running", "Verify backend.base_url in config or STUDIO_BACKEND_URL", "Use /health to probe the backend"},
				Raw:     err.Error(),
			}
		},
	},
	{
		match: func(err error) bool { return errors.Is(err, domain.ErrStreamInterrupted) },
		produce: func(err error) FriendlyError {
			return FriendlyError{
				Title:   "Stream Interrupted",
				Message: "The agent stopped before finishing the response.",
				Hints:   []string{"Press Ctrl+R to retry the last request", "Check the backend logs for crashes"},
				Raw:     err.Error(),
			}
		},
	},
	{
		match: func(err error) bool { return errors.Is(err, domain.ErrSafetyBlocked) },
		produce: func(err error) FriendlyError {
			return FriendlyError{
				Title:   "Blocked by Content Safety",
				Message: "The request was flagged by the safety checker.",
				Hints:   []string{"Rephrase the topic and try again", "Review the safety categories shown in the banner"},
				Raw:     err.Error(),
			}
		},
	},
	{
		match: func(err error) bool { return errors.Is(err, domain.ErrEvaluatorDown) },
		produce: func(err error) FriendlyError {
			return FriendlyError{
				Title:   "Evaluator Unavailable",
				Message: "Content evaluation failed on the backend.",
				Hints:   []string{"The generated content is unaffected", "Try /score again in a moment"},
				Raw:     err.Error(),
			}
		},
	},
	{
		match: func(err error) bool { return errors.Is(err, domain.ErrNoOutput) },
		produce: func(err error) FriendlyError {
			return FriendlyError{
				Title:   "No Structured Output",
				Message: "The response did not contain a recognizable content block.",
				Hints:   []string{"The raw transcript is still shown", "Retry with Ctrl+R to regenerate"},
				Raw:     err.Error(),
			}
		},
	},
	{
		match: func(err error) bool { return errors.Is(err, domain.ErrNoLastRequest) },
		produce: func(err error) FriendlyError {
			return FriendlyError{
				Title:   "Nothing to Retry",
				Message: "No request has been submitted in this session yet.",
				Hints:   []string{"Type a topic and press Enter to generate content"},
				Raw:     err.Error(),
			}
		},
	},
	{
		match: func(err error) bool { return errors.Is(err, domain.ErrDraftStore) },
		produce: func(err error) FriendlyError {
			return FriendlyError{
				Title:   "Draft Store Error",
				Message: "Saving or loading drafts failed.",
				Hints:   []string{"Check drafts.path in config or STUDIO_DRAFTS_PATH", "Ensure the data directory is writable"},
				Raw:     err.Error(),
			}
		},
	},
	{
		match: func(err error) bool { return errors.Is(err, domain.ErrExportFailed) },
		produce: func(err error) FriendlyError {
			return FriendlyError{
				Title:   "Export Failed",
				Message: "Writing the export file did not succeed.",
				Hints:   []string{"Check export.dir in config or STUDIO_EXPORT_DIR", "Ensure the export directory is writable"},
				Raw:     err.Error(),
			}
		},
	},
	{
		match: func(err error) bool { return errors.Is(err, domain.ErrAuthInvalid) },
		produce: func(err error) FriendlyError {
			return FriendlyError{
				Title:   "Authentication Failed",
				Message: "The backend rejected the request credentials.",
				Hints:   []string{"Check the backend's API key configuration", "Verify the key hasn't expired"},
				Raw:     err.Error(),
			}
		},
	},
	{
		match: func(err error) bool { return errors.Is(err, domain.ErrRateLimit) },
		produce: func(err error) FriendlyError {
			return FriendlyError{
				Title:   "Rate Limited",
				Message: "Too many requests sent to the backend.",
				Hints:   []string{"Wait a moment before retrying", "Reduce request frequency"},
				Raw:     err.Error(),
			}
		},
	},
	{
		match: func(err error) bool { return errors.Is(err, domain.ErrTimeout) },
		produce: func(err error) FriendlyError {
			return FriendlyError{
				Title:   "Request Timed Out",
				Message: "The request took too long to complete.",
				Hints:   []string{"Try a shorter topic or fewer platforms", "Check your network connection"},
				Raw:     err.Error(),
			}
		},
	},

	// Network / connectivity patterns (string matching for external errors).
	{
		match:   containsAny("connection refused", "dial tcp", "no such host"),
		produce: constantError("Connection Failed", "Could not reach the content agent backend.", []string{"Check that the backend is running", "Verify backend.base_url in config or STUDIO_BACKEND_URL", "Check if a firewall is blocking the connection"}),
	},
	{
		match:   containsAny("deadline exceeded", "timeout", "context deadline"),
		produce: constantError("Request Timed Out", "The request took too long to complete.", []string{"Try a shorter topic or fewer platforms", "Check your network connection"}),
	},

	// Auth patterns.
	{
		match:   containsAny("401", "unauthorized", "invalid api key", "authentication failed"),
		produce: constantError("Authentication Failed", "The backend rejected the request credentials.", []string{"Check the backend's API key configuration", "Verify the key hasn't expired"}),
	},

	// Rate limiting.
	{
		match:   containsAny("429", "rate limit", "too many requests"),
		produce: constantError("Rate Limited", "Too many requests sent to the backend.", []string{"Wait a moment before retrying", "Reduce request frequency"}),
	},
}

// Humanize converts a raw error into a FriendlyError with recovery hints.
func Humanize(err error) FriendlyError {
	if err == nil {
		return FriendlyError{Title: "Unknown Error", Raw: "nil"}
	}

	for _, p := range patterns {
		if p.match(err) {
			return p.produce(err)
		}
	}

	// Fallback for unrecognized errors.
	return FriendlyError{
		Title:   "Unexpected Error",
		Message: err.Error(),
		Hints:   []string{"Try again", "Set logger.level to debug in config for more details"},
		Raw:     err.Error(),
	}
}

// containsAny returns a match func that checks if the error string contains
// any of the given substrings (case-insensitive).
func containsAny(substrs ...string) func(error) bool {
	return func(err error) bool {
		lower := strings.ToLower(err.Error())
		for _, s := range substrs {
			if strings.Contains(lower, s) {
				return true
			}
		}
		return false
	}
}

// constantError returns a produce func that always returns the same FriendlyError.
func constantError(title, message string, hints []string) func(error) FriendlyError {
	return func(err error) FriendlyError {
		return FriendlyError{
			Title:   title,
			Message: message,
			Hints:   hints,
			Raw:     err.Error(),
		}
	}
}
