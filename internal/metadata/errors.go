package metadata

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"syscall"

	"github.com/hyperjump/marquee/internal/tmdb"
)

// ErrProviderUnavailable marks failures where the provider dropped connections or the
// circuit breaker is refusing calls.
var ErrProviderUnavailable = errors.New("metadata provider unavailable")

const (
	unavailableMessage = "Metadata provider is unavailable right now (connection was reset). Please try again later."
	rejectedMessage    = "Metadata provider is unavailable right now (too many recent failures). Please try again later."
)

// Classify wraps connection reset/abort errors and breaker rejections with
// ErrProviderUnavailable. Other errors are returned unchanged.
func Classify(err error) error {
	if err == nil || errors.Is(err, ErrProviderUnavailable) {
		return err
	}
	if tmdb.IsRejected(err) || isConnectionReset(err) {
		return fmt.Errorf("%w: %w", ErrProviderUnavailable, err)
	}
	return err
}

// FailureMessage returns the overview text shown for a failed resolution.
func FailureMessage(err error) string {
	switch {
	case errors.Is(err, ErrProviderUnavailable) && tmdb.IsRejected(err):
		return rejectedMessage
	case errors.Is(err, ErrProviderUnavailable):
		return unavailableMessage
	default:
		return fmt.Sprintf("(API error: %s)", err)
	}
}

var resetPatterns = []string{
	"connection reset",
	"connection aborted",
	"broken pipe",
	"remote end closed",
	"server closed idle connection",
}

func isConnectionReset(err error) bool {
	if errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNABORTED) ||
		errors.Is(err, syscall.EPIPE) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, io.EOF) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, p := range resetPatterns {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}
