package ots

import "fmt"

// FormatError is a fatal codec-level failure: bad magic, unsupported
// version, an unknown tag, truncated input, varuint overflow, an
// oversized varbytes field, or traversal depth exceeded. Always raised to
// the caller — never folded into a per-path result.
type FormatError struct {
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("ots: format error: %s", e.Reason)
}

func formatErrorf(format string, args ...interface{}) *FormatError {
	return &FormatError{Reason: fmt.Sprintf(format, args...)}
}

// DigestMismatchError is raised when the caller-supplied data (or digest)
// does not hash to the OtsFile's recorded FileDigest. Fatal, and raised
// before any tree walk begins.
type DigestMismatchError struct {
	Expected []byte
	Got      []byte
}

func (e *DigestMismatchError) Error() string {
	return "ots: file digest does not match supplied data"
}

// NoCalendarResponseError is raised by Stamp when every configured
// calendar server failed; it carries the per-server errors so the caller
// can see why.
type NoCalendarResponseError struct {
	ServerErrors map[string]error
}

func (e *NoCalendarResponseError) Error() string {
	return fmt.Sprintf("ots: no calendar server responded (%d attempted)", len(e.ServerErrors))
}
