package adplatform

import "fmt"

// RawError is the single loosely-typed error shape returned by the ad
// platform. The classifier is the only component allowed to pattern-match
// on it; everything else consumes StructuredError.
type RawError struct {
	Code    int
	Subcode int
	Message string
}

func (e RawError) Error() string {
	if e.Subcode != 0 {
		return fmt.Sprintf("platform error %d/%d: %s", e.Code, e.Subcode, e.Message)
	}
	return fmt.Sprintf("platform error %d: %s", e.Code, e.Message)
}

type ErrorKind string

const (
	KindPaymentRequired  ErrorKind = "PAYMENT_REQUIRED"
	KindAccountDisabled  ErrorKind = "ACCOUNT_DISABLED"
	KindRateLimit        ErrorKind = "RATE_LIMIT"
	KindAdDisapproved    ErrorKind = "AD_DISAPPROVED"
	KindPermissionDenied ErrorKind = "PERMISSION_DENIED"
	KindGeneric          ErrorKind = "GENERIC"
)

// StructuredError is the classified, user-actionable form of a RawError.
type StructuredError struct {
	Kind          ErrorKind
	UserMessage   string
	Remediation   string
	HelpReference string
	Retryable     bool
}

func (e StructuredError) Error() string {
	return e.UserMessage
}

// Rendered is the string persisted as a task's lastError.
func (e StructuredError) Rendered() string {
	if e.Remediation == "" {
		return e.UserMessage
	}
	return e.UserMessage + " " + e.Remediation
}
