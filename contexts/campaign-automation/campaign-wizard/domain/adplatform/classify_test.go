package adplatform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyByCode(t *testing.T) {
	cases := []struct {
		name      string
		raw       RawError
		kind      ErrorKind
		retryable bool
	}{
		{"payment code", RawError{Code: 2446079, Message: "unknown"}, KindPaymentRequired, true},
		{"payment subcode", RawError{Code: 1, Subcode: 1359188, Message: "unknown"}, KindPaymentRequired, true},
		{"disabled code", RawError{Code: 368, Message: "unknown"}, KindAccountDisabled, false},
		{"disabled subcode", RawError{Code: 1, Subcode: 2446118, Message: "unknown"}, KindAccountDisabled, false},
		{"rate limit 4", RawError{Code: 4, Message: "unknown"}, KindRateLimit, true},
		{"rate limit 80004", RawError{Code: 80004, Message: "unknown"}, KindRateLimit, true},
		{"disapproved", RawError{Code: 1885183, Message: "unknown"}, KindAdDisapproved, true},
		{"permission 190", RawError{Code: 190, Message: "unknown"}, KindPermissionDenied, true},
		{"permission 200", RawError{Code: 200, Message: "unknown"}, KindPermissionDenied, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Classify(tc.raw)
			assert.Equal(t, tc.kind, got.Kind)
			assert.Equal(t, tc.retryable, got.Retryable)
		})
	}
}

func TestClassifyByMessageSubstring(t *testing.T) {
	cases := []struct {
		message string
		kind    ErrorKind
	}{
		{"There is a problem with your Billing setup", KindPaymentRequired},
		{"This ad account is currently disabled", KindAccountDisabled},
		{"Application request rate limit reached", KindRateLimit},
		{"Your ad was disapproved during review", KindAdDisapproved},
		{"This content violates our advertising policy", KindAdDisapproved},
		{"Error validating access token", KindPermissionDenied},
	}
	for _, tc := range cases {
		got := Classify(RawError{Code: 1, Message: tc.message})
		assert.Equalf(t, tc.kind, got.Kind, "message %q", tc.message)
	}
}

func TestClassifyFirstMatchWins(t *testing.T) {
	// Payment outranks permission even when both could match.
	got := Classify(RawError{Code: 190, Message: "payment method missing"})
	assert.Equal(t, KindPaymentRequired, got.Kind)
}

func TestClassifyGenericFallback(t *testing.T) {
	got := Classify(RawError{Code: 999999, Message: "something odd happened"})
	require.Equal(t, KindGeneric, got.Kind)
	assert.Equal(t, "something odd happened", got.UserMessage)
	assert.False(t, got.Retryable)
	assert.Empty(t, got.Remediation)
}

func TestRenderedJoinsMessageAndRemediation(t *testing.T) {
	got := Classify(RawError{Code: 368})
	require.NotEmpty(t, got.Remediation)
	assert.Equal(t, got.UserMessage+" "+got.Remediation, got.Rendered())

	generic := Classify(RawError{Code: 1, Message: "oops"})
	assert.Equal(t, "oops", generic.Rendered())
}
