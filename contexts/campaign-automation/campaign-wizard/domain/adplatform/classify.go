package adplatform

import "strings"

// Code sets observed from the platform. Message substrings cover the cases
// where the platform returns a generic code with a descriptive message.
var (
	paymentCodes    = map[int]bool{2446079: true, 1359188: true}
	disabledCodes   = map[int]bool{368: true, 2446118: true}
	rateLimitCodes  = map[int]bool{4: true, 17: true, 613: true, 80004: true}
	disapprovalCode = map[int]bool{1885183: true, 1885272: true}
	permissionCodes = map[int]bool{10: true, 190: true, 200: true}
)

// Classify maps a raw platform error to exactly one structured kind.
// Matching is first-match-wins in business-priority order; anything
// unrecognized falls through to GENERIC rather than failing.
func Classify(raw RawError) StructuredError {
	message := strings.ToLower(raw.Message)

	switch {
	case paymentCodes[raw.Code] || paymentCodes[raw.Subcode] ||
		containsAny(message, "payment", "billing"):
		return StructuredError{
			Kind:          KindPaymentRequired,
			UserMessage:   "Your ad account has no valid payment method.",
			Remediation:   "Add a payment method in the ad platform billing settings, then retry the launch.",
			HelpReference: "https://www.facebook.com/business/help/132073386867900",
			Retryable:     true,
		}
	case disabledCodes[raw.Code] || disabledCodes[raw.Subcode] ||
		containsAny(message, "disabled", "restricted"):
		return StructuredError{
			Kind:          KindAccountDisabled,
			UserMessage:   "Your ad account is disabled or restricted.",
			Remediation:   "Request a review of the account in the platform's account quality center before launching again.",
			HelpReference: "https://www.facebook.com/accountquality",
			Retryable:     false,
		}
	case rateLimitCodes[raw.Code] ||
		containsAny(message, "rate limit", "too many calls"):
		return StructuredError{
			Kind:        KindRateLimit,
			UserMessage: "The ad platform is throttling requests for this account.",
			Remediation: "Wait a few minutes and retry the launch.",
			Retryable:   true,
		}
	case disapprovalCode[raw.Code] || disapprovalCode[raw.Subcode] ||
		containsAny(message, "disapproved", "violates", "policy"):
		return StructuredError{
			Kind:          KindAdDisapproved,
			UserMessage:   "The ad content was rejected by the platform's content policy.",
			Remediation:   "Edit the ad copy, image or targeting and retry the launch.",
			HelpReference: "https://www.facebook.com/policies/ads",
			Retryable:     true,
		}
	case permissionCodes[raw.Code] ||
		containsAny(message, "permission", "access token", "oauth"):
		return StructuredError{
			Kind:        KindPermissionDenied,
			UserMessage: "The stored platform credential is no longer authorized.",
			Remediation: "Re-connect the ad account to refresh authorization, then retry the launch.",
			Retryable:   true,
		}
	default:
		return StructuredError{
			Kind:        KindGeneric,
			UserMessage: raw.Message,
			Retryable:   false,
		}
	}
}

func containsAny(message string, needles ...string) bool {
	for _, needle := range needles {
		if strings.Contains(message, needle) {
			return true
		}
	}
	return false
}
