package entities

import (
	"strings"
	"time"
)

type TaskState string
type ConversionMethod string
type CreativeSlot string

const (
	TaskStatePending       TaskState = "pending"
	TaskStateGatheringInfo TaskState = "gathering_info"
	TaskStateGenerating    TaskState = "generating"
	TaskStateReview        TaskState = "review"
	TaskStateCreating      TaskState = "creating"
	TaskStateCompleted     TaskState = "completed"
	TaskStateFailed        TaskState = "failed"

	ConversionLeadForm ConversionMethod = "lead_form"
	ConversionWebsite  ConversionMethod = "website"

	SlotHeadline    CreativeSlot = "headline"
	SlotPrimaryText CreativeSlot = "primary_text"
	SlotDescription CreativeSlot = "description"
)

// Per-slot copy limits enforced by the ad platform.
const (
	HeadlineMaxLen    = 40
	PrimaryTextMaxLen = 125
	DescriptionMaxLen = 30

	ellipsis = "..."
)

// BusinessProfile is the snapshot captured at scan time and consumed by
// strategy generation. Source records how the data arrived.
type BusinessProfile struct {
	BrandName   string
	Description string
	Products    []string
	USPs        []string
	Website     string
	Source      string // "scan" or "manual"
}

func (p BusinessProfile) IsEmpty() bool {
	return strings.TrimSpace(p.BrandName) == "" && strings.TrimSpace(p.Description) == ""
}

type CreativeVariant struct {
	VariantID string
	Slot      CreativeSlot
	Content   string
	Selected  bool
}

// ExternalIDs are the platform object identifiers produced during launch.
// Once a field is set it is never cleared.
type ExternalIDs struct {
	CampaignID string
	AdSetID    string
	CreativeID string
	AdID       string
	LeadFormID string
}

// CampaignTask drives one campaign-creation attempt through the wizard
// state machine. Mutated only by the application layer.
type CampaignTask struct {
	TaskID           string
	UserID           string
	State            TaskState
	ConversionMethod ConversionMethod
	Profile          BusinessProfile
	Strategy         *Strategy
	Creatives        []CreativeVariant
	External         ExternalIDs
	LastError        string
	CreatedAt        time.Time
	UpdatedAt        time.Time
	CompletedAt      *time.Time
}

func (t CampaignTask) IsTerminal() bool {
	return t.State == TaskStateCompleted || t.State == TaskStateFailed
}

// CanTransition reports whether the state machine allows moving to the
// target state. Forward-only, except failed is reachable from any
// non-terminal state.
func (t CampaignTask) CanTransition(to TaskState) bool {
	if t.IsTerminal() {
		return false
	}
	if to == TaskStateFailed {
		return true
	}
	switch t.State {
	case TaskStateGatheringInfo:
		return to == TaskStatePending
	case TaskStatePending:
		return to == TaskStateGenerating
	case TaskStateGenerating:
		return to == TaskStateReview
	case TaskStateReview:
		return to == TaskStateCreating
	case TaskStateCreating:
		return to == TaskStateCompleted
	default:
		return false
	}
}

// SelectedContent returns the content of the single selected variant for
// the slot, or "" when nothing is selected.
func (t CampaignTask) SelectedContent(slot CreativeSlot) string {
	for _, variant := range t.Creatives {
		if variant.Slot == slot && variant.Selected {
			return variant.Content
		}
	}
	return ""
}

func SlotMaxLen(slot CreativeSlot) int {
	switch slot {
	case SlotHeadline:
		return HeadlineMaxLen
	case SlotPrimaryText:
		return PrimaryTextMaxLen
	case SlotDescription:
		return DescriptionMaxLen
	default:
		return PrimaryTextMaxLen
	}
}

// TruncateForSlot trims overlong copy to the slot limit, replacing the tail
// with an ellipsis marker. Values within the limit pass through untouched.
func TruncateForSlot(slot CreativeSlot, content string) string {
	limit := SlotMaxLen(slot)
	runes := []rune(content)
	if len(runes) <= limit {
		return content
	}
	return string(runes[:limit-len(ellipsis)]) + ellipsis
}

func IsSupportedConversionMethod(value ConversionMethod) bool {
	switch value {
	case ConversionLeadForm, ConversionWebsite:
		return true
	default:
		return false
	}
}

func IsSupportedSlot(value CreativeSlot) bool {
	switch value {
	case SlotHeadline, SlotPrimaryText, SlotDescription:
		return true
	default:
		return false
	}
}
