package entities

import "strings"

// Strategy is the structured output of the external strategy generator.
// Immutable once stored on a task; consumed verbatim at launch.
type Strategy struct {
	Objective string
	Budget    Budget
	Targeting Targeting
	AdCopy    AdCopy
}

type Budget struct {
	DailyAmount float64
	Currency    string
}

type Targeting struct {
	AgeMin           int
	AgeMax           int
	InterestKeywords []string
	Location         string
}

type AdCopy struct {
	Headlines    []string
	PrimaryTexts []string
	Descriptions []string
	CTA          string
}

// ValidateShape checks only structural constraints on generator output.
// Semantic quality of the copy is the generator's problem.
func (s Strategy) ValidateShape() bool {
	return strings.TrimSpace(s.Objective) != "" &&
		s.Budget.DailyAmount > 0 &&
		s.Targeting.AgeMin >= 13 &&
		s.Targeting.AgeMax >= s.Targeting.AgeMin &&
		len(s.AdCopy.Headlines) > 0 &&
		len(s.AdCopy.PrimaryTexts) > 0 &&
		len(s.AdCopy.Descriptions) > 0
}

// NormalizeCopy truncates every variant to its slot limit. Called once when
// the strategy is persisted so downstream consumers never re-check lengths.
func (s Strategy) NormalizeCopy() Strategy {
	out := s
	out.AdCopy.Headlines = truncateAll(SlotHeadline, s.AdCopy.Headlines)
	out.AdCopy.PrimaryTexts = truncateAll(SlotPrimaryText, s.AdCopy.PrimaryTexts)
	out.AdCopy.Descriptions = truncateAll(SlotDescription, s.AdCopy.Descriptions)
	return out
}

func truncateAll(slot CreativeSlot, values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		out = append(out, TruncateForSlot(slot, value))
	}
	return out
}

type AdCredential struct {
	UserID         string
	AccessTokenEnc string // encrypted, never the plaintext token
	AdAccountID    string
	PageID         string
}

type Interest struct {
	ID   string
	Name string
}
