package entities

import (
	"strings"
	"testing"
)

func validStrategy() Strategy {
	return Strategy{
		Objective: "OUTCOME_LEADS",
		Budget:    Budget{DailyAmount: 500, Currency: "INR"},
		Targeting: Targeting{AgeMin: 22, AgeMax: 55},
		AdCopy: AdCopy{
			Headlines:    []string{"Headline"},
			PrimaryTexts: []string{"Primary text"},
			Descriptions: []string{"Description"},
		},
	}
}

func TestValidateShape(t *testing.T) {
	if !validStrategy().ValidateShape() {
		t.Fatal("expected valid strategy to pass shape validation")
	}

	mutations := map[string]func(*Strategy){
		"empty objective":   func(s *Strategy) { s.Objective = " " },
		"zero budget":       func(s *Strategy) { s.Budget.DailyAmount = 0 },
		"age below minimum": func(s *Strategy) { s.Targeting.AgeMin = 12 },
		"inverted ages":     func(s *Strategy) { s.Targeting.AgeMin = 40; s.Targeting.AgeMax = 30 },
		"no headlines":      func(s *Strategy) { s.AdCopy.Headlines = nil },
		"no primary texts":  func(s *Strategy) { s.AdCopy.PrimaryTexts = nil },
		"no descriptions":   func(s *Strategy) { s.AdCopy.Descriptions = nil },
	}
	for name, mutate := range mutations {
		s := validStrategy()
		mutate(&s)
		if s.ValidateShape() {
			t.Errorf("%s: expected shape validation to fail", name)
		}
	}
}

func TestNormalizeCopyTruncatesEverySlot(t *testing.T) {
	s := validStrategy()
	s.AdCopy.Headlines = []string{strings.Repeat("h", 80)}
	s.AdCopy.PrimaryTexts = []string{strings.Repeat("p", 200)}
	s.AdCopy.Descriptions = []string{strings.Repeat("d", 50)}

	out := s.NormalizeCopy()
	if n := len([]rune(out.AdCopy.Headlines[0])); n != HeadlineMaxLen {
		t.Errorf("headline: expected %d runes, got %d", HeadlineMaxLen, n)
	}
	if n := len([]rune(out.AdCopy.PrimaryTexts[0])); n != PrimaryTextMaxLen {
		t.Errorf("primary text: expected %d runes, got %d", PrimaryTextMaxLen, n)
	}
	if n := len([]rune(out.AdCopy.Descriptions[0])); n != DescriptionMaxLen {
		t.Errorf("description: expected %d runes, got %d", DescriptionMaxLen, n)
	}
	// Original must stay untouched.
	if len(s.AdCopy.Headlines[0]) != 80 {
		t.Fatal("NormalizeCopy mutated its receiver")
	}
}
