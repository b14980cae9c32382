package memory

import (
	"context"
	"fmt"
	"sync"

	"adpilot/contexts/campaign-automation/campaign-wizard/domain/adplatform"
	"adpilot/contexts/campaign-automation/campaign-wizard/domain/entities"
	"adpilot/contexts/campaign-automation/campaign-wizard/ports"
)

// FakeAdPlatform is the in-memory stand-in for the external ad platform.
// Set FailStep plus FailWith to make a single pipeline step return a raw
// platform error.
type FakeAdPlatform struct {
	mu       sync.Mutex
	sequence int

	FailStep string
	FailWith adplatform.RawError

	// Interests returned by SearchInterests; nil means empty result.
	Interests []entities.Interest

	CreatedCampaigns int
	CreatedLeadForms int
	LastCreative     ports.CreateCreativeInput
	LastAdSet        ports.CreateAdSetInput
}

func (f *FakeAdPlatform) nextID(prefix string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sequence++
	return fmt.Sprintf("%s-%06d", prefix, f.sequence)
}

func (f *FakeAdPlatform) failsAt(step string) error {
	if f.FailStep == step {
		return f.FailWith
	}
	return nil
}

func (f *FakeAdPlatform) UploadImage(_ context.Context, _ entities.AdCredential, _ ports.ImageSource) (string, error) {
	if err := f.failsAt("upload_image"); err != nil {
		return "", err
	}
	return f.nextID("img"), nil
}

func (f *FakeAdPlatform) CreateCampaign(_ context.Context, _ entities.AdCredential, _, _, _ string) (string, error) {
	if err := f.failsAt("create_campaign"); err != nil {
		return "", err
	}
	f.mu.Lock()
	f.CreatedCampaigns++
	f.mu.Unlock()
	return f.nextID("cmp"), nil
}

func (f *FakeAdPlatform) CreateAdSet(_ context.Context, _ entities.AdCredential, input ports.CreateAdSetInput) (string, error) {
	if err := f.failsAt("create_ad_set"); err != nil {
		return "", err
	}
	f.mu.Lock()
	f.LastAdSet = input
	f.mu.Unlock()
	return f.nextID("adset"), nil
}

func (f *FakeAdPlatform) CreateCreative(_ context.Context, _ entities.AdCredential, input ports.CreateCreativeInput) (string, error) {
	if err := f.failsAt("create_creative"); err != nil {
		return "", err
	}
	if input.LinkURL != "" && input.LeadFormID != "" {
		return "", adplatform.RawError{Code: 100, Message: "creative cannot carry both destinations"}
	}
	f.mu.Lock()
	f.LastCreative = input
	f.mu.Unlock()
	return f.nextID("cr"), nil
}

func (f *FakeAdPlatform) CreateLeadForm(_ context.Context, _ entities.AdCredential, _ ports.LeadFormInput) (string, error) {
	if err := f.failsAt("create_lead_form"); err != nil {
		return "", err
	}
	f.mu.Lock()
	f.CreatedLeadForms++
	f.mu.Unlock()
	return f.nextID("form"), nil
}

func (f *FakeAdPlatform) CreateAd(_ context.Context, _ entities.AdCredential, _, _, _, _ string) (string, error) {
	if err := f.failsAt("create_ad"); err != nil {
		return "", err
	}
	return f.nextID("ad"), nil
}

func (f *FakeAdPlatform) SearchInterests(_ context.Context, _ entities.AdCredential, _ []string, _ int) ([]entities.Interest, error) {
	if err := f.failsAt("search_interests"); err != nil {
		return nil, err
	}
	return append([]entities.Interest(nil), f.Interests...), nil
}

func (f *FakeAdPlatform) VerifyCredential(_ context.Context, _ entities.AdCredential) (bool, error) {
	if err := f.failsAt("verify_credential"); err != nil {
		return false, err
	}
	return true, nil
}

// ScriptedGenerator returns a fixed, well-shaped strategy derived from the
// profile. Err forces the generation stage to fail.
type ScriptedGenerator struct {
	Err error
}

func (g ScriptedGenerator) Generate(_ context.Context, input ports.GenerateStrategyInput) (entities.Strategy, error) {
	if g.Err != nil {
		return entities.Strategy{}, g.Err
	}
	brand := input.Profile.BrandName
	if brand == "" {
		brand = "Your business"
	}
	budget := input.DailyBudgetHint
	if budget <= 0 {
		budget = 500
	}
	objective := input.ObjectiveHint
	if objective == "" {
		if input.ConversionMethod == entities.ConversionLeadForm {
			objective = "OUTCOME_LEADS"
		} else {
			objective = "OUTCOME_TRAFFIC"
		}
	}
	return entities.Strategy{
		Objective: objective,
		Budget:    entities.Budget{DailyAmount: budget, Currency: "INR"},
		Targeting: entities.Targeting{
			AgeMin:           22,
			AgeMax:           55,
			InterestKeywords: []string{"coffee", "small business"},
			Location:         "IN",
		},
		AdCopy: entities.AdCopy{
			Headlines: []string{
				brand + " is here",
				"Discover " + brand,
				"Meet " + brand,
			},
			PrimaryTexts: []string{
				"Quality you can taste, service you can trust. Order today.",
				"Join hundreds of happy customers who already made the switch.",
				"Handcrafted with care, delivered to your door.",
			},
			Descriptions: []string{
				"Order now",
				"Limited offer",
				"Free delivery",
			},
			CTA: "LEARN_MORE",
		},
	}, nil
}

// StaticScanner serves canned profiles in tests; Err simulates an
// unreachable analysis dependency.
type StaticScanner struct {
	Profile entities.BusinessProfile
	Err     error
}

func (s StaticScanner) Scan(_ context.Context, siteURL string) (entities.BusinessProfile, error) {
	if s.Err != nil {
		return entities.BusinessProfile{}, s.Err
	}
	profile := s.Profile
	if profile.Website == "" {
		profile.Website = siteURL
	}
	if profile.Source == "" {
		profile.Source = "scan"
	}
	return profile, nil
}
