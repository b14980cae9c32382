package commands_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"adpilot/contexts/campaign-automation/campaign-wizard/adapters/memory"
	"adpilot/contexts/campaign-automation/campaign-wizard/application/commands"
	"adpilot/contexts/campaign-automation/campaign-wizard/domain/adplatform"
	"adpilot/contexts/campaign-automation/campaign-wizard/domain/entities"
	domainerrors "adpilot/contexts/campaign-automation/campaign-wizard/domain/errors"
	"adpilot/contexts/campaign-automation/campaign-wizard/ports"
)

func reviewTask(method entities.ConversionMethod) entities.CampaignTask {
	now := time.Now().UTC()
	strategy := entities.Strategy{
		Objective: "OUTCOME_LEADS",
		Budget:    entities.Budget{DailyAmount: 500, Currency: "INR"},
		Targeting: entities.Targeting{AgeMin: 22, AgeMax: 55, InterestKeywords: []string{"coffee"}},
		AdCopy: entities.AdCopy{
			Headlines:    []string{"Best coffee in town"},
			PrimaryTexts: []string{"Order fresh roasted beans today."},
			Descriptions: []string{"Order now"},
		},
	}
	return entities.CampaignTask{
		TaskID:           "task-1",
		UserID:           "user-1",
		State:            entities.TaskStateReview,
		ConversionMethod: method,
		Profile: entities.BusinessProfile{
			BrandName:   "Brew Haven",
			Description: "Artisan coffee roasters in Pune.",
			Website:     "https://brewhaven.example.com",
			Source:      "scan",
		},
		Strategy: &strategy,
		Creatives: []entities.CreativeVariant{
			{VariantID: "v1", Slot: entities.SlotHeadline, Content: "Best coffee in town", Selected: true},
			{VariantID: "v2", Slot: entities.SlotPrimaryText, Content: "Order fresh roasted beans today.", Selected: true},
			{VariantID: "v3", Slot: entities.SlotDescription, Content: "Order now", Selected: true},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func launchFixture(t *testing.T, method entities.ConversionMethod) (commands.LaunchCampaignUseCase, *memory.Store, *memory.FakeAdPlatform) {
	t.Helper()
	store := memory.NewStore([]entities.CampaignTask{reviewTask(method)})
	if err := store.PutCredential(context.Background(), entities.AdCredential{
		UserID:         "user-1",
		AccessTokenEnc: "aa:bb",
		AdAccountID:    "act-1",
		PageID:         "page-1",
	}); err != nil {
		t.Fatalf("seed credential: %v", err)
	}
	platform := &memory.FakeAdPlatform{}
	uc := commands.LaunchCampaignUseCase{
		Tasks:             store,
		Credentials:       store,
		Platform:          platform,
		Outbox:            store,
		Clock:             store,
		IDGen:             store,
		FallbackLinkURL:   "https://adpilot.example.com",
		HostedPrivacyBase: "https://adpilot.example.com",
	}
	return uc, store, platform
}

func launchCommand() commands.LaunchCampaignCommand {
	return commands.LaunchCampaignCommand{
		TaskID: "task-1",
		UserID: "user-1",
		Image:  ports.ImageSource{FileName: "ad.png", Data: []byte{1, 2, 3}},
	}
}

func TestLaunchLeadFormCompletesWithAllIDs(t *testing.T) {
	uc, store, platform := launchFixture(t, entities.ConversionLeadForm)

	result, err := uc.Execute(context.Background(), launchCommand())
	if err != nil {
		t.Fatalf("launch failed: %v", err)
	}
	if result.AlreadyLaunched {
		t.Fatal("unexpected replay on first launch")
	}
	if result.CampaignID == "" || result.AdSetID == "" || result.CreativeID == "" || result.AdID == "" || result.LeadFormID == "" {
		t.Fatalf("expected all platform ids, got %+v", result)
	}
	if platform.CreatedLeadForms != 1 {
		t.Fatalf("expected one lead form, got %d", platform.CreatedLeadForms)
	}
	if platform.LastCreative.LeadFormID != result.LeadFormID || platform.LastCreative.LinkURL != "" {
		t.Fatalf("creative should carry only the lead form destination, got %+v", platform.LastCreative)
	}

	task, err := store.GetTask(context.Background(), "task-1")
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	if task.State != entities.TaskStateCompleted {
		t.Fatalf("expected completed state, got %s", task.State)
	}
	if task.CompletedAt == nil {
		t.Fatal("expected completed timestamp")
	}

	pending, err := store.ListPendingOutbox(context.Background(), 10)
	if err != nil {
		t.Fatalf("list outbox: %v", err)
	}
	if len(pending) != 1 || pending[0].EventType != "wizard.campaign_launched" {
		t.Fatalf("expected one launched event in outbox, got %+v", pending)
	}
}

func TestLaunchWebsiteUsesBusinessLink(t *testing.T) {
	uc, _, platform := launchFixture(t, entities.ConversionWebsite)

	result, err := uc.Execute(context.Background(), launchCommand())
	if err != nil {
		t.Fatalf("launch failed: %v", err)
	}
	if result.LeadFormID != "" {
		t.Fatalf("website launch must not create a lead form, got %q", result.LeadFormID)
	}
	if platform.LastCreative.LinkURL != "https://brewhaven.example.com" {
		t.Fatalf("expected business website link, got %q", platform.LastCreative.LinkURL)
	}
}

func TestLaunchWebsiteFallsBackWithoutValidURL(t *testing.T) {
	uc, store, platform := launchFixture(t, entities.ConversionWebsite)
	task, _ := store.GetTask(context.Background(), "task-1")
	task.Profile.Website = "not a url"
	if err := store.UpdateTask(context.Background(), task); err != nil {
		t.Fatalf("update task: %v", err)
	}

	if _, err := uc.Execute(context.Background(), launchCommand()); err != nil {
		t.Fatalf("launch failed: %v", err)
	}
	if platform.LastCreative.LinkURL != "https://adpilot.example.com" {
		t.Fatalf("expected fallback link, got %q", platform.LastCreative.LinkURL)
	}
}

func TestLaunchReplayReturnsRecordedIDs(t *testing.T) {
	uc, _, platform := launchFixture(t, entities.ConversionLeadForm)

	first, err := uc.Execute(context.Background(), launchCommand())
	if err != nil {
		t.Fatalf("first launch failed: %v", err)
	}
	second, err := uc.Execute(context.Background(), launchCommand())
	if err != nil {
		t.Fatalf("replay failed: %v", err)
	}
	if !second.AlreadyLaunched {
		t.Fatal("expected replay flag on second launch")
	}
	if second.CampaignID != first.CampaignID || second.AdID != first.AdID {
		t.Fatalf("replay must return the recorded ids, got %+v vs %+v", second, first)
	}
	if platform.CreatedCampaigns != 1 {
		t.Fatalf("expected exactly one platform campaign, got %d", platform.CreatedCampaigns)
	}
}

func TestLaunchFailureClassifiesAndKeepsEarlierIDs(t *testing.T) {
	uc, store, platform := launchFixture(t, entities.ConversionLeadForm)
	platform.FailStep = "create_ad_set"
	platform.FailWith = adplatform.RawError{Code: 2446079, Message: "billing issue"}

	_, err := uc.Execute(context.Background(), launchCommand())
	var structured adplatform.StructuredError
	if !errors.As(err, &structured) {
		t.Fatalf("expected structured error, got %v", err)
	}
	if structured.Kind != adplatform.KindPaymentRequired {
		t.Fatalf("expected payment kind, got %s", structured.Kind)
	}

	task, _ := store.GetTask(context.Background(), "task-1")
	if task.State != entities.TaskStateFailed {
		t.Fatalf("expected failed state, got %s", task.State)
	}
	if task.LastError != structured.Rendered() {
		t.Fatalf("expected rendered error persisted, got %q", task.LastError)
	}
	// Ids created before the failure stay on the record.
	if task.External.CampaignID == "" {
		t.Fatal("expected campaign id preserved after failure")
	}
	if task.External.AdSetID != "" {
		t.Fatal("ad set id must not be set for the failed step")
	}
}

func TestLaunchInterestSearchFailureIsNotFatal(t *testing.T) {
	uc, _, platform := launchFixture(t, entities.ConversionLeadForm)
	platform.FailStep = "search_interests"
	platform.FailWith = adplatform.RawError{Code: 4, Message: "rate limit"}

	result, err := uc.Execute(context.Background(), launchCommand())
	if err != nil {
		t.Fatalf("launch should survive interest search failure: %v", err)
	}
	if result.CampaignID == "" || result.AdID == "" {
		t.Fatalf("expected completed launch, got %+v", result)
	}
	if len(platform.LastAdSet.Targeting.Interests) != 0 {
		t.Fatalf("expected broad targeting, got %+v", platform.LastAdSet.Targeting.Interests)
	}
}

func TestLaunchPreconditions(t *testing.T) {
	t.Run("missing strategy", func(t *testing.T) {
		uc, store, _ := launchFixture(t, entities.ConversionLeadForm)
		task, _ := store.GetTask(context.Background(), "task-1")
		task.Strategy = nil
		_ = store.UpdateTask(context.Background(), task)

		_, err := uc.Execute(context.Background(), launchCommand())
		if !errors.Is(err, domainerrors.ErrMissingStrategy) {
			t.Fatalf("expected missing strategy error, got %v", err)
		}
	})

	t.Run("missing image", func(t *testing.T) {
		uc, _, _ := launchFixture(t, entities.ConversionLeadForm)
		cmd := launchCommand()
		cmd.Image = ports.ImageSource{}
		_, err := uc.Execute(context.Background(), cmd)
		if !errors.Is(err, domainerrors.ErrMissingCreativeImage) {
			t.Fatalf("expected missing image error, got %v", err)
		}
	})

	t.Run("wrong owner", func(t *testing.T) {
		uc, _, _ := launchFixture(t, entities.ConversionLeadForm)
		cmd := launchCommand()
		cmd.UserID = "somebody-else"
		_, err := uc.Execute(context.Background(), cmd)
		if !errors.Is(err, domainerrors.ErrTaskOwnershipMismatch) {
			t.Fatalf("expected ownership error, got %v", err)
		}
	})

	t.Run("missing credential", func(t *testing.T) {
		store := memory.NewStore([]entities.CampaignTask{reviewTask(entities.ConversionLeadForm)})
		uc := commands.LaunchCampaignUseCase{
			Tasks:       store,
			Credentials: store,
			Platform:    &memory.FakeAdPlatform{},
			Clock:       store,
			IDGen:       store,
		}
		_, err := uc.Execute(context.Background(), launchCommand())
		if !errors.Is(err, domainerrors.ErrCredentialNotFound) {
			t.Fatalf("expected credential error, got %v", err)
		}
	})
}
