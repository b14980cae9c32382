package commands_test

import (
	"context"
	"errors"
	"testing"

	"adpilot/contexts/campaign-automation/campaign-wizard/adapters/memory"
	"adpilot/contexts/campaign-automation/campaign-wizard/application/commands"
	"adpilot/contexts/campaign-automation/campaign-wizard/domain/entities"
	domainerrors "adpilot/contexts/campaign-automation/campaign-wizard/domain/errors"
)

func scanUseCase(store *memory.Store, scanner memory.StaticScanner) commands.StartScanUseCase {
	return commands.StartScanUseCase{
		Tasks:   store,
		Scanner: scanner,
		Clock:   store,
		IDGen:   store,
	}
}

func TestStartScanCreatesPendingTaskFromWebsite(t *testing.T) {
	store := memory.NewStore(nil)
	uc := scanUseCase(store, memory.StaticScanner{
		Profile: entities.BusinessProfile{
			BrandName:   "Brew Haven",
			Description: "Artisan coffee roasters in Pune.",
		},
	})

	result, err := uc.Execute(context.Background(), commands.StartScanCommand{
		UserID: "user-1",
		URL:    "https://brewhaven.example.com",
	})
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	if result.NeedsManualInput {
		t.Fatal("unexpected manual input request")
	}
	if result.Task.State != entities.TaskStatePending {
		t.Fatalf("expected pending state, got %s", result.Task.State)
	}
	if result.Task.Profile.Source != "scan" {
		t.Fatalf("expected scan source, got %q", result.Task.Profile.Source)
	}
	if result.Task.Profile.Website != "https://brewhaven.example.com" {
		t.Fatalf("expected scanned website on profile, got %q", result.Task.Profile.Website)
	}
}

func TestStartScanFailureParksTaskForManualInput(t *testing.T) {
	store := memory.NewStore(nil)
	uc := scanUseCase(store, memory.StaticScanner{Err: errors.New("site unreachable")})

	result, err := uc.Execute(context.Background(), commands.StartScanCommand{
		UserID: "user-1",
		URL:    "https://unreachable.example.com",
	})
	if err != nil {
		t.Fatalf("scan failure must not surface as an error: %v", err)
	}
	if !result.NeedsManualInput {
		t.Fatal("expected manual input request")
	}
	if result.Task.State != entities.TaskStateGatheringInfo {
		t.Fatalf("expected gathering_info state, got %s", result.Task.State)
	}

	persisted, err := store.GetTask(context.Background(), result.Task.TaskID)
	if err != nil {
		t.Fatalf("parked task must be persisted: %v", err)
	}
	if persisted.State != entities.TaskStateGatheringInfo {
		t.Fatalf("expected persisted gathering_info state, got %s", persisted.State)
	}
}

func TestStartScanManualTextSkipsScanner(t *testing.T) {
	store := memory.NewStore(nil)
	// A scanner that always fails proves manual text never reaches it.
	uc := scanUseCase(store, memory.StaticScanner{Err: errors.New("should not be called")})

	result, err := uc.Execute(context.Background(), commands.StartScanCommand{
		UserID:     "user-1",
		ManualText: "We sell artisan coffee in Pune with same-day delivery.",
	})
	if err != nil {
		t.Fatalf("manual path failed: %v", err)
	}
	if result.Task.State != entities.TaskStatePending {
		t.Fatalf("expected pending state, got %s", result.Task.State)
	}
	if result.Task.Profile.Source != "manual" {
		t.Fatalf("expected manual source, got %q", result.Task.Profile.Source)
	}
	if result.Task.Profile.BrandName != "We sell artisan coffee" {
		t.Fatalf("unexpected derived brand name %q", result.Task.Profile.BrandName)
	}
}

func TestStartScanConvergesParkedTask(t *testing.T) {
	store := memory.NewStore(nil)
	uc := scanUseCase(store, memory.StaticScanner{Err: errors.New("site unreachable")})

	parked, err := uc.Execute(context.Background(), commands.StartScanCommand{
		UserID: "user-1",
		URL:    "https://unreachable.example.com",
	})
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}

	converged, err := uc.Execute(context.Background(), commands.StartScanCommand{
		UserID:     "user-1",
		TaskID:     parked.Task.TaskID,
		ManualText: "Family-run bakery in Mumbai specializing in sourdough.",
	})
	if err != nil {
		t.Fatalf("converge failed: %v", err)
	}
	if converged.Task.State != entities.TaskStatePending {
		t.Fatalf("expected pending after manual input, got %s", converged.Task.State)
	}
	if converged.Task.Profile.Source != "manual" {
		t.Fatalf("expected manual source, got %q", converged.Task.Profile.Source)
	}
	if converged.Task.TaskID != parked.Task.TaskID {
		t.Fatal("converge must reuse the parked task")
	}
}

func TestStartScanInputValidation(t *testing.T) {
	store := memory.NewStore(nil)
	uc := scanUseCase(store, memory.StaticScanner{})

	cases := []commands.StartScanCommand{
		{UserID: "", URL: "https://example.com"},
		{UserID: "user-1"}, // neither URL nor manual text
	}
	for _, cmd := range cases {
		if _, err := uc.Execute(context.Background(), cmd); !errors.Is(err, domainerrors.ErrInvalidTaskInput) {
			t.Errorf("command %+v: expected invalid input error, got %v", cmd, err)
		}
	}
}
