package commands_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"adpilot/contexts/campaign-automation/campaign-wizard/adapters/memory"
	"adpilot/contexts/campaign-automation/campaign-wizard/application/commands"
	"adpilot/contexts/campaign-automation/campaign-wizard/domain/entities"
	domainerrors "adpilot/contexts/campaign-automation/campaign-wizard/domain/errors"
	"adpilot/contexts/campaign-automation/campaign-wizard/ports"
)

type generatorFunc func(ctx context.Context, input ports.GenerateStrategyInput) (entities.Strategy, error)

func (f generatorFunc) Generate(ctx context.Context, input ports.GenerateStrategyInput) (entities.Strategy, error) {
	return f(ctx, input)
}

func pendingTask() entities.CampaignTask {
	now := time.Now().UTC()
	return entities.CampaignTask{
		TaskID: "task-1",
		UserID: "user-1",
		State:  entities.TaskStatePending,
		Profile: entities.BusinessProfile{
			BrandName:   "Brew Haven",
			Description: "Artisan coffee roasters in Pune.",
			Source:      "manual",
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func generateCommand() commands.GenerateStrategyCommand {
	return commands.GenerateStrategyCommand{
		TaskID:           "task-1",
		UserID:           "user-1",
		UserGoal:         "more leads for my coffee shop",
		ConversionMethod: string(entities.ConversionLeadForm),
	}
}

func TestGenerateStrategyMovesTaskToReview(t *testing.T) {
	store := memory.NewStore([]entities.CampaignTask{pendingTask()})
	uc := commands.GenerateStrategyUseCase{
		Tasks:     store,
		Generator: memory.ScriptedGenerator{},
		Clock:     store,
		IDGen:     store,
	}

	result, err := uc.Execute(context.Background(), generateCommand())
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if result.Task.State != entities.TaskStateReview {
		t.Fatalf("expected review state, got %s", result.Task.State)
	}
	if result.Task.ConversionMethod != entities.ConversionLeadForm {
		t.Fatalf("expected conversion method pinned, got %s", result.Task.ConversionMethod)
	}
	if result.Task.Strategy == nil || result.Task.Strategy.Objective != "OUTCOME_LEADS" {
		t.Fatalf("expected leads objective, got %+v", result.Task.Strategy)
	}
	if len(result.Task.Creatives) != 9 {
		t.Fatalf("expected 9 creative variants, got %d", len(result.Task.Creatives))
	}

	// Exactly the first variant of every slot starts selected.
	selectedPerSlot := map[entities.CreativeSlot]int{}
	for _, variant := range result.Task.Creatives {
		if variant.Selected {
			selectedPerSlot[variant.Slot]++
		}
	}
	for _, slot := range []entities.CreativeSlot{entities.SlotHeadline, entities.SlotPrimaryText, entities.SlotDescription} {
		if selectedPerSlot[slot] != 1 {
			t.Errorf("slot %s: expected one selected variant, got %d", slot, selectedPerSlot[slot])
		}
	}
}

func TestGenerateStrategyTruncatesOverlongCopy(t *testing.T) {
	store := memory.NewStore([]entities.CampaignTask{pendingTask()})
	long := strings.Repeat("x", 200)
	uc := commands.GenerateStrategyUseCase{
		Tasks: store,
		Generator: generatorFunc(func(_ context.Context, _ ports.GenerateStrategyInput) (entities.Strategy, error) {
			return entities.Strategy{
				Objective: "OUTCOME_LEADS",
				Budget:    entities.Budget{DailyAmount: 300, Currency: "INR"},
				Targeting: entities.Targeting{AgeMin: 20, AgeMax: 50},
				AdCopy: entities.AdCopy{
					Headlines:    []string{long},
					PrimaryTexts: []string{long},
					Descriptions: []string{long},
				},
			}, nil
		}),
		Clock: store,
		IDGen: store,
	}

	result, err := uc.Execute(context.Background(), generateCommand())
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	for _, variant := range result.Task.Creatives {
		limit := entities.SlotMaxLen(variant.Slot)
		if got := len([]rune(variant.Content)); got > limit {
			t.Errorf("slot %s: content length %d exceeds limit %d", variant.Slot, got, limit)
		}
		if !strings.HasSuffix(variant.Content, "...") {
			t.Errorf("slot %s: expected truncation marker, got %q", variant.Slot, variant.Content)
		}
	}
}

func TestGenerateStrategyFailureMarksTaskFailed(t *testing.T) {
	store := memory.NewStore([]entities.CampaignTask{pendingTask()})
	uc := commands.GenerateStrategyUseCase{
		Tasks:     store,
		Generator: memory.ScriptedGenerator{Err: errors.New("model unavailable")},
		Clock:     store,
		IDGen:     store,
	}

	_, err := uc.Execute(context.Background(), generateCommand())
	if !errors.Is(err, domainerrors.ErrStrategyGeneration) {
		t.Fatalf("expected strategy generation error, got %v", err)
	}
	task, _ := store.GetTask(context.Background(), "task-1")
	if task.State != entities.TaskStateFailed {
		t.Fatalf("expected failed state, got %s", task.State)
	}
	if task.LastError == "" {
		t.Fatal("expected failure reason recorded on the task")
	}
}

func TestGenerateStrategyMalformedOutputFailsTask(t *testing.T) {
	store := memory.NewStore([]entities.CampaignTask{pendingTask()})
	uc := commands.GenerateStrategyUseCase{
		Tasks: store,
		Generator: generatorFunc(func(_ context.Context, _ ports.GenerateStrategyInput) (entities.Strategy, error) {
			return entities.Strategy{Objective: "OUTCOME_LEADS"}, nil // missing budget and copy
		}),
		Clock: store,
		IDGen: store,
	}

	_, err := uc.Execute(context.Background(), generateCommand())
	if !errors.Is(err, domainerrors.ErrStrategyGeneration) {
		t.Fatalf("expected strategy generation error, got %v", err)
	}
}

func TestGenerateStrategyGuards(t *testing.T) {
	t.Run("unsupported conversion method", func(t *testing.T) {
		store := memory.NewStore([]entities.CampaignTask{pendingTask()})
		uc := commands.GenerateStrategyUseCase{Tasks: store, Generator: memory.ScriptedGenerator{}, Clock: store, IDGen: store}
		cmd := generateCommand()
		cmd.ConversionMethod = "phone_call"
		_, err := uc.Execute(context.Background(), cmd)
		if !errors.Is(err, domainerrors.ErrInvalidTaskInput) {
			t.Fatalf("expected invalid input error, got %v", err)
		}
	})

	t.Run("missing profile", func(t *testing.T) {
		task := pendingTask()
		task.Profile = entities.BusinessProfile{}
		store := memory.NewStore([]entities.CampaignTask{task})
		uc := commands.GenerateStrategyUseCase{Tasks: store, Generator: memory.ScriptedGenerator{}, Clock: store, IDGen: store}
		_, err := uc.Execute(context.Background(), generateCommand())
		if !errors.Is(err, domainerrors.ErrMissingBusinessProfile) {
			t.Fatalf("expected missing profile error, got %v", err)
		}
	})

	t.Run("wrong state", func(t *testing.T) {
		task := pendingTask()
		task.State = entities.TaskStateCompleted
		store := memory.NewStore([]entities.CampaignTask{task})
		uc := commands.GenerateStrategyUseCase{Tasks: store, Generator: memory.ScriptedGenerator{}, Clock: store, IDGen: store}
		_, err := uc.Execute(context.Background(), generateCommand())
		if !errors.Is(err, domainerrors.ErrInvalidStateTransition) {
			t.Fatalf("expected state transition error, got %v", err)
		}
	})
}
