package commands

import (
	"context"
	"log/slog"
	"strings"

	application "adpilot/contexts/campaign-automation/campaign-wizard/application"
	"adpilot/contexts/campaign-automation/campaign-wizard/domain/entities"
	domainerrors "adpilot/contexts/campaign-automation/campaign-wizard/domain/errors"
	"adpilot/contexts/campaign-automation/campaign-wizard/ports"
)

type GenerateStrategyCommand struct {
	TaskID           string
	UserID           string
	UserGoal         string
	ConversionMethod string
	ObjectiveHint    string
	DailyBudgetHint  float64
}

type GenerateStrategyUseCase struct {
	Tasks     ports.TaskRepository
	Generator ports.StrategyGenerator
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Logger    *slog.Logger
}

type GenerateStrategyResult struct {
	Task entities.CampaignTask
}

func (uc GenerateStrategyUseCase) Execute(ctx context.Context, cmd GenerateStrategyCommand) (GenerateStrategyResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	task, err := uc.Tasks.GetTask(ctx, strings.TrimSpace(cmd.TaskID))
	if err != nil {
		return GenerateStrategyResult{}, err
	}
	if task.UserID != strings.TrimSpace(cmd.UserID) {
		return GenerateStrategyResult{}, domainerrors.ErrTaskOwnershipMismatch
	}
	if task.Profile.IsEmpty() {
		return GenerateStrategyResult{}, domainerrors.ErrMissingBusinessProfile
	}
	method := entities.ConversionMethod(strings.TrimSpace(cmd.ConversionMethod))
	if !entities.IsSupportedConversionMethod(method) {
		return GenerateStrategyResult{}, domainerrors.ErrInvalidTaskInput
	}
	if !task.CanTransition(entities.TaskStateGenerating) {
		return GenerateStrategyResult{}, domainerrors.ErrInvalidStateTransition
	}

	// The conversion method is fixed from this point on; launch branches
	// on it without re-asking the caller.
	now := uc.Clock.Now().UTC()
	task.State = entities.TaskStateGenerating
	task.ConversionMethod = method
	task.UpdatedAt = now
	if err := uc.Tasks.UpdateTask(ctx, task); err != nil {
		return GenerateStrategyResult{}, err
	}

	strategy, err := uc.Generator.Generate(ctx, ports.GenerateStrategyInput{
		Profile:          task.Profile,
		UserGoal:         strings.TrimSpace(cmd.UserGoal),
		ConversionMethod: method,
		ObjectiveHint:    strings.TrimSpace(cmd.ObjectiveHint),
		DailyBudgetHint:  cmd.DailyBudgetHint,
	})
	if err != nil {
		return GenerateStrategyResult{}, uc.failTask(ctx, task, "strategy generation failed: "+err.Error(), logger)
	}
	if !strategy.ValidateShape() {
		return GenerateStrategyResult{}, uc.failTask(ctx, task, "strategy generator returned a malformed strategy", logger)
	}

	strategy = strategy.NormalizeCopy()
	creatives, err := uc.buildCreatives(ctx, strategy)
	if err != nil {
		return GenerateStrategyResult{}, err
	}

	task.Strategy = &strategy
	task.Creatives = creatives
	task.State = entities.TaskStateReview
	task.UpdatedAt = uc.Clock.Now().UTC()
	if err := uc.Tasks.UpdateTask(ctx, task); err != nil {
		return GenerateStrategyResult{}, err
	}

	logger.Info("strategy generated",
		"event", "wizard_strategy_generated",
		"module", "campaign-automation/campaign-wizard",
		"layer", "application",
		"task_id", task.TaskID,
		"objective", strategy.Objective,
		"conversion_method", string(method),
	)
	return GenerateStrategyResult{Task: task}, nil
}

// buildCreatives turns generated copy into selectable variants, one slot at
// a time, auto-selecting the first variant of each slot.
func (uc GenerateStrategyUseCase) buildCreatives(ctx context.Context, strategy entities.Strategy) ([]entities.CreativeVariant, error) {
	type slotValues struct {
		slot   entities.CreativeSlot
		values []string
	}
	groups := []slotValues{
		{entities.SlotHeadline, strategy.AdCopy.Headlines},
		{entities.SlotPrimaryText, strategy.AdCopy.PrimaryTexts},
		{entities.SlotDescription, strategy.AdCopy.Descriptions},
	}

	creatives := make([]entities.CreativeVariant, 0, 9)
	for _, group := range groups {
		for index, content := range group.values {
			variantID, err := uc.IDGen.NewID(ctx)
			if err != nil {
				return nil, err
			}
			creatives = append(creatives, entities.CreativeVariant{
				VariantID: variantID,
				Slot:      group.slot,
				Content:   content,
				Selected:  index == 0,
			})
		}
	}
	return creatives, nil
}

func (uc GenerateStrategyUseCase) failTask(ctx context.Context, task entities.CampaignTask, reason string, logger *slog.Logger) error {
	task.State = entities.TaskStateFailed
	task.LastError = reason
	task.UpdatedAt = uc.Clock.Now().UTC()
	if err := uc.Tasks.UpdateTask(ctx, task); err != nil {
		return err
	}
	logger.Error("strategy stage failed",
		"event", "wizard_strategy_failed",
		"module", "campaign-automation/campaign-wizard",
		"layer", "application",
		"task_id", task.TaskID,
		"error", reason,
	)
	return domainerrors.ErrStrategyGeneration
}
