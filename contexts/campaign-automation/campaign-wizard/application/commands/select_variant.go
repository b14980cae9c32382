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

type SelectVariantCommand struct {
	TaskID    string
	UserID    string
	VariantID string
	Slot      string
}

type SelectVariantUseCase struct {
	Tasks  ports.TaskRepository
	Clock  ports.Clock
	Logger *slog.Logger
}

func (uc SelectVariantUseCase) Execute(ctx context.Context, cmd SelectVariantCommand) error {
	logger := application.ResolveLogger(uc.Logger)
	task, err := uc.Tasks.GetTask(ctx, strings.TrimSpace(cmd.TaskID))
	if err != nil {
		return err
	}
	if task.UserID != strings.TrimSpace(cmd.UserID) {
		return domainerrors.ErrTaskOwnershipMismatch
	}
	if task.State != entities.TaskStateReview {
		return domainerrors.ErrInvalidStateTransition
	}
	slot := entities.CreativeSlot(strings.TrimSpace(cmd.Slot))
	if !entities.IsSupportedSlot(slot) {
		return domainerrors.ErrInvalidTaskInput
	}

	variantID := strings.TrimSpace(cmd.VariantID)
	found := false
	for index, variant := range task.Creatives {
		if variant.Slot != slot {
			continue
		}
		// Deselect siblings first so exactly one variant per slot stays
		// selected.
		task.Creatives[index].Selected = false
		if variant.VariantID == variantID {
			task.Creatives[index].Selected = true
			found = true
		}
	}
	if !found {
		return domainerrors.ErrVariantNotFound
	}

	task.UpdatedAt = uc.Clock.Now().UTC()
	if err := uc.Tasks.UpdateTask(ctx, task); err != nil {
		return err
	}
	logger.Info("creative variant selected",
		"event", "wizard_variant_selected",
		"module", "campaign-automation/campaign-wizard",
		"layer", "application",
		"task_id", task.TaskID,
		"slot", string(slot),
		"variant_id", variantID,
	)
	return nil
}
