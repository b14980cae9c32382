package queries

import (
	"context"
	"log/slog"
	"strings"

	"adpilot/contexts/campaign-automation/campaign-wizard/domain/entities"
	domainerrors "adpilot/contexts/campaign-automation/campaign-wizard/domain/errors"
	"adpilot/contexts/campaign-automation/campaign-wizard/ports"
)

type GetTaskUseCase struct {
	Tasks  ports.TaskRepository
	Logger *slog.Logger
}

func (uc GetTaskUseCase) Execute(ctx context.Context, taskID string, userID string) (entities.CampaignTask, error) {
	task, err := uc.Tasks.GetTask(ctx, strings.TrimSpace(taskID))
	if err != nil {
		return entities.CampaignTask{}, err
	}
	if task.UserID != strings.TrimSpace(userID) {
		return entities.CampaignTask{}, domainerrors.ErrTaskOwnershipMismatch
	}
	return task, nil
}
