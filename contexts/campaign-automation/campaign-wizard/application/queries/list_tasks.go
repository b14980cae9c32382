package queries

import (
	"context"
	"log/slog"
	"strings"

	"adpilot/contexts/campaign-automation/campaign-wizard/domain/entities"
	domainerrors "adpilot/contexts/campaign-automation/campaign-wizard/domain/errors"
	"adpilot/contexts/campaign-automation/campaign-wizard/ports"
)

type ListTasksUseCase struct {
	Tasks  ports.TaskRepository
	Logger *slog.Logger
}

func (uc ListTasksUseCase) Execute(ctx context.Context, userID string) ([]entities.CampaignTask, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, domainerrors.ErrInvalidTaskInput
	}
	return uc.Tasks.ListTasksByUser(ctx, strings.TrimSpace(userID))
}
