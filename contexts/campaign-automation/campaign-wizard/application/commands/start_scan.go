package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "adpilot/contexts/campaign-automation/campaign-wizard/application"
	"adpilot/contexts/campaign-automation/campaign-wizard/domain/entities"
	domainerrors "adpilot/contexts/campaign-automation/campaign-wizard/domain/errors"
	"adpilot/contexts/campaign-automation/campaign-wizard/ports"
)

type StartScanCommand struct {
	UserID     string
	TaskID     string // optional: supply data to an existing gathering_info task
	URL        string
	ManualText string
}

type StartScanUseCase struct {
	Tasks   ports.TaskRepository
	Scanner ports.BusinessScanner
	Clock   ports.Clock
	IDGen   ports.IDGenerator
	Logger  *slog.Logger
}

type StartScanResult struct {
	Task             entities.CampaignTask
	NeedsManualInput bool
	Reason           string
}

func (uc StartScanUseCase) Execute(ctx context.Context, cmd StartScanCommand) (StartScanResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	userID := strings.TrimSpace(cmd.UserID)
	siteURL := strings.TrimSpace(cmd.URL)
	manualText := strings.TrimSpace(cmd.ManualText)
	if userID == "" || (siteURL == "" && manualText == "") {
		return StartScanResult{}, domainerrors.ErrInvalidTaskInput
	}

	now := uc.Clock.Now().UTC()
	if strings.TrimSpace(cmd.TaskID) != "" {
		return uc.convergeExistingTask(ctx, cmd, now)
	}

	taskID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return StartScanResult{}, err
	}
	task := entities.CampaignTask{
		TaskID:    taskID,
		UserID:    userID,
		State:     entities.TaskStatePending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if manualText != "" {
		task.Profile = profileFromManualText(manualText)
	} else {
		profile, err := uc.Scanner.Scan(ctx, siteURL)
		if err != nil {
			// Scan failure is recoverable: park the task and ask for
			// manual input instead of failing it.
			task.State = entities.TaskStateGatheringInfo
			if createErr := uc.Tasks.CreateTask(ctx, task); createErr != nil {
				return StartScanResult{}, createErr
			}
			logger.Warn("business scan failed, manual input requested",
				"event", "wizard_scan_failed",
				"module", "campaign-automation/campaign-wizard",
				"layer", "application",
				"task_id", task.TaskID,
				"error", err.Error(),
			)
			return StartScanResult{
				Task:             task,
				NeedsManualInput: true,
				Reason:           "we could not analyze the website, describe the business manually",
			}, nil
		}
		task.Profile = profile
	}

	if err := uc.Tasks.CreateTask(ctx, task); err != nil {
		return StartScanResult{}, err
	}
	logger.Info("business profile captured",
		"event", "wizard_profile_captured",
		"module", "campaign-automation/campaign-wizard",
		"layer", "application",
		"task_id", task.TaskID,
		"source", task.Profile.Source,
	)
	return StartScanResult{Task: task}, nil
}

// convergeExistingTask fills the profile of a task parked in gathering_info
// and moves it back onto the pending path.
func (uc StartScanUseCase) convergeExistingTask(
	ctx context.Context,
	cmd StartScanCommand,
	now time.Time,
) (StartScanResult, error) {
	task, err := uc.Tasks.GetTask(ctx, strings.TrimSpace(cmd.TaskID))
	if err != nil {
		return StartScanResult{}, err
	}
	if task.UserID != strings.TrimSpace(cmd.UserID) {
		return StartScanResult{}, domainerrors.ErrTaskOwnershipMismatch
	}
	if !task.CanTransition(entities.TaskStatePending) {
		return StartScanResult{}, domainerrors.ErrInvalidStateTransition
	}

	manualText := strings.TrimSpace(cmd.ManualText)
	if manualText == "" {
		return StartScanResult{}, domainerrors.ErrInvalidTaskInput
	}
	task.Profile = profileFromManualText(manualText)
	task.State = entities.TaskStatePending
	task.UpdatedAt = now
	if err := uc.Tasks.UpdateTask(ctx, task); err != nil {
		return StartScanResult{}, err
	}
	return StartScanResult{Task: task}, nil
}

func profileFromManualText(text string) entities.BusinessProfile {
	return entities.BusinessProfile{
		BrandName:   deriveBrandName(text),
		Description: text,
		Source:      "manual",
	}
}

// deriveBrandName takes the leading words of a manual description as a
// working brand name; strategy generation refines it later.
func deriveBrandName(text string) string {
	words := strings.Fields(text)
	if len(words) > 4 {
		words = words[:4]
	}
	return strings.Join(words, " ")
}
