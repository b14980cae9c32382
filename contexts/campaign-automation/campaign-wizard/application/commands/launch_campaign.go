package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	application "adpilot/contexts/campaign-automation/campaign-wizard/application"
	"adpilot/contexts/campaign-automation/campaign-wizard/domain/adplatform"
	"adpilot/contexts/campaign-automation/campaign-wizard/domain/entities"
	domainerrors "adpilot/contexts/campaign-automation/campaign-wizard/domain/errors"
	"adpilot/contexts/campaign-automation/campaign-wizard/ports"
)

type LaunchCampaignCommand struct {
	TaskID     string
	UserID     string
	Image      ports.ImageSource
	LeadFormID string // optional pre-existing lead form
}

type LaunchCampaignUseCase struct {
	Tasks       ports.TaskRepository
	Credentials ports.CredentialRepository
	Platform    ports.AdPlatform
	Outbox      ports.OutboxWriter
	Clock       ports.Clock
	IDGen       ports.IDGenerator

	// FallbackLinkURL backs website creatives when no valid business URL
	// is on file; HostedPrivacyBase keys the hosted privacy-policy pages.
	FallbackLinkURL   string
	HostedPrivacyBase string

	Logger *slog.Logger
}

type LaunchCampaignResult struct {
	Task            entities.CampaignTask
	AlreadyLaunched bool
	CampaignID      string
	AdSetID         string
	CreativeID      string
	AdID            string
	LeadFormID      string
}

// Execute runs the creating stage: a strict sequence of platform mutations
// with no compensation of already-created objects on failure. Partial
// objects are left inert on the platform for manual cleanup.
func (uc LaunchCampaignUseCase) Execute(ctx context.Context, cmd LaunchCampaignCommand) (LaunchCampaignResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	task, err := uc.Tasks.GetTask(ctx, strings.TrimSpace(cmd.TaskID))
	if err != nil {
		return LaunchCampaignResult{}, err
	}
	if task.UserID != strings.TrimSpace(cmd.UserID) {
		return LaunchCampaignResult{}, domainerrors.ErrTaskOwnershipMismatch
	}
	if task.External.CampaignID != "" {
		return conflictResult(task), nil
	}
	if task.Strategy == nil {
		return LaunchCampaignResult{}, domainerrors.ErrMissingStrategy
	}
	if cmd.Image.IsEmpty() {
		return LaunchCampaignResult{}, domainerrors.ErrMissingCreativeImage
	}
	headline := task.SelectedContent(entities.SlotHeadline)
	body := task.SelectedContent(entities.SlotPrimaryText)
	if headline == "" || body == "" {
		return LaunchCampaignResult{}, domainerrors.ErrInvalidTaskInput
	}
	credential, err := uc.Credentials.GetCredential(ctx, task.UserID)
	if err != nil {
		return LaunchCampaignResult{}, err
	}

	// Atomic claim closes the concurrent-launch race: exactly one caller
	// moves the task review -> creating.
	now := uc.Clock.Now().UTC()
	if err := uc.Tasks.ClaimLaunch(ctx, task.TaskID, now); err != nil {
		if errors.Is(err, domainerrors.ErrAlreadyLaunched) {
			current, getErr := uc.Tasks.GetTask(ctx, task.TaskID)
			if getErr != nil {
				return LaunchCampaignResult{}, getErr
			}
			return conflictResult(current), nil
		}
		return LaunchCampaignResult{}, err
	}
	task.State = entities.TaskStateCreating
	task.UpdatedAt = now

	strategy := *task.Strategy

	imageHash, err := uc.Platform.UploadImage(ctx, credential, cmd.Image)
	if err != nil {
		return LaunchCampaignResult{}, uc.failTask(ctx, task, "upload_image", err, logger)
	}

	campaignName := fmt.Sprintf("%s AdPilot %s", brandOrDefault(task.Profile), shortID(task.TaskID))
	campaignID, err := uc.Platform.CreateCampaign(ctx, credential, campaignName, strategy.Objective, "ACTIVE")
	if err != nil {
		return LaunchCampaignResult{}, uc.failTask(ctx, task, "create_campaign", err, logger)
	}
	task.External.CampaignID = campaignID
	if err := uc.persist(ctx, &task); err != nil {
		return LaunchCampaignResult{}, err
	}

	// Best effort: an empty interest result never aborts the launch, the
	// ad set just falls back to broad targeting.
	interests := uc.searchInterests(ctx, credential, strategy.Targeting.InterestKeywords, logger, task.TaskID)

	adSetID, err := uc.Platform.CreateAdSet(ctx, credential, ports.CreateAdSetInput{
		CampaignID:       campaignID,
		Name:             campaignName + " Ad Set",
		DailyBudgetMinor: int64(math.Round(strategy.Budget.DailyAmount * 100)),
		Targeting: ports.AdSetTargeting{
			AgeMin:    strategy.Targeting.AgeMin,
			AgeMax:    strategy.Targeting.AgeMax,
			Interests: interests,
		},
	})
	if err != nil {
		return LaunchCampaignResult{}, uc.failTask(ctx, task, "create_ad_set", err, logger)
	}
	task.External.AdSetID = adSetID
	if err := uc.persist(ctx, &task); err != nil {
		return LaunchCampaignResult{}, err
	}

	creativeInput := ports.CreateCreativeInput{
		Name:      campaignName + " Creative",
		ImageHash: imageHash,
		Headline:  headline,
		Body:      body,
	}
	switch {
	case strings.TrimSpace(cmd.LeadFormID) != "":
		task.External.LeadFormID = strings.TrimSpace(cmd.LeadFormID)
		creativeInput.LeadFormID = task.External.LeadFormID
	case task.ConversionMethod == entities.ConversionLeadForm:
		leadFormID, err := uc.Platform.CreateLeadForm(ctx, credential, ports.LeadFormInput{
			FormName:         brandOrDefault(task.Profile) + " Lead Form",
			IntroText:        entities.TruncateForSlot(entities.SlotPrimaryText, task.Profile.Description),
			PrivacyPolicyURL: adplatform.ResolvePrivacyPolicyURL(task.Profile.Website, uc.HostedPrivacyBase, task.TaskID),
			ThankYouMessage:  "Thanks, we will be in touch shortly.",
		})
		if err != nil {
			return LaunchCampaignResult{}, uc.failTask(ctx, task, "create_lead_form", err, logger)
		}
		task.External.LeadFormID = leadFormID
		if err := uc.persist(ctx, &task); err != nil {
			return LaunchCampaignResult{}, err
		}
		creativeInput.LeadFormID = leadFormID
	default:
		creativeInput.LinkURL = uc.FallbackLinkURL
		if adplatform.IsValidWebsiteURL(task.Profile.Website) {
			creativeInput.LinkURL = task.Profile.Website
		}
	}

	creativeID, err := uc.Platform.CreateCreative(ctx, credential, creativeInput)
	if err != nil {
		return LaunchCampaignResult{}, uc.failTask(ctx, task, "create_creative", err, logger)
	}
	task.External.CreativeID = creativeID
	if err := uc.persist(ctx, &task); err != nil {
		return LaunchCampaignResult{}, err
	}

	adID, err := uc.Platform.CreateAd(ctx, credential, campaignName+" Ad", adSetID, creativeID, "ACTIVE")
	if err != nil {
		return LaunchCampaignResult{}, uc.failTask(ctx, task, "create_ad", err, logger)
	}
	task.External.AdID = adID

	completedAt := uc.Clock.Now().UTC()
	task.State = entities.TaskStateCompleted
	task.CompletedAt = &completedAt
	task.UpdatedAt = completedAt
	if err := uc.Tasks.UpdateTask(ctx, task); err != nil {
		return LaunchCampaignResult{}, err
	}

	if err := uc.appendLaunchedEvent(ctx, task, completedAt); err != nil {
		// The campaign is live; a notification hiccup must not turn the
		// launch into a failure.
		logger.Error("launch event append failed",
			"event", "wizard_launch_event_failed",
			"module", "campaign-automation/campaign-wizard",
			"layer", "application",
			"task_id", task.TaskID,
			"error", err.Error(),
		)
	}

	logger.Info("campaign launched",
		"event", "wizard_campaign_launched",
		"module", "campaign-automation/campaign-wizard",
		"layer", "application",
		"task_id", task.TaskID,
		"campaign_id", campaignID,
		"ad_id", adID,
	)
	return LaunchCampaignResult{
		Task:       task,
		CampaignID: task.External.CampaignID,
		AdSetID:    task.External.AdSetID,
		CreativeID: task.External.CreativeID,
		AdID:       task.External.AdID,
		LeadFormID: task.External.LeadFormID,
	}, nil
}

func (uc LaunchCampaignUseCase) searchInterests(
	ctx context.Context,
	credential entities.AdCredential,
	keywords []string,
	logger *slog.Logger,
	taskID string,
) []entities.Interest {
	if len(keywords) == 0 {
		return nil
	}
	interests, err := uc.Platform.SearchInterests(ctx, credential, keywords, 3)
	if err != nil {
		logger.Warn("interest search failed, falling back to broad targeting",
			"event", "wizard_interest_search_failed",
			"module", "campaign-automation/campaign-wizard",
			"layer", "application",
			"task_id", taskID,
			"error", err.Error(),
		)
		return nil
	}
	return interests
}

// failTask classifies a platform error, records it on the task and moves
// the task to failed. External ids gathered so far stay on the record.
func (uc LaunchCampaignUseCase) failTask(
	ctx context.Context,
	task entities.CampaignTask,
	step string,
	cause error,
	logger *slog.Logger,
) error {
	var raw adplatform.RawError
	var returned error
	if errors.As(cause, &raw) {
		structured := adplatform.Classify(raw)
		task.LastError = structured.Rendered()
		returned = structured
	} else {
		task.LastError = cause.Error()
		returned = cause
	}

	task.State = entities.TaskStateFailed
	task.UpdatedAt = uc.Clock.Now().UTC()
	if err := uc.Tasks.UpdateTask(ctx, task); err != nil {
		return err
	}

	logger.Error("launch pipeline step failed",
		"event", "wizard_launch_failed",
		"module", "campaign-automation/campaign-wizard",
		"layer", "application",
		"task_id", task.TaskID,
		"step", step,
		"error", cause.Error(),
	)
	return returned
}

func (uc LaunchCampaignUseCase) persist(ctx context.Context, task *entities.CampaignTask) error {
	task.UpdatedAt = uc.Clock.Now().UTC()
	return uc.Tasks.UpdateTask(ctx, *task)
}

func (uc LaunchCampaignUseCase) appendLaunchedEvent(ctx context.Context, task entities.CampaignTask, occurredAt time.Time) error {
	if uc.Outbox == nil {
		return nil
	}
	eventID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return err
	}
	envelope, err := newTaskEnvelope(
		eventID,
		"wizard.campaign_launched",
		task.UserID,
		task.TaskID,
		occurredAt,
		map[string]any{
			"task_id":      task.TaskID,
			"campaign_id":  task.External.CampaignID,
			"ad_set_id":    task.External.AdSetID,
			"creative_id":  task.External.CreativeID,
			"ad_id":        task.External.AdID,
			"lead_form_id": task.External.LeadFormID,
		},
	)
	if err != nil {
		return err
	}
	return uc.Outbox.AppendOutbox(ctx, envelope)
}

func conflictResult(task entities.CampaignTask) LaunchCampaignResult {
	return LaunchCampaignResult{
		Task:            task,
		AlreadyLaunched: true,
		CampaignID:      task.External.CampaignID,
		AdSetID:         task.External.AdSetID,
		CreativeID:      task.External.CreativeID,
		AdID:            task.External.AdID,
		LeadFormID:      task.External.LeadFormID,
	}
}

func brandOrDefault(profile entities.BusinessProfile) string {
	brand := strings.TrimSpace(profile.BrandName)
	if brand == "" {
		return "New Business"
	}
	return brand
}

func shortID(taskID string) string {
	cleaned := strings.ReplaceAll(taskID, "-", "")
	if len(cleaned) > 8 {
		return cleaned[:8]
	}
	return cleaned
}
