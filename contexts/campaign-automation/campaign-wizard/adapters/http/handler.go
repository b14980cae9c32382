package httpadapter

import (
	"context"
	"encoding/base64"
	"log/slog"
	"strings"
	"time"

	"adpilot/contexts/campaign-automation/campaign-wizard/application/commands"
	"adpilot/contexts/campaign-automation/campaign-wizard/application/queries"
	"adpilot/contexts/campaign-automation/campaign-wizard/domain/entities"
	domainerrors "adpilot/contexts/campaign-automation/campaign-wizard/domain/errors"
	"adpilot/contexts/campaign-automation/campaign-wizard/ports"
	httptransport "adpilot/contexts/campaign-automation/campaign-wizard/transport/http"
)

type Handler struct {
	StartScan        commands.StartScanUseCase
	GenerateStrategy commands.GenerateStrategyUseCase
	SelectVariant    commands.SelectVariantUseCase
	LaunchCampaign   commands.LaunchCampaignUseCase
	SaveCredential   commands.SaveCredentialUseCase
	GetTask          queries.GetTaskUseCase
	ListTasks        queries.ListTasksUseCase
	Logger           *slog.Logger
}

func (h Handler) StartScanHandler(
	ctx context.Context,
	userID string,
	req httptransport.StartScanRequest,
) (httptransport.StartScanResponse, error) {
	result, err := h.StartScan.Execute(ctx, commands.StartScanCommand{
		UserID:     userID,
		URL:        req.URL,
		ManualText: req.ManualText,
	})
	if err != nil {
		return httptransport.StartScanResponse{}, err
	}
	return httptransport.StartScanResponse{
		Task:             mapTask(result.Task),
		NeedsManualInput: result.NeedsManualInput,
		Reason:           result.Reason,
	}, nil
}

func (h Handler) ProvideProfileHandler(
	ctx context.Context,
	userID string,
	taskID string,
	req httptransport.ProvideProfileRequest,
) (httptransport.StartScanResponse, error) {
	result, err := h.StartScan.Execute(ctx, commands.StartScanCommand{
		UserID:     userID,
		TaskID:     taskID,
		ManualText: req.ManualText,
	})
	if err != nil {
		return httptransport.StartScanResponse{}, err
	}
	return httptransport.StartScanResponse{Task: mapTask(result.Task)}, nil
}

func (h Handler) GenerateStrategyHandler(
	ctx context.Context,
	userID string,
	taskID string,
	req httptransport.GenerateStrategyRequest,
) (httptransport.GenerateStrategyResponse, error) {
	result, err := h.GenerateStrategy.Execute(ctx, commands.GenerateStrategyCommand{
		TaskID:           taskID,
		UserID:           userID,
		UserGoal:         req.UserGoal,
		ConversionMethod: req.ConversionMethod,
		ObjectiveHint:    req.ObjectiveHint,
		DailyBudgetHint:  req.DailyBudgetHint,
	})
	if err != nil {
		return httptransport.GenerateStrategyResponse{}, err
	}
	return httptransport.GenerateStrategyResponse{Task: mapTask(result.Task)}, nil
}

func (h Handler) SelectVariantHandler(
	ctx context.Context,
	userID string,
	taskID string,
	req httptransport.SelectVariantRequest,
) error {
	return h.SelectVariant.Execute(ctx, commands.SelectVariantCommand{
		TaskID:    taskID,
		UserID:    userID,
		VariantID: req.VariantID,
		Slot:      req.Slot,
	})
}

func (h Handler) LaunchCampaignHandler(
	ctx context.Context,
	userID string,
	taskID string,
	req httptransport.LaunchCampaignRequest,
) (httptransport.LaunchCampaignResponse, error) {
	image, err := imageFromRequest(req)
	if err != nil {
		return httptransport.LaunchCampaignResponse{}, err
	}
	result, err := h.LaunchCampaign.Execute(ctx, commands.LaunchCampaignCommand{
		TaskID:     taskID,
		UserID:     userID,
		Image:      image,
		LeadFormID: req.LeadFormID,
	})
	if err != nil {
		return httptransport.LaunchCampaignResponse{}, err
	}
	return httptransport.LaunchCampaignResponse{
		Task:            mapTask(result.Task),
		AlreadyLaunched: result.AlreadyLaunched,
		CampaignID:      result.CampaignID,
		AdSetID:         result.AdSetID,
		CreativeID:      result.CreativeID,
		AdID:            result.AdID,
		LeadFormID:      result.LeadFormID,
	}, nil
}

func (h Handler) SaveCredentialHandler(
	ctx context.Context,
	userID string,
	req httptransport.SaveCredentialRequest,
) error {
	return h.SaveCredential.Execute(ctx, commands.SaveCredentialCommand{
		UserID:      userID,
		AccessToken: req.AccessToken,
		AdAccountID: req.AdAccountID,
		PageID:      req.PageID,
	})
}

func (h Handler) GetTaskHandler(ctx context.Context, userID string, taskID string) (httptransport.GetTaskResponse, error) {
	task, err := h.GetTask.Execute(ctx, taskID, userID)
	if err != nil {
		return httptransport.GetTaskResponse{}, err
	}
	return httptransport.GetTaskResponse{Task: mapTask(task)}, nil
}

func (h Handler) ListTasksHandler(ctx context.Context, userID string) (httptransport.ListTasksResponse, error) {
	items, err := h.ListTasks.Execute(ctx, userID)
	if err != nil {
		return httptransport.ListTasksResponse{}, err
	}
	result := make([]httptransport.TaskDTO, 0, len(items))
	for _, item := range items {
		result = append(result, mapTask(item))
	}
	return httptransport.ListTasksResponse{Items: result}, nil
}

func imageFromRequest(req httptransport.LaunchCampaignRequest) (ports.ImageSource, error) {
	image := ports.ImageSource{
		FileName: strings.TrimSpace(req.FileName),
		URL:      strings.TrimSpace(req.ImageURL),
	}
	if encoded := strings.TrimSpace(req.ImageBase64); encoded != "" {
		data, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return ports.ImageSource{}, domainerrors.ErrInvalidTaskInput
		}
		image.Data = data
	}
	return image, nil
}

func mapTask(item entities.CampaignTask) httptransport.TaskDTO {
	result := httptransport.TaskDTO{
		TaskID:           item.TaskID,
		UserID:           item.UserID,
		State:            string(item.State),
		ConversionMethod: string(item.ConversionMethod),
		ExternalIDs: httptransport.ExternalIDsDTO{
			CampaignID: item.External.CampaignID,
			AdSetID:    item.External.AdSetID,
			CreativeID: item.External.CreativeID,
			AdID:       item.External.AdID,
			LeadFormID: item.External.LeadFormID,
		},
		LastError: item.LastError,
		CreatedAt: item.CreatedAt.Format(time.RFC3339),
		UpdatedAt: item.UpdatedAt.Format(time.RFC3339),
	}
	if !item.Profile.IsEmpty() {
		result.Profile = &httptransport.BusinessProfileDTO{
			BrandName:   item.Profile.BrandName,
			Description: item.Profile.Description,
			Products:    append([]string(nil), item.Profile.Products...),
			USPs:        append([]string(nil), item.Profile.USPs...),
			Website:     item.Profile.Website,
			Source:      item.Profile.Source,
		}
	}
	if item.Strategy != nil {
		result.Strategy = &httptransport.StrategyDTO{
			Objective:        item.Strategy.Objective,
			DailyBudget:      item.Strategy.Budget.DailyAmount,
			Currency:         item.Strategy.Budget.Currency,
			AgeMin:           item.Strategy.Targeting.AgeMin,
			AgeMax:           item.Strategy.Targeting.AgeMax,
			InterestKeywords: append([]string(nil), item.Strategy.Targeting.InterestKeywords...),
			Location:         item.Strategy.Targeting.Location,
			CTA:              item.Strategy.AdCopy.CTA,
		}
	}
	if len(item.Creatives) > 0 {
		creatives := make([]httptransport.CreativeVariantDTO, 0, len(item.Creatives))
		for _, variant := range item.Creatives {
			creatives = append(creatives, httptransport.CreativeVariantDTO{
				VariantID: variant.VariantID,
				Slot:      string(variant.Slot),
				Content:   variant.Content,
				Selected:  variant.Selected,
			})
		}
		result.Creatives = creatives
	}
	if item.CompletedAt != nil {
		result.CompletedAt = item.CompletedAt.UTC().Format(time.RFC3339)
	}
	return result
}
