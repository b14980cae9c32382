package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type SaveCredentialRequest struct {
	AccessToken string `json:"access_token"`
	AdAccountID string `json:"ad_account_id"`
	PageID      string `json:"page_id"`
}

type StartScanRequest struct {
	URL        string `json:"url"`
	ManualText string `json:"manual_text"`
}

type StartScanResponse struct {
	Task             TaskDTO `json:"task"`
	NeedsManualInput bool    `json:"needs_manual_input,omitempty"`
	Reason           string  `json:"reason,omitempty"`
}

type ProvideProfileRequest struct {
	ManualText string `json:"manual_text"`
}

type GenerateStrategyRequest struct {
	UserGoal         string  `json:"user_goal"`
	ConversionMethod string  `json:"conversion_method"`
	ObjectiveHint    string  `json:"objective_hint"`
	DailyBudgetHint  float64 `json:"daily_budget_hint"`
}

type GenerateStrategyResponse struct {
	Task TaskDTO `json:"task"`
}

type SelectVariantRequest struct {
	VariantID string `json:"variant_id"`
	Slot      string `json:"slot"`
}

// LaunchCampaignRequest carries the creative image either as base64 bytes
// or as a URL the platform fetches itself.
type LaunchCampaignRequest struct {
	ImageBase64 string `json:"image_base64"`
	ImageURL    string `json:"image_url"`
	FileName    string `json:"file_name"`
	LeadFormID  string `json:"lead_form_id"`
}

type LaunchCampaignResponse struct {
	Task            TaskDTO `json:"task"`
	AlreadyLaunched bool    `json:"already_launched"`
	CampaignID      string  `json:"campaign_id,omitempty"`
	AdSetID         string  `json:"ad_set_id,omitempty"`
	CreativeID      string  `json:"creative_id,omitempty"`
	AdID            string  `json:"ad_id,omitempty"`
	LeadFormID      string  `json:"lead_form_id,omitempty"`
}

type BusinessProfileDTO struct {
	BrandName   string   `json:"brand_name"`
	Description string   `json:"description"`
	Products    []string `json:"products"`
	USPs        []string `json:"usps"`
	Website     string   `json:"website,omitempty"`
	Source      string   `json:"source,omitempty"`
}

type StrategyDTO struct {
	Objective        string   `json:"objective"`
	DailyBudget      float64  `json:"daily_budget"`
	Currency         string   `json:"currency"`
	AgeMin           int      `json:"age_min"`
	AgeMax           int      `json:"age_max"`
	InterestKeywords []string `json:"interest_keywords"`
	Location         string   `json:"location,omitempty"`
	CTA              string   `json:"cta,omitempty"`
}

type CreativeVariantDTO struct {
	VariantID string `json:"variant_id"`
	Slot      string `json:"slot"`
	Content   string `json:"content"`
	Selected  bool   `json:"selected"`
}

type ExternalIDsDTO struct {
	CampaignID string `json:"campaign_id,omitempty"`
	AdSetID    string `json:"ad_set_id,omitempty"`
	CreativeID string `json:"creative_id,omitempty"`
	AdID       string `json:"ad_id,omitempty"`
	LeadFormID string `json:"lead_form_id,omitempty"`
}

type TaskDTO struct {
	TaskID           string               `json:"task_id"`
	UserID           string               `json:"user_id"`
	State            string               `json:"state"`
	ConversionMethod string               `json:"conversion_method,omitempty"`
	Profile          *BusinessProfileDTO  `json:"profile,omitempty"`
	Strategy         *StrategyDTO         `json:"strategy,omitempty"`
	Creatives        []CreativeVariantDTO `json:"creatives,omitempty"`
	ExternalIDs      ExternalIDsDTO       `json:"external_ids"`
	LastError        string               `json:"last_error,omitempty"`
	CreatedAt        string               `json:"created_at"`
	UpdatedAt        string               `json:"updated_at"`
	CompletedAt      string               `json:"completed_at,omitempty"`
}

type GetTaskResponse struct {
	Task TaskDTO `json:"task"`
}

type ListTasksResponse struct {
	Items []TaskDTO `json:"items"`
}
