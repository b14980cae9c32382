package meta

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"adpilot/contexts/campaign-automation/campaign-wizard/domain/adplatform"
	"adpilot/contexts/campaign-automation/campaign-wizard/domain/entities"
	"adpilot/contexts/campaign-automation/campaign-wizard/ports"
)

const (
	defaultAPIVersion = "v19.0"
	defaultTimeout    = 30 * time.Second

	// Targeting floor forced on every ad set regardless of caller input.
	minAdAge     = 18
	maxAdAge     = 65
	billingEvent = "IMPRESSIONS"
)

var defaultCountries = []string{"IN"}

// Client is the facade over the external ad platform's Graph-style REST
// API. It translates domain intent into platform calls and surfaces
// failures as adplatform.RawError; it never decides business logic.
type Client struct {
	baseURL    string
	apiVersion string
	httpClient *http.Client
	cipher     ports.TokenCipher
	logger     *slog.Logger
}

func NewClient(baseURL string, apiVersion string, cipher ports.TokenCipher, timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	if apiVersion == "" {
		apiVersion = defaultAPIVersion
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiVersion: apiVersion,
		httpClient: &http.Client{Timeout: timeout},
		cipher:     cipher,
		logger:     logger,
	}
}

func (c *Client) UploadImage(ctx context.Context, credential entities.AdCredential, image ports.ImageSource) (string, error) {
	form := url.Values{}
	switch {
	case len(image.Data) > 0:
		form.Set("bytes", base64.StdEncoding.EncodeToString(image.Data))
		if image.FileName != "" {
			form.Set("name", image.FileName)
		}
	case image.URL != "":
		form.Set("url", image.URL)
	default:
		return "", adplatform.RawError{Code: 100, Message: "no image source provided"}
	}

	var payload struct {
		Images map[string]struct {
			Hash string `json:"hash"`
		} `json:"images"`
	}
	if err := c.postForm(ctx, credential, c.accountPath(credential, "adimages"), form, &payload); err != nil {
		return "", err
	}
	for _, item := range payload.Images {
		if item.Hash != "" {
			return item.Hash, nil
		}
	}
	return "", adplatform.RawError{Code: 100, Message: "image upload returned no hash"}
}

func (c *Client) CreateCampaign(ctx context.Context, credential entities.AdCredential, name, objective, status string) (string, error) {
	form := url.Values{}
	form.Set("name", name)
	form.Set("objective", objective)
	form.Set("status", status)
	form.Set("special_ad_categories", "[]")
	return c.createObject(ctx, credential, c.accountPath(credential, "campaigns"), form)
}

func (c *Client) CreateAdSet(ctx context.Context, credential entities.AdCredential, input ports.CreateAdSetInput) (string, error) {
	targeting, err := json.Marshal(mergeTargeting(input.Targeting))
	if err != nil {
		return "", err
	}

	form := url.Values{}
	form.Set("name", input.Name)
	form.Set("campaign_id", input.CampaignID)
	form.Set("daily_budget", strconv.FormatInt(input.DailyBudgetMinor, 10))
	form.Set("billing_event", billingEvent)
	form.Set("optimization_goal", "LINK_CLICKS")
	form.Set("targeting", string(targeting))
	form.Set("status", "ACTIVE")
	return c.createObject(ctx, credential, c.accountPath(credential, "adsets"), form)
}

func (c *Client) CreateCreative(ctx context.Context, credential entities.AdCredential, input ports.CreateCreativeInput) (string, error) {
	if input.LinkURL != "" && input.LeadFormID != "" {
		return "", adplatform.RawError{Code: 100, Message: "creative cannot carry both a link and a lead form destination"}
	}

	linkData := map[string]any{
		"image_hash": input.ImageHash,
		"name":       input.Headline,
		"message":    input.Body,
	}
	if input.LeadFormID != "" {
		linkData["link"] = "https://fb.me/"
		linkData["call_to_action"] = map[string]any{
			"type":  "SIGN_UP",
			"value": map[string]any{"lead_gen_form_id": input.LeadFormID},
		}
	} else {
		linkData["link"] = input.LinkURL
		linkData["call_to_action"] = map[string]any{"type": "LEARN_MORE"}
	}
	spec, err := json.Marshal(map[string]any{
		"page_id":   credential.PageID,
		"link_data": linkData,
	})
	if err != nil {
		return "", err
	}

	form := url.Values{}
	form.Set("name", input.Name)
	form.Set("object_story_spec", string(spec))
	return c.createObject(ctx, credential, c.accountPath(credential, "adcreatives"), form)
}

func (c *Client) CreateLeadForm(ctx context.Context, credential entities.AdCredential, input ports.LeadFormInput) (string, error) {
	questions := input.Questions
	if len(questions) == 0 {
		questions = []string{"FULL_NAME", "PHONE", "EMAIL"}
	}
	questionSpecs := make([]map[string]string, 0, len(questions))
	for _, question := range questions {
		questionSpecs = append(questionSpecs, map[string]string{"type": question})
	}
	questionsJSON, err := json.Marshal(questionSpecs)
	if err != nil {
		return "", err
	}
	privacyJSON, err := json.Marshal(map[string]string{"url": input.PrivacyPolicyURL})
	if err != nil {
		return "", err
	}
	thankYouJSON, err := json.Marshal(map[string]string{
		"title": "Thank you",
		"body":  input.ThankYouMessage,
	})
	if err != nil {
		return "", err
	}

	form := url.Values{}
	form.Set("name", input.FormName)
	form.Set("questions", string(questionsJSON))
	form.Set("privacy_policy", string(privacyJSON))
	form.Set("thank_you_page", string(thankYouJSON))
	if input.IntroText != "" {
		form.Set("context_card", input.IntroText)
	}
	path := fmt.Sprintf("/%s/%s/leadgen_forms", c.apiVersion, credential.PageID)
	return c.createObject(ctx, credential, path, form)
}

func (c *Client) CreateAd(ctx context.Context, credential entities.AdCredential, name, adSetID, creativeID, status string) (string, error) {
	creative, err := json.Marshal(map[string]string{"creative_id": creativeID})
	if err != nil {
		return "", err
	}
	form := url.Values{}
	form.Set("name", name)
	form.Set("adset_id", adSetID)
	form.Set("creative", string(creative))
	form.Set("status", status)
	return c.createObject(ctx, credential, c.accountPath(credential, "ads"), form)
}

// SearchInterests is best effort: per-keyword failures surface to the
// caller, which treats them as a fallback to broad targeting.
func (c *Client) SearchInterests(ctx context.Context, credential entities.AdCredential, keywords []string, perKeywordLimit int) ([]entities.Interest, error) {
	if perKeywordLimit <= 0 {
		perKeywordLimit = 3
	}

	seen := make(map[string]bool)
	results := make([]entities.Interest, 0, len(keywords)*perKeywordLimit)
	for _, keyword := range keywords {
		query := url.Values{}
		query.Set("type", "adinterest")
		query.Set("q", keyword)
		query.Set("limit", strconv.Itoa(perKeywordLimit))

		var payload struct {
			Data []struct {
				ID   string `json:"id"`
				Name string `json:"name"`
			} `json:"data"`
		}
		if err := c.get(ctx, credential, "/"+c.apiVersion+"/search", query, &payload); err != nil {
			return nil, err
		}
		for _, item := range payload.Data {
			if seen[item.ID] {
				continue
			}
			seen[item.ID] = true
			results = append(results, entities.Interest{ID: item.ID, Name: item.Name})
		}
	}
	return results, nil
}

func (c *Client) VerifyCredential(ctx context.Context, credential entities.AdCredential) (bool, error) {
	var payload struct {
		ID string `json:"id"`
	}
	err := c.get(ctx, credential, "/"+c.apiVersion+"/me", url.Values{}, &payload)
	if err != nil {
		var raw adplatform.RawError
		if errors.As(err, &raw) {
			return false, nil
		}
		return false, err
	}
	return payload.ID != "", nil
}

func (c *Client) accountPath(credential entities.AdCredential, collection string) string {
	return fmt.Sprintf("/%s/act_%s/%s", c.apiVersion, credential.AdAccountID, collection)
}

func (c *Client) createObject(ctx context.Context, credential entities.AdCredential, path string, form url.Values) (string, error) {
	var payload struct {
		ID string `json:"id"`
	}
	if err := c.postForm(ctx, credential, path, form, &payload); err != nil {
		return "", err
	}
	if payload.ID == "" {
		return "", adplatform.RawError{Code: 100, Message: "platform returned no object id"}
	}
	return payload.ID, nil
}

func (c *Client) postForm(ctx context.Context, credential entities.AdCredential, path string, form url.Values, out any) error {
	token, err := c.cipher.Decrypt(credential.AccessTokenEnc)
	if err != nil {
		return fmt.Errorf("decrypt access token: %w", err)
	}
	form.Set("access_token", token)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req, out)
}

func (c *Client) get(ctx context.Context, credential entities.AdCredential, path string, query url.Values, out any) error {
	token, err := c.cipher.Decrypt(credential.AccessTokenEnc)
	if err != nil {
		return fmt.Errorf("decrypt access token: %w", err)
	}
	query.Set("access_token", token)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}

	if resp.StatusCode >= 400 {
		return decodeError(body, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode platform response: %w", err)
	}
	return nil
}

// decodeError maps the platform's error envelope onto the single raw error
// shape the classifier understands.
func decodeError(body []byte, statusCode int) error {
	var envelope struct {
		Error struct {
			Message      string `json:"message"`
			Code         int    `json:"code"`
			ErrorSubcode int    `json:"error_subcode"`
			ErrorUserMsg string `json:"error_user_msg"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || envelope.Error.Message == "" && envelope.Error.Code == 0 {
		return adplatform.RawError{
			Code:    statusCode,
			Message: strings.TrimSpace(string(body)),
		}
	}

	message := envelope.Error.ErrorUserMsg
	if message == "" {
		message = envelope.Error.Message
	}
	return adplatform.RawError{
		Code:    envelope.Error.Code,
		Subcode: envelope.Error.ErrorSubcode,
		Message: message,
	}
}

// mergeTargeting applies the platform-mandated floor on top of the caller
// supplied targeting: country list, age bounds and the advantage-audience
// flag are always present.
func mergeTargeting(input ports.AdSetTargeting) map[string]any {
	ageMin := input.AgeMin
	if ageMin < minAdAge {
		ageMin = minAdAge
	}
	ageMax := input.AgeMax
	if ageMax < ageMin || ageMax > maxAdAge {
		ageMax = maxAdAge
	}
	countries := input.Countries
	if len(countries) == 0 {
		countries = defaultCountries
	}

	targeting := map[string]any{
		"age_min":              ageMin,
		"age_max":              ageMax,
		"geo_locations":        map[string]any{"countries": countries},
		"targeting_automation": map[string]any{"advantage_audience": 1},
	}
	if len(input.Interests) > 0 {
		interests := make([]map[string]string, 0, len(input.Interests))
		for _, interest := range input.Interests {
			interests = append(interests, map[string]string{
				"id":   interest.ID,
				"name": interest.Name,
			})
		}
		targeting["flexible_spec"] = []map[string]any{{"interests": interests}}
	}
	return targeting
}
