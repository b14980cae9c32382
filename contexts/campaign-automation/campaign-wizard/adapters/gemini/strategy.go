package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"adpilot/contexts/campaign-automation/campaign-wizard/domain/entities"
	"adpilot/contexts/campaign-automation/campaign-wizard/ports"
)

const defaultModel = "gemini-2.0-flash"

// Generator produces campaign strategies with Google's Gemini API. The
// wizard treats the output as opaque; shape validation happens upstream.
type Generator struct {
	client *genai.Client
	model  string
}

func NewGenerator(ctx context.Context, apiKey, model string) (*Generator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if model == "" {
		model = defaultModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Generator{client: client, model: model}, nil
}

type strategyPayload struct {
	Objective string `json:"objective"`
	Budget    struct {
		DailyAmount float64 `json:"daily_amount"`
		Currency    string  `json:"currency"`
	} `json:"budget"`
	Targeting struct {
		AgeMin           int      `json:"age_min"`
		AgeMax           int      `json:"age_max"`
		InterestKeywords []string `json:"interest_keywords"`
		Location         string   `json:"location"`
	} `json:"targeting"`
	AdCopy struct {
		Headlines    []string `json:"headlines"`
		PrimaryTexts []string `json:"primary_texts"`
		Descriptions []string `json:"descriptions"`
		CTA          string   `json:"cta"`
	} `json:"ad_copy"`
}

func (g *Generator) Generate(ctx context.Context, input ports.GenerateStrategyInput) (entities.Strategy, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(buildPrompt(input), genai.RoleUser),
	}
	result, err := g.client.Models.GenerateContent(ctx, g.model, contents, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return entities.Strategy{}, fmt.Errorf("gemini generate failed: %w", err)
	}

	text := result.Text()
	if text == "" {
		return entities.Strategy{}, fmt.Errorf("gemini returned an empty response")
	}

	var payload strategyPayload
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		return entities.Strategy{}, fmt.Errorf("decode gemini strategy: %w", err)
	}
	return entities.Strategy{
		Objective: payload.Objective,
		Budget: entities.Budget{
			DailyAmount: payload.Budget.DailyAmount,
			Currency:    payload.Budget.Currency,
		},
		Targeting: entities.Targeting{
			AgeMin:           payload.Targeting.AgeMin,
			AgeMax:           payload.Targeting.AgeMax,
			InterestKeywords: payload.Targeting.InterestKeywords,
			Location:         payload.Targeting.Location,
		},
		AdCopy: entities.AdCopy{
			Headlines:    payload.AdCopy.Headlines,
			PrimaryTexts: payload.AdCopy.PrimaryTexts,
			Descriptions: payload.AdCopy.Descriptions,
			CTA:          payload.AdCopy.CTA,
		},
	}, nil
}

func buildPrompt(input ports.GenerateStrategyInput) string {
	var b strings.Builder
	b.WriteString("You are a paid-advertising strategist. Produce a JSON campaign strategy with keys ")
	b.WriteString(`objective, budget{daily_amount,currency}, targeting{age_min,age_max,interest_keywords,location}, `)
	b.WriteString(`ad_copy{headlines,primary_texts,descriptions,cta}. `)
	b.WriteString("Exactly 3 variants per ad_copy list. Headlines under 40 chars, primary texts under 125, descriptions under 30.\n\n")

	fmt.Fprintf(&b, "Business: %s\nDescription: %s\n", input.Profile.BrandName, input.Profile.Description)
	if len(input.Profile.Products) > 0 {
		fmt.Fprintf(&b, "Products: %s\n", strings.Join(input.Profile.Products, ", "))
	}
	if len(input.Profile.USPs) > 0 {
		fmt.Fprintf(&b, "Selling points: %s\n", strings.Join(input.Profile.USPs, ", "))
	}
	fmt.Fprintf(&b, "Conversion method: %s\n", input.ConversionMethod)
	if input.UserGoal != "" {
		fmt.Fprintf(&b, "User goal: %s\n", input.UserGoal)
	}
	if input.ObjectiveHint != "" {
		fmt.Fprintf(&b, "Preferred objective: %s\n", input.ObjectiveHint)
	}
	if input.DailyBudgetHint > 0 {
		fmt.Fprintf(&b, "Daily budget hint: %.2f\n", input.DailyBudgetHint)
	}
	return b.String()
}
