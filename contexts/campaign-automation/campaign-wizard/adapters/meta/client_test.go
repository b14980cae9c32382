package meta

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adpilot/contexts/campaign-automation/campaign-wizard/domain/adplatform"
	"adpilot/contexts/campaign-automation/campaign-wizard/domain/entities"
	"adpilot/contexts/campaign-automation/campaign-wizard/ports"
)

func testClient(t *testing.T, handler http.Handler) (*Client, entities.AdCredential) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	box, err := NewSecretbox(testKey)
	require.NoError(t, err)
	encrypted, err := box.Encrypt("token-123")
	require.NoError(t, err)

	client := NewClient(server.URL, "v19.0", box, 5*time.Second, nil)
	return client, entities.AdCredential{
		UserID:         "user-1",
		AccessTokenEnc: encrypted,
		AdAccountID:    "123",
		PageID:         "456",
	}
}

func TestCreateCampaignPostsDecryptedToken(t *testing.T) {
	var gotPath, gotToken, gotObjective string
	client, credential := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotPath = r.URL.Path
		gotToken = r.PostFormValue("access_token")
		gotObjective = r.PostFormValue("objective")
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "cmp_1"})
	}))

	id, err := client.CreateCampaign(context.Background(), credential, "Acme AdPilot abc", "OUTCOME_LEADS", "ACTIVE")
	require.NoError(t, err)
	assert.Equal(t, "cmp_1", id)
	assert.Equal(t, "/v19.0/act_123/campaigns", gotPath)
	assert.Equal(t, "token-123", gotToken)
	assert.Equal(t, "OUTCOME_LEADS", gotObjective)
}

func TestErrorEnvelopeBecomesRawError(t *testing.T) {
	client, credential := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{
				"message":       "Invalid parameter",
				"code":          368,
				"error_subcode": 99,
				"error_user_msg": "This ad account is disabled.",
			},
		})
	}))

	_, err := client.CreateCampaign(context.Background(), credential, "n", "o", "ACTIVE")
	var raw adplatform.RawError
	require.ErrorAs(t, err, &raw)
	assert.Equal(t, 368, raw.Code)
	assert.Equal(t, 99, raw.Subcode)
	assert.Equal(t, "This ad account is disabled.", raw.Message)
}

func TestCreateAdSetEnforcesTargetingFloor(t *testing.T) {
	var targetingJSON string
	client, credential := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		targetingJSON = r.PostFormValue("targeting")
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "adset_1"})
	}))

	_, err := client.CreateAdSet(context.Background(), credential, ports.CreateAdSetInput{
		CampaignID:       "cmp_1",
		Name:             "Ad Set",
		DailyBudgetMinor: 50000,
		Targeting: ports.AdSetTargeting{
			AgeMin:    10,
			AgeMax:    99,
			Interests: []entities.Interest{{ID: "i1", Name: "Coffee"}},
		},
	})
	require.NoError(t, err)

	var targeting struct {
		AgeMin       int `json:"age_min"`
		AgeMax       int `json:"age_max"`
		GeoLocations struct {
			Countries []string `json:"countries"`
		} `json:"geo_locations"`
		TargetingAutomation struct {
			AdvantageAudience int `json:"advantage_audience"`
		} `json:"targeting_automation"`
		FlexibleSpec []map[string]any `json:"flexible_spec"`
	}
	require.NoError(t, json.Unmarshal([]byte(targetingJSON), &targeting))
	assert.Equal(t, 18, targeting.AgeMin)
	assert.Equal(t, 65, targeting.AgeMax)
	assert.Equal(t, []string{"IN"}, targeting.GeoLocations.Countries)
	assert.Equal(t, 1, targeting.TargetingAutomation.AdvantageAudience)
	assert.Len(t, targeting.FlexibleSpec, 1)
}

func TestCreateCreativeRejectsDualDestination(t *testing.T) {
	client, credential := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	}))

	_, err := client.CreateCreative(context.Background(), credential, ports.CreateCreativeInput{
		Name:       "Creative",
		ImageHash:  "hash",
		Headline:   "h",
		Body:       "b",
		LinkURL:    "https://acme.example.com",
		LeadFormID: "form_1",
	})
	var raw adplatform.RawError
	require.ErrorAs(t, err, &raw)
}

func TestVerifyCredential(t *testing.T) {
	client, credential := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v19.0/me" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "42"})
	}))

	valid, err := client.VerifyCredential(context.Background(), credential)
	require.NoError(t, err)
	assert.True(t, valid)
}

func TestVerifyCredentialInvalidToken(t *testing.T) {
	client, credential := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "Error validating access token", "code": 190},
		})
	}))

	valid, err := client.VerifyCredential(context.Background(), credential)
	require.NoError(t, err)
	assert.False(t, valid)
}

func TestSearchInterestsDeduplicates(t *testing.T) {
	client, credential := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]string{
				{"id": "i1", "name": "Coffee"},
				{"id": "i2", "name": "Espresso"},
			},
		})
	}))

	interests, err := client.SearchInterests(context.Background(), credential, []string{"coffee", "espresso"}, 2)
	require.NoError(t, err)
	assert.Equal(t, []entities.Interest{{ID: "i1", Name: "Coffee"}, {ID: "i2", Name: "Espresso"}}, interests)
}
