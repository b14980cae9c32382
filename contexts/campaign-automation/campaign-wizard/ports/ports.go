package ports

import (
	"context"
	"time"

	"adpilot/contexts/campaign-automation/campaign-wizard/domain/entities"
	"adpilot/internal/shared/events"
)

type TaskRepository interface {
	CreateTask(ctx context.Context, task entities.CampaignTask) error
	UpdateTask(ctx context.Context, task entities.CampaignTask) error
	GetTask(ctx context.Context, taskID string) (entities.CampaignTask, error)
	ListTasksByUser(ctx context.Context, userID string) ([]entities.CampaignTask, error)

	// ClaimLaunch atomically moves a task from review to creating, provided
	// no platform campaign id has been recorded yet. Returns
	// ErrAlreadyLaunched when a campaign id exists, ErrInvalidStateTransition
	// when the task is not in review, ErrTaskNotFound otherwise.
	ClaimLaunch(ctx context.Context, taskID string, now time.Time) error
}

type CredentialRepository interface {
	GetCredential(ctx context.Context, userID string) (entities.AdCredential, error)
	PutCredential(ctx context.Context, credential entities.AdCredential) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// ImageSource is the creative image handed to the launch pipeline: either
// bytes uploaded by the caller or a URL the platform fetches itself.
type ImageSource struct {
	FileName string
	Data     []byte
	URL      string
}

func (s ImageSource) IsEmpty() bool {
	return len(s.Data) == 0 && s.URL == ""
}

type AdSetTargeting struct {
	AgeMin    int
	AgeMax    int
	Countries []string
	Interests []entities.Interest
}

type CreateAdSetInput struct {
	CampaignID       string
	Name             string
	DailyBudgetMinor int64
	Targeting        AdSetTargeting
}

// CreateCreativeInput carries exactly one destination: LinkURL for the
// website conversion method, LeadFormID for the instant-form method.
type CreateCreativeInput struct {
	Name       string
	ImageHash  string
	Headline   string
	Body       string
	LinkURL    string
	LeadFormID string
}

type LeadFormInput struct {
	FormName         string
	IntroText        string
	PrivacyPolicyURL string
	ThankYouMessage  string
	Questions        []string
}

// AdPlatform is the facade over every mutating/read call to the external ad
// platform. Operations translate domain intent into platform calls and
// surface failures as adplatform.RawError for the classifier.
type AdPlatform interface {
	UploadImage(ctx context.Context, credential entities.AdCredential, image ImageSource) (string, error)
	CreateCampaign(ctx context.Context, credential entities.AdCredential, name, objective, status string) (string, error)
	CreateAdSet(ctx context.Context, credential entities.AdCredential, input CreateAdSetInput) (string, error)
	CreateCreative(ctx context.Context, credential entities.AdCredential, input CreateCreativeInput) (string, error)
	CreateLeadForm(ctx context.Context, credential entities.AdCredential, input LeadFormInput) (string, error)
	CreateAd(ctx context.Context, credential entities.AdCredential, name, adSetID, creativeID, status string) (string, error)
	SearchInterests(ctx context.Context, credential entities.AdCredential, keywords []string, perKeywordLimit int) ([]entities.Interest, error)
	VerifyCredential(ctx context.Context, credential entities.AdCredential) (bool, error)
}

type GenerateStrategyInput struct {
	Profile          entities.BusinessProfile
	UserGoal         string
	ConversionMethod entities.ConversionMethod
	ObjectiveHint    string
	DailyBudgetHint  float64
}

// StrategyGenerator is the external text-generation collaborator. The
// pipeline treats its output as opaque and validates only shape and copy
// length on return.
type StrategyGenerator interface {
	Generate(ctx context.Context, input GenerateStrategyInput) (entities.Strategy, error)
}

// BusinessScanner captures a business profile from a public website.
type BusinessScanner interface {
	Scan(ctx context.Context, siteURL string) (entities.BusinessProfile, error)
}

type EventEnvelope = events.Envelope

type OutboxMessage struct {
	OutboxID     string
	EventType    string
	PartitionKey string
	Payload      []byte
	CreatedAt    time.Time
}

type OutboxWriter interface {
	AppendOutbox(ctx context.Context, envelope EventEnvelope) error
}

type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}

type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}

type EventSubscriber interface {
	Subscribe(
		ctx context.Context,
		topic string,
		consumerGroup string,
		handler func(context.Context, EventEnvelope) error,
	) error
}

// TokenCipher guards platform access tokens at rest. Implementations must
// fail loudly on malformed ciphertext instead of returning garbage.
type TokenCipher interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

// WebhookSink delivers terminal task events to the configured endpoint.
// Delivery failures are the sink's problem; the pipeline never waits on it.
type WebhookSink interface {
	Notify(ctx context.Context, userID string, eventName string, payload []byte) error
}
