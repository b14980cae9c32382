package postgresadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"adpilot/contexts/campaign-automation/campaign-wizard/domain/entities"
	domainerrors "adpilot/contexts/campaign-automation/campaign-wizard/domain/errors"
	"adpilot/contexts/campaign-automation/campaign-wizard/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	outboxStatusPending   = "pending"
	outboxStatusPublished = "published"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) CreateTask(ctx context.Context, task entities.CampaignTask) error {
	row, err := taskModelFromEntity(task)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrInvalidTaskInput
		}
		return err
	}
	return nil
}

func (r *Repository) UpdateTask(ctx context.Context, task entities.CampaignTask) error {
	row, err := taskModelFromEntity(task)
	if err != nil {
		return err
	}
	result := r.db.WithContext(ctx).
		Model(&taskModel{}).
		Where("task_id = ?", row.TaskID).
		Updates(taskUpdatesFromModel(row))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrTaskNotFound
	}
	return nil
}

func (r *Repository) GetTask(ctx context.Context, taskID string) (entities.CampaignTask, error) {
	var row taskModel
	err := r.db.WithContext(ctx).
		Where("task_id = ?", strings.TrimSpace(taskID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.CampaignTask{}, domainerrors.ErrTaskNotFound
		}
		return entities.CampaignTask{}, err
	}
	return row.toEntity()
}

func (r *Repository) ListTasksByUser(ctx context.Context, userID string) ([]entities.CampaignTask, error) {
	var rows []taskModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", strings.TrimSpace(userID)).
		Order("created_at DESC").
		Find(&rows).
		Error; err != nil {
		return nil, err
	}

	items := make([]entities.CampaignTask, 0, len(rows))
	for _, row := range rows {
		item, err := row.toEntity()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// ClaimLaunch is a single conditional UPDATE: the task moves review ->
// creating only while no platform campaign id is recorded. Zero rows
// affected means the claim lost, and a follow-up read tells the caller why.
func (r *Repository) ClaimLaunch(ctx context.Context, taskID string, now time.Time) error {
	id := strings.TrimSpace(taskID)
	result := r.db.WithContext(ctx).
		Model(&taskModel{}).
		Where("task_id = ? AND state = ? AND campaign_id = ''", id, string(entities.TaskStateReview)).
		Updates(map[string]any{
			"state":      string(entities.TaskStateCreating),
			"updated_at": now.UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	var row taskModel
	err := r.db.WithContext(ctx).
		Select("state", "campaign_id").
		Where("task_id = ?", id).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domainerrors.ErrTaskNotFound
		}
		return err
	}
	if row.CampaignID != "" {
		return domainerrors.ErrAlreadyLaunched
	}
	return domainerrors.ErrInvalidStateTransition
}

func (r *Repository) GetCredential(ctx context.Context, userID string) (entities.AdCredential, error) {
	var row credentialModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", strings.TrimSpace(userID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.AdCredential{}, domainerrors.ErrCredentialNotFound
		}
		return entities.AdCredential{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) PutCredential(ctx context.Context, credential entities.AdCredential) error {
	row := credentialModelFromEntity(credential)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"access_token_enc",
				"ad_account_id",
				"page_id",
				"updated_at",
			}),
		}).
		Create(&row).
		Error
}

func (r *Repository) AppendOutbox(ctx context.Context, envelope ports.EventEnvelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	row := outboxModel{
		OutboxID:     strings.TrimSpace(envelope.EventID),
		EventType:    strings.TrimSpace(envelope.EventType),
		PartitionKey: strings.TrimSpace(envelope.PartitionKey),
		Payload:      payload,
		Status:       outboxStatusPending,
		CreatedAt:    envelope.OccurredAt.UTC(),
	}
	if row.OutboxID == "" {
		row.OutboxID = uuid.NewString()
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}

	createResult := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "outbox_id"}},
			DoNothing: true,
		}).
		Create(&row)
	if createResult.Error != nil {
		return createResult.Error
	}
	if createResult.RowsAffected > 0 {
		return nil
	}

	var existing outboxModel
	if err := r.db.WithContext(ctx).
		Select("payload").
		Where("outbox_id = ?", row.OutboxID).
		First(&existing).
		Error; err != nil {
		return err
	}
	if !bytes.Equal(existing.Payload, row.Payload) {
		return domainerrors.ErrInvalidTaskInput
	}
	return nil
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}

	var rows []outboxModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", outboxStatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).
		Error; err != nil {
		return nil, err
	}

	items := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.OutboxMessage{
			OutboxID:     row.OutboxID,
			EventType:    row.EventType,
			PartitionKey: row.PartitionKey,
			Payload:      append([]byte(nil), row.Payload...),
			CreatedAt:    row.CreatedAt.UTC(),
		})
	}
	return items, nil
}

func (r *Repository) MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("outbox_id = ?", strings.TrimSpace(outboxID)).
		Updates(map[string]any{
			"status":       outboxStatusPublished,
			"published_at": publishedAt.UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrInvalidTaskInput
	}
	return nil
}

type taskModel struct {
	TaskID           string     `gorm:"column:task_id;primaryKey"`
	UserID           string     `gorm:"column:user_id"`
	State            string     `gorm:"column:state"`
	ConversionMethod string     `gorm:"column:conversion_method"`
	Profile          []byte     `gorm:"column:profile;type:jsonb"`
	Strategy         []byte     `gorm:"column:strategy;type:jsonb"`
	Creatives        []byte     `gorm:"column:creatives;type:jsonb"`
	CampaignID       string     `gorm:"column:campaign_id"`
	AdSetID          string     `gorm:"column:ad_set_id"`
	CreativeID       string     `gorm:"column:creative_id"`
	AdID             string     `gorm:"column:ad_id"`
	LeadFormID       string     `gorm:"column:lead_form_id"`
	LastError        string     `gorm:"column:last_error"`
	CreatedAt        time.Time  `gorm:"column:created_at"`
	UpdatedAt        time.Time  `gorm:"column:updated_at"`
	CompletedAt      *time.Time `gorm:"column:completed_at"`
}

func (taskModel) TableName() string {
	return "wizard_tasks"
}

func taskModelFromEntity(item entities.CampaignTask) (taskModel, error) {
	profile, err := json.Marshal(item.Profile)
	if err != nil {
		return taskModel{}, err
	}
	creatives, err := json.Marshal(creativesOrEmpty(item.Creatives))
	if err != nil {
		return taskModel{}, err
	}
	var strategy []byte
	if item.Strategy != nil {
		strategy, err = json.Marshal(item.Strategy)
		if err != nil {
			return taskModel{}, err
		}
	}
	return taskModel{
		TaskID:           strings.TrimSpace(item.TaskID),
		UserID:           strings.TrimSpace(item.UserID),
		State:            string(item.State),
		ConversionMethod: string(item.ConversionMethod),
		Profile:          profile,
		Strategy:         strategy,
		Creatives:        creatives,
		CampaignID:       strings.TrimSpace(item.External.CampaignID),
		AdSetID:          strings.TrimSpace(item.External.AdSetID),
		CreativeID:       strings.TrimSpace(item.External.CreativeID),
		AdID:             strings.TrimSpace(item.External.AdID),
		LeadFormID:       strings.TrimSpace(item.External.LeadFormID),
		LastError:        item.LastError,
		CreatedAt:        item.CreatedAt.UTC(),
		UpdatedAt:        item.UpdatedAt.UTC(),
		CompletedAt:      normalizeOptionalTime(item.CompletedAt),
	}, nil
}

func taskUpdatesFromModel(row taskModel) map[string]any {
	return map[string]any{
		"user_id":           row.UserID,
		"state":             row.State,
		"conversion_method": row.ConversionMethod,
		"profile":           row.Profile,
		"strategy":          row.Strategy,
		"creatives":         row.Creatives,
		"campaign_id":       row.CampaignID,
		"ad_set_id":         row.AdSetID,
		"creative_id":       row.CreativeID,
		"ad_id":             row.AdID,
		"lead_form_id":      row.LeadFormID,
		"last_error":        row.LastError,
		"updated_at":        row.UpdatedAt,
		"completed_at":      row.CompletedAt,
	}
}

func (m taskModel) toEntity() (entities.CampaignTask, error) {
	var profile entities.BusinessProfile
	if len(m.Profile) > 0 {
		if err := json.Unmarshal(m.Profile, &profile); err != nil {
			return entities.CampaignTask{}, err
		}
	}
	var creatives []entities.CreativeVariant
	if len(m.Creatives) > 0 {
		if err := json.Unmarshal(m.Creatives, &creatives); err != nil {
			return entities.CampaignTask{}, err
		}
	}
	var strategy *entities.Strategy
	if len(m.Strategy) > 0 {
		decoded := entities.Strategy{}
		if err := json.Unmarshal(m.Strategy, &decoded); err != nil {
			return entities.CampaignTask{}, err
		}
		strategy = &decoded
	}
	return entities.CampaignTask{
		TaskID:           m.TaskID,
		UserID:           m.UserID,
		State:            entities.TaskState(m.State),
		ConversionMethod: entities.ConversionMethod(m.ConversionMethod),
		Profile:          profile,
		Strategy:         strategy,
		Creatives:        creatives,
		External: entities.ExternalIDs{
			CampaignID: m.CampaignID,
			AdSetID:    m.AdSetID,
			CreativeID: m.CreativeID,
			AdID:       m.AdID,
			LeadFormID: m.LeadFormID,
		},
		LastError:   m.LastError,
		CreatedAt:   m.CreatedAt.UTC(),
		UpdatedAt:   m.UpdatedAt.UTC(),
		CompletedAt: normalizeOptionalTime(m.CompletedAt),
	}, nil
}

type credentialModel struct {
	UserID         string    `gorm:"column:user_id;primaryKey"`
	AccessTokenEnc string    `gorm:"column:access_token_enc"`
	AdAccountID    string    `gorm:"column:ad_account_id"`
	PageID         string    `gorm:"column:page_id"`
	UpdatedAt      time.Time `gorm:"column:updated_at"`
}

func (credentialModel) TableName() string {
	return "wizard_credentials"
}

func credentialModelFromEntity(item entities.AdCredential) credentialModel {
	return credentialModel{
		UserID:         strings.TrimSpace(item.UserID),
		AccessTokenEnc: item.AccessTokenEnc,
		AdAccountID:    strings.TrimSpace(item.AdAccountID),
		PageID:         strings.TrimSpace(item.PageID),
		UpdatedAt:      time.Now().UTC(),
	}
}

func (m credentialModel) toEntity() entities.AdCredential {
	return entities.AdCredential{
		UserID:         m.UserID,
		AccessTokenEnc: m.AccessTokenEnc,
		AdAccountID:    m.AdAccountID,
		PageID:         m.PageID,
	}
}

type outboxModel struct {
	OutboxID     string     `gorm:"column:outbox_id;primaryKey"`
	EventType    string     `gorm:"column:event_type"`
	PartitionKey string     `gorm:"column:partition_key"`
	Payload      []byte     `gorm:"column:payload"`
	Status       string     `gorm:"column:status"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	PublishedAt  *time.Time `gorm:"column:published_at"`
}

func (outboxModel) TableName() string {
	return "wizard_outbox"
}

func creativesOrEmpty(items []entities.CreativeVariant) []entities.CreativeVariant {
	if len(items) == 0 {
		return []entities.CreativeVariant{}
	}
	return items
}

func normalizeOptionalTime(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	timestamp := value.UTC()
	return &timestamp
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
