package memory

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"adpilot/contexts/campaign-automation/campaign-wizard/domain/entities"
	domainerrors "adpilot/contexts/campaign-automation/campaign-wizard/domain/errors"
	"adpilot/contexts/campaign-automation/campaign-wizard/ports"

	"github.com/google/uuid"
)

type outboxRow struct {
	message   ports.OutboxMessage
	published bool
}

type Store struct {
	mu sync.RWMutex

	tasks       map[string]entities.CampaignTask
	credentials map[string]entities.AdCredential
	outbox      []outboxRow
}

func NewStore(seed []entities.CampaignTask) *Store {
	tasks := make(map[string]entities.CampaignTask, len(seed))
	for _, item := range seed {
		tasks[item.TaskID] = item
	}
	return &Store{
		tasks:       tasks,
		credentials: make(map[string]entities.AdCredential),
		outbox:      make([]outboxRow, 0),
	}
}

func (s *Store) CreateTask(_ context.Context, task entities.CampaignTask) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tasks[task.TaskID]; exists {
		return domainerrors.ErrInvalidTaskInput
	}
	s.tasks[task.TaskID] = task
	return nil
}

func (s *Store) UpdateTask(_ context.Context, task entities.CampaignTask) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tasks[task.TaskID]; !exists {
		return domainerrors.ErrTaskNotFound
	}
	s.tasks[task.TaskID] = task
	return nil
}

func (s *Store) GetTask(_ context.Context, taskID string) (entities.CampaignTask, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, exists := s.tasks[strings.TrimSpace(taskID)]
	if !exists {
		return entities.CampaignTask{}, domainerrors.ErrTaskNotFound
	}
	return item, nil
}

func (s *Store) ListTasksByUser(_ context.Context, userID string) ([]entities.CampaignTask, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.CampaignTask, 0)
	for _, task := range s.tasks {
		if task.UserID == strings.TrimSpace(userID) {
			items = append(items, task)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

// ClaimLaunch performs the check-and-mark under one lock, mirroring the
// single conditional UPDATE the postgres adapter issues.
func (s *Store) ClaimLaunch(_ context.Context, taskID string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, exists := s.tasks[strings.TrimSpace(taskID)]
	if !exists {
		return domainerrors.ErrTaskNotFound
	}
	if task.External.CampaignID != "" {
		return domainerrors.ErrAlreadyLaunched
	}
	if task.State != entities.TaskStateReview {
		return domainerrors.ErrInvalidStateTransition
	}
	task.State = entities.TaskStateCreating
	task.UpdatedAt = now.UTC()
	s.tasks[task.TaskID] = task
	return nil
}

func (s *Store) GetCredential(_ context.Context, userID string) (entities.AdCredential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, exists := s.credentials[strings.TrimSpace(userID)]
	if !exists {
		return entities.AdCredential{}, domainerrors.ErrCredentialNotFound
	}
	return item, nil
}

func (s *Store) PutCredential(_ context.Context, credential entities.AdCredential) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.credentials[credential.UserID] = credential
	return nil
}

func (s *Store) AppendOutbox(_ context.Context, envelope ports.EventEnvelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.outbox = append(s.outbox, outboxRow{
		message: ports.OutboxMessage{
			OutboxID:     envelope.EventID,
			EventType:    envelope.EventType,
			PartitionKey: envelope.PartitionKey,
			Payload:      payload,
			CreatedAt:    envelope.OccurredAt.UTC(),
		},
	})
	return nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}
	items := make([]ports.OutboxMessage, 0)
	for _, row := range s.outbox {
		if row.published {
			continue
		}
		items = append(items, row.message)
		if len(items) >= limit {
			break
		}
	}
	return items, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, outboxID string, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for index, row := range s.outbox {
		if row.message.OutboxID == outboxID {
			s.outbox[index].published = true
			return nil
		}
	}
	return domainerrors.ErrInvalidTaskInput
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
