package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Notifier POSTs terminal task events to a configured endpoint. A blank
// endpoint turns delivery into a no-op, which keeps local setups working
// without a sink.
type Notifier struct {
	endpoint string
	client   *http.Client
}

func NewNotifier(endpoint string, timeout time.Duration) *Notifier {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Notifier{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

func (n *Notifier) Notify(ctx context.Context, userID string, eventName string, payload []byte) error {
	if n.endpoint == "" {
		return nil
	}

	body, err := json.Marshal(map[string]any{
		"user_id": userID,
		"event":   eventName,
		"payload": json.RawMessage(payload),
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook endpoint returned status %d", resp.StatusCode)
	}
	return nil
}
