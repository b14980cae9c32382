package workers

import (
	"context"
	"log/slog"

	application "adpilot/contexts/campaign-automation/campaign-wizard/application"
	"adpilot/contexts/campaign-automation/campaign-wizard/ports"
)

const launchedTopic = "wizard.campaign_launched"

// WebhookDispatcher consumes terminal launch events from the bus and
// forwards them to the webhook sink. Delivery failures are logged here and
// never travel back to the launch caller.
type WebhookDispatcher struct {
	Subscriber ports.EventSubscriber
	Sink       ports.WebhookSink
	Group      string
	Logger     *slog.Logger
}

func (d WebhookDispatcher) Start(ctx context.Context) error {
	logger := application.ResolveLogger(d.Logger)
	group := d.Group
	if group == "" {
		group = "wizard-webhooks"
	}
	return d.Subscriber.Subscribe(ctx, launchedTopic, group, func(ctx context.Context, event ports.EventEnvelope) error {
		if err := d.Sink.Notify(ctx, event.UserID, event.EventType, event.Data); err != nil {
			logger.Error("webhook delivery failed",
				"event", "wizard_webhook_delivery_failed",
				"module", "campaign-automation/campaign-wizard",
				"layer", "worker",
				"event_id", event.EventID,
				"user_id", event.UserID,
				"error", err.Error(),
			)
			return err
		}
		logger.Info("webhook delivered",
			"event", "wizard_webhook_delivered",
			"module", "campaign-automation/campaign-wizard",
			"layer", "worker",
			"event_id", event.EventID,
			"user_id", event.UserID,
		)
		return nil
	})
}
