package notifications

import (
	"context"
	"fmt"
	"roombook/pkg/kafka"
	"roombook/pkg/logger"
)

// NewMessageHandler decodes notification events from Kafka and hands the rendered
// mails to mailer. Undecodable or unknown events are permanent failures and go to
// the DLQ; mailer errors are transient and retried by the consumer.
func NewMessageHandler(mailer Mailer, log *logger.Logger) kafka.MessageHandler {
	return func(ctx context.Context, msg kafka.Message) error {
		var ev Event
		if err := msg.DecodeValue(&ev); err != nil {
			return kafka.NewPermanentError("deserialization failed", err)
		}

		mails, err := Render(ev)
		if err != nil {
			return kafka.NewPermanentError("invalid message", err)
		}

		for _, mail := range mails {
			if len(mail.To) == 0 {
				continue
			}
			if err := mailer.Send(ctx, mail); err != nil {
				return kafka.NewTransientError(fmt.Sprintf("failed to send %s mail", ev.Kind), err)
			}
		}

		log.Debug("Notification delivered",
			"event_id", ev.ID,
			"kind", ev.Kind,
			"meeting_id", ev.Meeting.ID,
			"mails", len(mails),
		)
		return nil
	}
}
