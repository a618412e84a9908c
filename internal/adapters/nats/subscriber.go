package natsadapter

import (
	"context"
	"encoding/json"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/fieldmap/internal/core/domain"
)

// Subscriber implements ports.EventSubscriber using NATS JetStream.
type Subscriber struct {
	js      nats.JetStreamContext
	durable string
	subs    []*nats.Subscription
}

// NewSubscriber creates a subscriber. An empty durable name gives an
// ephemeral consumer that only sees new events.
func NewSubscriber(js nats.JetStreamContext, durable string) *Subscriber {
	return &Subscriber{js: js, durable: durable}
}

func (s *Subscriber) SubscribeRecordSaved(ctx context.Context, handler func(ctx context.Context, event *domain.RecordSaved) error) error {
	opts := []nats.SubOpt{nats.ManualAck(), nats.MaxDeliver(3)}
	if s.durable != "" {
		opts = append(opts, nats.Durable(s.durable))
	} else {
		opts = append(opts, nats.DeliverNew())
	}

	sub, err := s.js.Subscribe(SubjectRecordSaved, func(msg *nats.Msg) {
		var event domain.RecordSaved
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			// Redelivery will not fix a bad payload.
			_ = msg.Term()
			return
		}
		if err := handler(ctx, &event); err != nil {
			_ = msg.Nak()
			return
		}
		_ = msg.Ack()
	}, opts...)
	if err != nil {
		return err
	}
	s.subs = append(s.subs, sub)
	return nil
}

// Close unsubscribes all consumers.
func (s *Subscriber) Close() {
	for _, sub := range s.subs {
		_ = sub.Unsubscribe()
	}
}
