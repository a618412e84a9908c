package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/fieldmap/internal/core/domain"
)

// SubjectRecordSaved carries domain.RecordSaved events.
const SubjectRecordSaved = "fieldmap.records.saved"

// Publisher implements ports.EventPublisher using NATS JetStream.
type Publisher struct {
	js nats.JetStreamContext
}

// NewPublisher ensures the record events stream exists.
func NewPublisher(js nats.JetStreamContext) (*Publisher, error) {
	cfg := nats.StreamConfig{
		Name:      "FIELDMAP_RECORDS",
		Subjects:  []string{"fieldmap.records.>"},
		Retention: nats.InterestPolicy,
		MaxAge:    24 * time.Hour,
		Storage:   nats.FileStorage,
	}
	if _, err := js.AddStream(&cfg); err != nil {
		// Stream may already exist — try update
		if _, err := js.UpdateStream(&cfg); err != nil {
			return nil, fmt.Errorf("ensure stream %s: %w", cfg.Name, err)
		}
	}
	return &Publisher{js: js}, nil
}

func (p *Publisher) PublishRecordSaved(ctx context.Context, event *domain.RecordSaved) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	_, err = p.js.Publish(SubjectRecordSaved, data, nats.Context(ctx))
	return err
}
