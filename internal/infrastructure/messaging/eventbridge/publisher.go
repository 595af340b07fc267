package eventbridge

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/novacaap/java-sample-docker/internal/domain"
	"github.com/novacaap/java-sample-docker/internal/ports"
)

// DefaultSource is the EventBridge source attached to item events.
const DefaultSource = "sample-api.items"

// EventBridge limits PutEvents to 10 entries per call.
const maxBatchSize = 10

// PutEventsAPI is the subset of the EventBridge client the publisher calls.
type PutEventsAPI interface {
	PutEvents(ctx context.Context, params *eventbridge.PutEventsInput, optFns ...func(*eventbridge.Options)) (*eventbridge.PutEventsOutput, error)
}

// Publisher implements ports.EventPublisher using AWS EventBridge.
type Publisher struct {
	client       PutEventsAPI
	eventBusName string
	source       string
	logger       *zap.Logger
}

var _ ports.EventPublisher = (*Publisher)(nil)

// NewPublisher creates a new EventBridge publisher. An empty source falls
// back to DefaultSource.
func NewPublisher(client PutEventsAPI, eventBusName, source string, logger *zap.Logger) *Publisher {
	if source == "" {
		source = DefaultSource
	}
	return &Publisher{
		client:       client,
		eventBusName: eventBusName,
		source:       source,
		logger:       logger,
	}
}

// Publish sends a single event to EventBridge
func (p *Publisher) Publish(ctx context.Context, event domain.ItemEvent) error {
	return p.PublishBatch(ctx, []domain.ItemEvent{event})
}

// PublishBatch sends events in chunks of at most ten.
func (p *Publisher) PublishBatch(ctx context.Context, events []domain.ItemEvent) error {
	for _, chunk := range lo.Chunk(events, maxBatchSize) {
		if err := p.publishBatch(ctx, chunk); err != nil {
			return err
		}
	}
	return nil
}

func (p *Publisher) publishBatch(ctx context.Context, events []domain.ItemEvent) error {
	entries := make([]types.PutEventsRequestEntry, 0, len(events))
	for _, event := range events {
		detail, err := json.Marshal(event)
		if err != nil {
			return fmt.Errorf("failed to marshal %s event: %w", event.Type, err)
		}

		entries = append(entries, types.PutEventsRequestEntry{
			EventBusName: aws.String(p.eventBusName),
			Source:       aws.String(p.source),
			DetailType:   aws.String(event.Type),
			Detail:       aws.String(string(detail)),
			Time:         aws.Time(event.OccurredAt),
			Resources:    []string{fmt.Sprintf("item/%d", event.ItemID)},
		})
	}

	result, err := p.client.PutEvents(ctx, &eventbridge.PutEventsInput{Entries: entries})
	if err != nil {
		return fmt.Errorf("failed to publish events to EventBridge: %w", err)
	}

	if result.FailedEntryCount > 0 {
		for i, entry := range result.Entries {
			if entry.ErrorCode != nil {
				p.logger.Error("Failed to publish event",
					zap.String("eventType", events[i].Type),
					zap.Int64("itemId", int64(events[i].ItemID)),
					zap.String("errorCode", aws.ToString(entry.ErrorCode)),
					zap.String("errorMessage", aws.ToString(entry.ErrorMessage)),
				)
			}
		}
		return fmt.Errorf("%d events failed to publish", result.FailedEntryCount)
	}

	p.logger.Debug("Events published to EventBridge",
		zap.Int("count", len(entries)),
		zap.String("eventBus", p.eventBusName),
	)
	return nil
}
