package listener

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/fekuna/omnipos-inventory-service/internal/webhook"
	"github.com/fekuna/omnipos-inventory-service/internal/webhook/dto"
	"github.com/fekuna/omnipos-inventory-service/pkg/logger"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

// SaleListener consumes sale events relayed from POS providers onto Kafka.
type SaleListener struct {
	consumer MessageReader
	uc       webhook.UseCase
	logger   logger.ZapLogger
}

func NewSaleListener(consumer MessageReader, uc webhook.UseCase, log logger.ZapLogger) *SaleListener {
	return &SaleListener{
		consumer: consumer,
		uc:       uc,
		logger:   log,
	}
}

type SaleEvent struct {
	EventID   string          `json:"event_id"`
	EventType string          `json:"event_type"`
	Source    string          `json:"source"`
	Payload   dto.SalePayload `json:"payload"`
	Timestamp time.Time       `json:"timestamp"`
}

const eventTypeSaleCreated = "pos.sale.created"

func (l *SaleListener) Start(ctx context.Context) {
	l.logger.Info("Starting sale listener...")

	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Stopping sale listener...")
			return
		default:
			msg, err := l.consumer.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("Failed to read message", zap.Error(err))
				time.Sleep(1 * time.Second)
				continue
			}

			l.processMessage(ctx, msg)
		}
	}
}

func (l *SaleListener) processMessage(ctx context.Context, msg kafka.Message) {
	var event SaleEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		l.logger.Error("Failed to unmarshal event", zap.Error(err))
		return
	}

	if event.EventType != eventTypeSaleCreated {
		return
	}

	tag := event.Source
	if tag == "" {
		tag = event.Payload.Source
	}
	if tag == "" {
		tag = "webhook"
	}
	source := model.ClassifySource(tag)

	result, err := l.uc.Ingest(ctx, &event.Payload, source)
	if err != nil {
		l.logger.Error("Failed to ingest sale event",
			zap.String("event_id", event.EventID),
			zap.String("integration_id", event.Payload.IntegrationID),
			zap.Error(err),
		)
		return
	}

	l.logger.Info("Ingested sale event",
		zap.String("event_id", event.EventID),
		zap.String("source", string(source)),
		zap.Int("processed", result.Processed),
		zap.Int("errors", result.Errors),
	)
}
