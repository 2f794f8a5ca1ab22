package notify

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Notifier is the downstream-notification collaborator. Every call is
// fire-and-forget: implementations must not block the caller and must
// swallow their own failures.
type Notifier interface {
	StockLow(ctx context.Context, items []LowStockItem)
	TargetReached(ctx context.Context, date string, total, target float64)
	SyncComplete(ctx context.Context, userID string, count int)
}

// Kafka publishes notification events through the async producer.
type Kafka struct {
	Producer *Producer
	Station  string
}

func (k *Kafka) publish(topic, eventType string, payload any) {
	ev := Envelope{
		EventID:      uuid.NewString(),
		EventType:    eventType,
		EventVersion: 1,
		OccurredAt:   time.Now().UTC(),
		Producer:     k.Station,
	}
	ev.Payload = MustMarshal(payload)
	k.Producer.Publish(topic, []byte(k.Station), MustMarshal(ev))
}

func (k *Kafka) StockLow(_ context.Context, items []LowStockItem) {
	if len(items) == 0 {
		return
	}
	k.publish(TopicStockLow, EventStockLow, StockLowPayload{Items: items})
}

func (k *Kafka) TargetReached(_ context.Context, date string, total, target float64) {
	k.publish(TopicTargetReached, EventTargetReached, TargetReachedPayload{Date: date, Total: total, Target: target})
}

func (k *Kafka) SyncComplete(_ context.Context, userID string, count int) {
	k.publish(TopicSyncCompleted, EventSyncCompleted, SyncCompletedPayload{UserID: userID, Count: count})
}

// Nop is used when no brokers are configured.
type Nop struct{}

func (Nop) StockLow(context.Context, []LowStockItem)                {}
func (Nop) TargetReached(context.Context, string, float64, float64) {}
func (Nop) SyncComplete(context.Context, string, int)               {}
