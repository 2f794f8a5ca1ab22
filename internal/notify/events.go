package notify

import (
	"encoding/json"
	"time"
)

const (
	TopicStockLow      = "pos.stock.low"
	TopicTargetReached = "pos.target.reached"
	TopicSyncCompleted = "pos.sync.completed"
)

const (
	EventStockLow      = "StockLow"
	EventTargetReached = "DailyTargetReached"
	EventSyncCompleted = "SyncCompleted"
)

type Envelope struct {
	EventID      string          `json:"event_id"`
	EventType    string          `json:"event_type"`
	EventVersion int             `json:"event_version"`
	OccurredAt   time.Time       `json:"occurred_at"`
	Producer     string          `json:"producer"` // station id
	Payload      json.RawMessage `json:"payload"`
}

type LowStockItem struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Stock     int    `json:"stock"`
	Threshold int    `json:"threshold"`
}

type StockLowPayload struct {
	Items []LowStockItem `json:"items"`
}

type TargetReachedPayload struct {
	Date   string  `json:"date"`
	Total  float64 `json:"total"`
	Target float64 `json:"target"`
}

type SyncCompletedPayload struct {
	UserID string `json:"user_id"`
	Count  int    `json:"count"`
}
