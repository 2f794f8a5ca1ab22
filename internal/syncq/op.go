package syncq

import (
	"encoding/json"
	"time"
)

type Kind string

const (
	KindSale          Kind = "sale"
	KindProductCreate Kind = "product_create"
	KindProductUpdate Kind = "product_update"
	KindProductDelete Kind = "product_delete"
)

// Op is one mutation captured while the register was offline. It lives in
// the durable queue until the remote store confirms it.
type Op struct {
	Seq        uint64          `json:"seq"`
	ID         string          `json:"id"`
	Kind       Kind            `json:"kind"`
	Payload    json.RawMessage `json:"payload"`
	EnqueuedAt time.Time       `json:"enqueued_at"`
	Attempts   int             `json:"attempts"`
}
