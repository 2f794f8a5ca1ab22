package redisx

import "time"

const (
	// Replay dedup for queued ops: dedup:op:{op_id} -> 1
	KeyOpDedup = "dedup:op:%s"

	// Last successful catalog refresh per station: catalog:stamp:{station}
	KeyCatalogStamp = "catalog:stamp:%s"
)

var (
	TTLOpDedup      = 48 * time.Hour
	TTLCatalogStamp = 24 * time.Hour
)
