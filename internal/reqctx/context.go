package reqctx

import "context"

type ctxKey string

const (
	keyRID    ctxKey = "req_rid"
	keyItemID ctxKey = "req_item_id"
)

// WithRID stores a correlation id for assistant logs.
func WithRID(ctx context.Context, rid string) context.Context {
	return context.WithValue(ctx, keyRID, rid)
}

// RID returns the correlation id if present.
func RID(ctx context.Context) string {
	v, _ := ctx.Value(keyRID).(string)
	return v
}

// WithItemID stores the item id for assistant logs.
func WithItemID(ctx context.Context, id uint64) context.Context {
	return context.WithValue(ctx, keyItemID, id)
}

// ItemID returns the item id if present.
func ItemID(ctx context.Context) uint64 {
	v, _ := ctx.Value(keyItemID).(uint64)
	return v
}
