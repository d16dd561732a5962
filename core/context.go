package core

import "context"

// Context keys for execution options
type contextKey string

const readOnlyKey contextKey = "readOnly"

// withReadOnly marks the context so that snapshots are not saved.
func withReadOnly(ctx context.Context) context.Context {
	return context.WithValue(ctx, readOnlyKey, true)
}

// isReadOnly returns whether snapshots should be left unsaved.
func isReadOnly(ctx context.Context) bool {
	val := ctx.Value(readOnlyKey)
	if val == nil {
		return false // default: save
	}
	readOnly, ok := val.(bool)
	return ok && readOnly
}
