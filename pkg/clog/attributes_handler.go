package clog

import (
	"context"
	"log/slog"
	"sort"
)

// AttributesHandler decorates another slog.Handler so that every record
// logged with a ContextWithSlog context also carries the attribute bag
// accumulated on that context. Attributes are emitted in key order to keep
// log lines stable across runs.
type AttributesHandler struct {
	next slog.Handler
}

var _ slog.Handler = (*AttributesHandler)(nil)

func NewAttributesHandler(next slog.Handler) *AttributesHandler {
	return &AttributesHandler{next: next}
}

func (h *AttributesHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *AttributesHandler) Handle(ctx context.Context, record slog.Record) error {
	bag := GetAttributes(ctx)
	if len(bag) == 0 {
		return h.next.Handle(ctx, record)
	}

	keys := make([]string, 0, len(bag))
	for k := range bag {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	record = record.Clone()
	for _, k := range keys {
		record.AddAttrs(slog.Any(k, bag[k]))
	}
	return h.next.Handle(ctx, record)
}

func (h *AttributesHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &AttributesHandler{next: h.next.WithAttrs(attrs)}
}

func (h *AttributesHandler) WithGroup(name string) slog.Handler {
	return &AttributesHandler{next: h.next.WithGroup(name)}
}
