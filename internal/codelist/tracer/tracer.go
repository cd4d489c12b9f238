// Package tracer provides a lightweight tracing abstraction for the reference data store.
//
// The store emits spans through this interface instead of the OpenTelemetry API
// so tests can run with NoopTracer and production can plug in OTelTracer.
package tracer

import (
	"context"
	"time"
)

// Span represents an active trace span.
type Span interface {
	// End completes the span. A non-nil err marks it failed.
	// End must be called exactly once, typically via defer.
	End(err error)

	SetAttributes(attrs ...Attribute)

	AddEvent(name string, attrs ...Attribute)
}

// Tracer creates spans. Implementations must be safe for concurrent use.
type Tracer interface {
	// Start creates a new span with the given name and attributes.
	// The returned context carries the span for child operations.
	//
	//   ctx, span := tracer.Start(ctx, tracer.SpanFetchRound,
	//       tracer.String(tracer.AttrTrigger, "startup"),
	//   )
	//   defer span.End(nil)
	Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span)
}

// Attribute represents a key-value pair attached to spans.
type Attribute struct {
	Key   string
	Value any
}

func String(key, value string) Attribute {
	return Attribute{Key: key, Value: value}
}

func Bool(key string, value bool) Attribute {
	return Attribute{Key: key, Value: value}
}

func Int64(key string, value int64) Attribute {
	return Attribute{Key: key, Value: value}
}

func Int(key string, value int) Attribute {
	return Attribute{Key: key, Value: int64(value)}
}

// Duration creates a duration attribute in milliseconds.
func Duration(key string, value time.Duration) Attribute {
	return Attribute{Key: key, Value: value.Milliseconds()}
}

// Span names.
const (
	SpanFetchRound  = "codelist.fetch"
	SpanFetchSource = "codelist.fetch.source"
	SpanFetchJoin   = "codelist.fetch.join"
	SpanMirrorWrite = "codelist.mirror.publish"
)

// Attribute keys.
const (
	AttrTrigger    = "codelist.trigger"
	AttrGeneration = "codelist.generation"
	AttrRefresh    = "codelist.refresh"
	AttrSource     = "codelist.source"
	AttrEntries    = "codelist.entries"
	AttrStale      = "codelist.stale"
	AttrCategory   = "codelist.error_category"
	AttrFailed     = "codelist.failed_sources"
)

// Event names.
const (
	EventInstalled = "codelist.installed"
	EventDeduped   = "codelist.deduped"
)
