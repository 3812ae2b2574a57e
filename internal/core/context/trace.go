// Package context carries request-scoped metadata used for log correlation.
package context

import (
	"context"

	"github.com/google/uuid"
)

// Source identifies what started the unit of work.
type Source string

const (
	SourceHTTP Source = "http"
	SourceCLI  Source = "cli"
)

// TraceContext contains request tracing information.
type TraceContext struct {
	TraceID   string
	RequestID string
	Source    Source
}

type traceContextKey struct{}

// WithTrace adds TraceContext to context.
func WithTrace(ctx context.Context, trace *TraceContext) context.Context {
	return context.WithValue(ctx, traceContextKey{}, trace)
}

// GetTrace returns TraceContext from context.
func GetTrace(ctx context.Context) *TraceContext {
	if v, ok := ctx.Value(traceContextKey{}).(*TraceContext); ok {
		return v
	}
	return nil
}

// GetRequestID returns request ID from context or empty string.
func GetRequestID(ctx context.Context) string {
	if t := GetTrace(ctx); t != nil {
		return t.RequestID
	}
	return ""
}

// NewTraceContext creates a TraceContext, generating any id left empty.
func NewTraceContext(source Source, traceID, requestID string) *TraceContext {
	if traceID == "" {
		traceID = uuid.NewString()
	}
	if requestID == "" {
		requestID = uuid.NewString()
	}
	return &TraceContext{
		TraceID:   traceID,
		RequestID: requestID,
		Source:    source,
	}
}
