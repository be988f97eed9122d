package reqmeta

import (
	"context"
	"log/slog"
)

type RequestMetadata struct {
	RequestID string
	HTTPMetadata
}

type HTTPMetadata struct {
	Method *string
	URL    *string
}

type Option func(*RequestMetadata)

func NewRequestMetadata(requestID string, options ...Option) *RequestMetadata {
	rm := &RequestMetadata{
		RequestID: requestID,
	}

	for _, option := range options {
		option(rm)
	}

	return rm
}

func WithHTTPMetadata(hmd HTTPMetadata) Option {
	return func(rm *RequestMetadata) {
		rm.HTTPMetadata = hmd
	}
}

type requestMetadataKey struct{}

func NewContext(ctx context.Context, rm *RequestMetadata) context.Context {
	return context.WithValue(ctx, requestMetadataKey{}, rm)
}

func FromContext(ctx context.Context) (*RequestMetadata, bool) {
	rm, ok := ctx.Value(requestMetadataKey{}).(*RequestMetadata)
	return rm, ok && rm != nil
}

// Logger returns the default logger annotated with the request id carried by
// ctx, if any.
func Logger(ctx context.Context) *slog.Logger {
	rm, ok := FromContext(ctx)
	if !ok {
		return slog.Default()
	}

	attrs := []any{"request_id", rm.RequestID}
	if rm.Method != nil {
		attrs = append(attrs, "method", *rm.Method)
	}
	if rm.URL != nil {
		attrs = append(attrs, "url", *rm.URL)
	}
	return slog.Default().With(attrs...)
}
