package tracing

import (
	"context"
	"fmt"

	"github.com/ccloudinthesky/journee/util/values"
)

// Context carries the identifiers that tie log lines to a single request.
type Context struct {
	RequestID     string
	RequestSource string
}

func (c Context) String() string {
	return fmt.Sprintf("request_id=%s source=%s", c.RequestID, c.RequestSource)
}

// FromContext returns the tracing context stored by the request middleware,
// or an empty one when the request did not pass through it.
func FromContext(ctx context.Context) Context {
	tc, _ := ctx.Value(values.ContextTracingKey).(Context)
	return tc
}
