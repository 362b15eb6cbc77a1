package companion

import (
	"context"
	"fmt"
	"net/http"

	"go.opentelemetry.io/otel/trace"
)

// injectTraceparent propagates an active OpenTelemetry span, if any, as a
// W3C traceparent header so companion can join the caller's trace. Applied
// after header filtering: trace context is transport plumbing, not part of
// the negotiated application header set.
func injectTraceparent(ctx context.Context, req *http.Request) {
	sc := trace.SpanFromContext(ctx).SpanContext()
	if !sc.IsValid() {
		return
	}
	req.Header.Set("Traceparent", fmt.Sprintf("00-%s-%s-01", sc.TraceID(), sc.SpanID()))
}
