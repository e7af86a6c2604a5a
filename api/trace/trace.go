// Package trace carries per-request correlation data through a context.
package trace

import (
	"context"
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"

	"anime-news/config"
)

type ctxKey struct{}

// Trace 는 요청 하나의 상관관계 정보다.
// span 은 같은 요청 안의 하위 작업(스토어 호출, 이벤트 발행)마다 1씩 증가한다.
type Trace struct {
	RequestID string
	visitorID atomic.Value
	span      atomic.Int64
}

// NewID returns a random trace id.
func NewID() string { return uuid.NewString() }

// Start stores a fresh Trace for requestID in ctx. An empty requestID gets a new id.
func Start(ctx context.Context, requestID string) (context.Context, *Trace) {
	if requestID == "" {
		requestID = NewID()
	}
	t := &Trace{RequestID: requestID}
	return context.WithValue(ctx, ctxKey{}, t), t
}

// FromContext returns the request's Trace, or nil outside a traced request.
func FromContext(ctx context.Context) *Trace {
	if ctx == nil {
		return nil
	}
	t, _ := ctx.Value(ctxKey{}).(*Trace)
	return t
}

// Span is the current span id without advancing it.
func (t *Trace) Span() string {
	if t == nil {
		return "0"
	}
	return strconv.FormatInt(t.span.Load(), 10)
}

// NextSpan advances and returns the span id.
func (t *Trace) NextSpan() string {
	if t == nil {
		return "1"
	}
	return strconv.FormatInt(t.span.Add(1), 10)
}

func (t *Trace) SetVisitor(id string) {
	if t != nil {
		t.visitorID.Store(id)
	}
}

func (t *Trace) Visitor() string {
	if t == nil {
		return ""
	}
	v, _ := t.visitorID.Load().(string)
	return v
}

// Fields are the log fields identifying the request in ctx.
func Fields(ctx context.Context) config.Fields {
	t := FromContext(ctx)
	if t == nil {
		return config.Fields{}
	}
	f := config.Fields{"request_id": t.RequestID, "span_id": t.Span()}
	if v := t.Visitor(); v != "" {
		f["visitor_id"] = v
	}
	return f
}
