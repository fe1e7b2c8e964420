package httpcontext

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/valyala/fasthttp"

	"github.com/taskkeeper/backend/pkg/logger"
)

// Key namespaces the request metadata stored on the derived context.
type Key string

const (
	KeyRemoteAddr Key = "remote_addr"
	KeyUserAgent  Key = "user_agent"
)

const requestIDHeader = "X-Request-ID"

// Adapter derives a deadline-bound stdlib context from a fasthttp request so
// the store and auth layers can honor cancellation. Every derived context
// carries a request id, which is also echoed on the response.
type Adapter struct {
	timeout time.Duration
}

func NewAdapter(timeout time.Duration) *Adapter {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Adapter{timeout: timeout}
}

// Attach returns the request-scoped context and its cancel func. Callers must
// defer the cancel.
func (a *Adapter) Attach(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	stdCtx, cancel := context.WithTimeout(context.Background(), a.timeout)

	id := requestID(ctx)
	stdCtx = logger.ContextWithRequestID(stdCtx, id)

	if ctx == nil {
		return stdCtx, cancel
	}
	ctx.Response.Header.Set(requestIDHeader, id)

	if addr := ctx.RemoteAddr(); addr != nil {
		stdCtx = context.WithValue(stdCtx, KeyRemoteAddr, addr.String())
	}
	if ua := string(ctx.Request.Header.UserAgent()); ua != "" {
		stdCtx = context.WithValue(stdCtx, KeyUserAgent, ua)
	}
	return stdCtx, cancel
}

// requestID honors a caller-supplied X-Request-ID so a client can correlate
// its own traces; otherwise a fresh uuid is minted.
func requestID(ctx *fasthttp.RequestCtx) string {
	if ctx != nil {
		if id := strings.TrimSpace(string(ctx.Request.Header.Peek(requestIDHeader))); id != "" {
			return id
		}
	}
	return uuid.NewString()
}
