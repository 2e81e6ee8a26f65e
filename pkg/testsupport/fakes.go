package testsupport

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/goliatone/go-courseform/pkg/course"
	"github.com/goliatone/go-courseform/pkg/gateway"
	"github.com/goliatone/go-courseform/pkg/upload"
)

const waitTimeout = 2 * time.Second

// UploadCall is one pending ScriptedTransport upload.
type UploadCall struct {
	File     upload.File
	progress func(int)
	ctx      context.Context
	done     chan uploadOutcome
}

type uploadOutcome struct {
	result upload.Result
	err    error
}

// Progress reports percent through the tracker callback.
func (c *UploadCall) Progress(percent int) {
	c.progress(percent)
}

// Succeed completes the upload with result.
func (c *UploadCall) Succeed(result upload.Result) {
	c.done <- uploadOutcome{result: result}
}

// Fail completes the upload with err.
func (c *UploadCall) Fail(err error) {
	c.done <- uploadOutcome{err: err}
}

// Cancelled reports whether the tracker cancelled the call.
func (c *UploadCall) Cancelled() bool {
	return c.ctx.Err() != nil
}

// ScriptedTransport blocks every upload until the test completes it. When
// IgnoreCancel is false a cancelled context ends the call early.
type ScriptedTransport struct {
	IgnoreCancel bool

	started chan *UploadCall
}

// NewScriptedTransport returns a transport with room for 16 queued calls.
func NewScriptedTransport() *ScriptedTransport {
	return &ScriptedTransport{started: make(chan *UploadCall, 16)}
}

// Upload implements upload.Transport.
func (s *ScriptedTransport) Upload(ctx context.Context, file upload.File, progress func(int)) (upload.Result, error) {
	call := &UploadCall{File: file, progress: progress, ctx: ctx, done: make(chan uploadOutcome, 1)}
	s.started <- call

	if s.IgnoreCancel {
		out := <-call.done
		return out.result, out.err
	}
	select {
	case out := <-call.done:
		return out.result, out.err
	case <-ctx.Done():
		return upload.Result{}, ctx.Err()
	}
}

// Next waits for the next upload to start.
func (s *ScriptedTransport) Next(t testing.TB) *UploadCall {
	t.Helper()
	select {
	case call := <-s.started:
		return call
	case <-time.After(waitTimeout):
		t.Fatalf("no upload started within %s", waitTimeout)
		return nil
	}
}

// InstantTransport reports steps and then returns result.
func InstantTransport(result upload.Result, steps ...int) upload.Transport {
	return upload.TransportFunc(func(ctx context.Context, _ upload.File, progress func(int)) (upload.Result, error) {
		for _, step := range steps {
			progress(step)
		}
		return result, ctx.Err()
	})
}

// FailingTransport always returns err.
func FailingTransport(err error) upload.Transport {
	return upload.TransportFunc(func(context.Context, upload.File, func(int)) (upload.Result, error) {
		return upload.Result{}, err
	})
}

// GatewayCall is one pending ScriptedGateway request.
type GatewayCall struct {
	Op     string
	ID     string
	Record course.Record

	ctx   context.Context
	reply chan gatewayOutcome
}

type gatewayOutcome struct {
	resp gateway.Response
	err  error
}

// Reply completes the request.
func (c *GatewayCall) Reply(resp gateway.Response, err error) {
	c.reply <- gatewayOutcome{resp: resp, err: err}
}

// ScriptedGateway blocks every request until the test replies.
type ScriptedGateway struct {
	pending chan *GatewayCall
}

// NewScriptedGateway returns a gateway with room for 16 queued calls.
func NewScriptedGateway() *ScriptedGateway {
	return &ScriptedGateway{pending: make(chan *GatewayCall, 16)}
}

var _ gateway.Gateway = (*ScriptedGateway)(nil)

// Create implements gateway.Gateway.
func (g *ScriptedGateway) Create(ctx context.Context, rec course.Record) (gateway.Response, error) {
	return g.wait(ctx, &GatewayCall{Op: "create", Record: rec})
}

// Update implements gateway.Gateway.
func (g *ScriptedGateway) Update(ctx context.Context, id string, rec course.Record) (gateway.Response, error) {
	return g.wait(ctx, &GatewayCall{Op: "update", ID: id, Record: rec})
}

// FetchByID implements gateway.Gateway.
func (g *ScriptedGateway) FetchByID(ctx context.Context, id string) (gateway.Response, error) {
	return g.wait(ctx, &GatewayCall{Op: "fetch", ID: id})
}

func (g *ScriptedGateway) wait(ctx context.Context, call *GatewayCall) (gateway.Response, error) {
	call.ctx = ctx
	call.reply = make(chan gatewayOutcome, 1)
	g.pending <- call
	select {
	case out := <-call.reply:
		return out.resp, out.err
	case <-ctx.Done():
		return gateway.Response{}, ctx.Err()
	}
}

// Next waits for the next request.
func (g *ScriptedGateway) Next(t testing.TB) *GatewayCall {
	t.Helper()
	select {
	case call := <-g.pending:
		return call
	case <-time.After(waitTimeout):
		t.Fatalf("no gateway call within %s", waitTimeout)
		return nil
	}
}

// Pending reports queued requests without waiting.
func (g *ScriptedGateway) Pending() int {
	return len(g.pending)
}

// RecordingGateway delegates to Gateway and records each operation.
type RecordingGateway struct {
	gateway.Gateway

	mu  sync.Mutex
	ops []string
}

// NewRecordingGateway wraps inner.
func NewRecordingGateway(inner gateway.Gateway) *RecordingGateway {
	return &RecordingGateway{Gateway: inner}
}

// Ops returns the operations seen so far.
func (r *RecordingGateway) Ops() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.ops...)
}

func (r *RecordingGateway) record(op string) {
	r.mu.Lock()
	r.ops = append(r.ops, op)
	r.mu.Unlock()
}

// Create implements gateway.Gateway.
func (r *RecordingGateway) Create(ctx context.Context, rec course.Record) (gateway.Response, error) {
	r.record("create")
	return r.Gateway.Create(ctx, rec)
}

// Update implements gateway.Gateway.
func (r *RecordingGateway) Update(ctx context.Context, id string, rec course.Record) (gateway.Response, error) {
	r.record("update")
	return r.Gateway.Update(ctx, id, rec)
}

// FetchByID implements gateway.Gateway.
func (r *RecordingGateway) FetchByID(ctx context.Context, id string) (gateway.Response, error) {
	r.record("fetch")
	return r.Gateway.FetchByID(ctx, id)
}
