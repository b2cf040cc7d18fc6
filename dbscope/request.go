package dbscope

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
)

// owner is the descriptor a Request was created against.
type owner interface {
	// prepare connects the pool and, for transactions, begins the
	// transaction, returning the executor to run statements on.
	prepare(ctx context.Context) (Executor, error)

	// forget stops tracking r.
	forget(r *Request)

	manager() *Manager
	resource() string
}

// Request is one query execution unit bound to a pool or to a transaction.
// Physical connection and transaction start are deferred until the first
// Query or Exec. A Request may run several statements; it is safe for
// concurrent use.
type Request struct {
	owner owner

	mu       sync.Mutex
	canceled bool
	nextID   uint64
	inflight map[uint64]context.CancelFunc
	running  sync.WaitGroup
}

func newRequest(o owner) *Request {
	return &Request{
		owner:    o,
		inflight: make(map[uint64]context.CancelFunc),
	}
}

// Query connects (and begins) as needed, then runs a statement returning rows.
// Driver errors are returned unchanged.
func (r *Request) Query(ctx context.Context, query string, args ...any) (*Result, error) {
	var res *Result
	err := r.run(ctx, "query", func(ctx context.Context, ex Executor) (int64, error) {
		var err error
		res, err = ex.Query(ctx, query, args...)
		return int64(res.Len()), err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Exec connects (and begins) as needed, then runs a statement and returns the
// number of rows affected. Driver errors are returned unchanged.
func (r *Request) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	var affected int64
	err := r.run(ctx, "exec", func(ctx context.Context, ex Executor) (int64, error) {
		var err error
		affected, err = ex.Exec(ctx, query, args...)
		return affected, err
	})
	return affected, err
}

// Cancel aborts every in-flight statement of the request and stops tracking
// it. Later executions fail with ErrRequestCanceled. Cancel never fails.
func (r *Request) Cancel() {
	start := time.Now()
	n := r.abort()
	r.owner.forget(r)
	r.owner.manager().observe("cancel", r.owner.resource(), "", time.Since(start), nil, int64(n))
}

// Canceled reports whether the request was canceled, explicitly or by the
// teardown of its pool or transaction.
func (r *Request) Canceled() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.canceled
}

func (r *Request) run(ctx context.Context, operation string, fn func(context.Context, Executor) (int64, error)) error {
	ctx, done, err := r.track(ctx)
	if err != nil {
		return err
	}
	defer done()

	m := r.owner.manager()
	start := time.Now()
	ctx, span := m.startSpan(ctx, operation, r.owner.resource(), attribute.String("db.operation", operation))

	var size int64
	ex, err := r.owner.prepare(ctx)
	if err == nil {
		size, err = fn(ctx, ex)
	}

	endSpan(span, err)
	m.observe(operation, r.owner.resource(), "", time.Since(start), err, size)
	return err
}

// track registers one execution and derives the context that Cancel aborts.
func (r *Request) track(ctx context.Context) (context.Context, func(), error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.canceled {
		return nil, nil, ErrRequestCanceled
	}

	ctx, cancel := context.WithCancel(ctx)
	id := r.nextID
	r.nextID++
	r.inflight[id] = cancel
	r.running.Add(1)

	return ctx, func() {
		r.mu.Lock()
		delete(r.inflight, id)
		r.mu.Unlock()
		cancel()
		r.running.Done()
	}, nil
}

// abort marks the request canceled and cancels in-flight executions. It
// returns how many executions were running.
func (r *Request) abort() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.canceled = true
	for _, cancel := range r.inflight {
		cancel()
	}
	return len(r.inflight)
}

// wait blocks until every in-flight execution has returned. Only valid after
// abort, which guarantees no new execution starts.
func (r *Request) wait() {
	r.running.Wait()
}

// requestSet is the set of outstanding requests owned by one descriptor.
type requestSet struct {
	mu    sync.Mutex
	items map[*Request]struct{}
}

func newRequestSet() *requestSet {
	return &requestSet{items: make(map[*Request]struct{})}
}

func (s *requestSet) add(r *Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[r] = struct{}{}
}

func (s *requestSet) remove(r *Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, r)
}

func (s *requestSet) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *requestSet) snapshot() []*Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Request, 0, len(s.items))
	for r := range s.items {
		out = append(out, r)
	}
	return out
}

func (s *requestSet) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = make(map[*Request]struct{})
}

// cancelAll cancels every tracked request, then waits for their in-flight
// executions to return so the resource can be finalized. Order is irrelevant.
func (s *requestSet) cancelAll() int {
	reqs := s.snapshot()
	for _, r := range reqs {
		r.abort()
	}
	for _, r := range reqs {
		r.wait()
	}
	return len(reqs)
}
