package observability

import "sync"

// NoOpObserver discards every operation.
type NoOpObserver struct{}

// ObserveOperation does nothing.
func (n *NoOpObserver) ObserveOperation(ctx OperationContext) {}

// NewNoOpObserver creates a new NoOpObserver.
func NewNoOpObserver() Observer {
	return &NoOpObserver{}
}

type multiObserver []Observer

func (m multiObserver) ObserveOperation(ctx OperationContext) {
	for _, o := range m {
		o.ObserveOperation(ctx)
	}
}

// Multi fans every operation out to all non-nil observers, in order.
func Multi(observers ...Observer) Observer {
	out := make(multiObserver, 0, len(observers))
	for _, o := range observers {
		if o != nil {
			out = append(out, o)
		}
	}
	return out
}

// Recorder keeps every observed operation in memory. It is mainly useful in
// tests and in short-lived tools that print a summary at exit.
type Recorder struct {
	mu  sync.Mutex
	ops []OperationContext
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// ObserveOperation records ctx.
func (r *Recorder) ObserveOperation(ctx OperationContext) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops = append(r.ops, ctx)
}

// Operations returns a copy of the recorded operations in arrival order.
func (r *Recorder) Operations() []OperationContext {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]OperationContext, len(r.ops))
	copy(out, r.ops)
	return out
}

// Count returns how many recorded operations have the given name.
func (r *Recorder) Count(operation string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, op := range r.ops {
		if op.Operation == operation {
			n++
		}
	}
	return n
}
