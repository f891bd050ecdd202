package fetch

import (
	"context"
	"sync"
	"time"

	"github.com/chemviz/chemviz/src/logging"
)

// Phase is the lifecycle of one dataset view.
type Phase int

const (
	Idle Phase = iota
	Loading
	Ready
	Failed
)

func (p Phase) String() string {
	switch p {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	}
	return "idle"
}

// Snapshot is the state published to front-ends.
type Snapshot struct {
	DatasetID  string
	Generation uint64
	Phase      Phase
	Dataset    Dataset
	Err        error
}

// Orchestrator runs Join for the most recently opened dataset. Each Open bumps the
// generation; results carrying an older generation are dropped.
type Orchestrator struct {
	src   Source
	floor time.Duration

	mu       sync.Mutex
	gen      uint64
	snap     Snapshot
	cancel   context.CancelFunc
	settled  chan struct{}
	onChange func(Snapshot)

	// deliver serializes OnChange calls so a superseded snapshot is never delivered after
	// a newer one.
	deliver sync.Mutex
	// afterSettle runs between applying a result and delivering it (tests only).
	afterSettle func(gen uint64)
}

// NewOrchestrator builds an orchestrator. A negative floor is treated as zero.
func NewOrchestrator(src Source, floor time.Duration) *Orchestrator {
	if floor < 0 {
		floor = 0
	}
	return &Orchestrator{src: src, floor: floor}
}

// OnChange registers fn for every applied snapshot that is still current when delivered.
// fn runs on the goroutine that applied it, one call at a time; UI front-ends must marshal
// to their own thread. fn must not call Open.
func (o *Orchestrator) OnChange(fn func(Snapshot)) {
	o.mu.Lock()
	o.onChange = fn
	o.mu.Unlock()
}

// Snapshot returns the current state.
func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.snap
}

// Open starts loading id and returns the new generation. Any in-flight load is cancelled
// and its result will be discarded.
func (o *Orchestrator) Open(ctx context.Context, id string) uint64 {
	o.mu.Lock()
	if o.cancel != nil {
		o.cancel()
	}
	if o.settled != nil {
		close(o.settled)
	}
	o.gen++
	gen := o.gen
	runCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel
	o.settled = make(chan struct{})
	o.snap = Snapshot{DatasetID: id, Generation: gen, Phase: Loading}
	o.mu.Unlock()

	logging.Debugf("[fetch] open dataset=%s gen=%d", id, gen)
	o.publish(gen)
	go o.run(runCtx, cancel, id, gen)
	return gen
}

func (o *Orchestrator) run(ctx context.Context, cancel context.CancelFunc, id string, gen uint64) {
	defer cancel()
	ds, err := Join(ctx, o.src, id, o.floor)

	o.mu.Lock()
	if gen != o.gen {
		o.mu.Unlock()
		logging.Debugf("[fetch] discard stale result dataset=%s gen=%d", id, gen)
		return
	}
	if err != nil {
		o.snap = Snapshot{DatasetID: id, Generation: gen, Phase: Failed, Err: err}
		logging.Warnf("[fetch] dataset=%s failed: %v", id, err)
	} else {
		o.snap = Snapshot{DatasetID: id, Generation: gen, Phase: Ready, Dataset: ds}
		logging.Infof("[fetch] dataset=%s ready records=%d", id, len(ds.Records))
	}
	close(o.settled)
	o.settled = nil
	o.cancel = nil
	hook := o.afterSettle
	o.mu.Unlock()
	if hook != nil {
		hook(gen)
	}
	o.publish(gen)
}

// publish hands the current snapshot to OnChange if gen is still the newest generation.
func (o *Orchestrator) publish(gen uint64) {
	o.deliver.Lock()
	defer o.deliver.Unlock()
	o.mu.Lock()
	snap, fn := o.snap, o.onChange
	o.mu.Unlock()
	if snap.Generation != gen {
		logging.Debugf("[fetch] drop superseded snapshot gen=%d (current %d)", gen, snap.Generation)
		return
	}
	if fn != nil {
		fn(snap)
	}
}

// Wait blocks until generation gen has settled or been superseded, then returns the
// current snapshot.
func (o *Orchestrator) Wait(ctx context.Context, gen uint64) (Snapshot, error) {
	o.mu.Lock()
	if gen != o.gen || o.settled == nil {
		s := o.snap
		o.mu.Unlock()
		return s, nil
	}
	ch := o.settled
	o.mu.Unlock()
	select {
	case <-ch:
		return o.Snapshot(), nil
	case <-ctx.Done():
		return o.Snapshot(), ctx.Err()
	}
}
