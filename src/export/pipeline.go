// Package export downloads a dataset's generated report and saves it through an ordered
// ladder of strategies: a native save dialog when the front-end has one, then a rename
// prompt followed by a plain download into a directory.
package export

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/chemviz/chemviz/src/logging"
	"github.com/chemviz/chemviz/src/types"
)

// ErrBusy is returned when an export is triggered while another one is running.
var ErrBusy = errors.New("export already in progress")

// AlertRequestFailed is shown when the report cannot be fetched or saved.
const AlertRequestFailed = "Failed to generate PDF. Please try again."

// ReportSource fetches the generated report bytes.
type ReportSource interface {
	Report(ctx context.Context, id string) (types.Report, error)
}

// Notifier displays a blocking alert to the user.
type Notifier interface {
	Alert(msg string)
}

// State is a step of one export run.
type State int

const (
	Idle State = iota
	Requested
	BlobReceived
	StateSaved
	StateCancelled
	StateFailed
)

func (s State) String() string {
	switch s {
	case Requested:
		return "requested"
	case BlobReceived:
		return "blob-received"
	case StateSaved:
		return "saved"
	case StateCancelled:
		return "cancelled"
	case StateFailed:
		return "failed"
	}
	return "idle"
}

// Outcome summarizes a finished run. Status is Saved, Cancelled or Failed.
type Outcome struct {
	Status   Result
	Filename string
	Path     string
	Strategy string
	Err      error
}

// Pipeline runs exports one at a time.
type Pipeline struct {
	Source     ReportSource
	Strategies []Strategy
	Notifier   Notifier
	// Prefix for templated filenames; DefaultPrefix when empty.
	Prefix string
	// OnState, when set, observes every state change including the final return to Idle.
	OnState func(State)

	mu      sync.Mutex
	running bool
}

func (p *Pipeline) emit(s State) {
	if p.OnState != nil {
		p.OnState(s)
	}
}

func (p *Pipeline) alert() {
	if p.Notifier != nil {
		p.Notifier.Alert(AlertRequestFailed)
	}
}

// TriggerExport fetches the report for id and walks the strategy ladder. It returns after
// the run is complete and the pipeline is back to Idle.
func (p *Pipeline) TriggerExport(ctx context.Context, id string) Outcome {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return Outcome{Status: Failed, Err: ErrBusy}
	}
	p.running = true
	p.mu.Unlock()
	defer func() {
		p.mu.Lock()
		p.running = false
		p.mu.Unlock()
		p.emit(Idle)
	}()

	run := uuid.NewString()[:8]
	defer logging.TimeTrack(time.Now(), "[export] run "+run)
	p.emit(Requested)
	logging.Infof("[export] run=%s dataset=%s requested", run, id)

	rep, err := p.Source.Report(ctx, id)
	if err != nil {
		logging.Errorf("[export] run=%s report request failed: %v", run, err)
		p.emit(StateFailed)
		p.alert()
		return Outcome{Status: Failed, Err: err}
	}
	p.emit(BlobReceived)
	name := ResolveFilename(rep.ContentDisposition, id, p.Prefix)
	logging.Debugf("[export] run=%s received %d bytes, filename=%q", run, len(rep.Data), name)

	var lastErr error
	for _, s := range p.Strategies {
		a := s.Save(ctx, rep, name)
		logging.Debugf("[export] run=%s strategy=%s result=%s", run, s.Name(), a.Result)
		switch a.Result {
		case Saved:
			p.emit(StateSaved)
			logging.Infof("[export] run=%s saved %s", run, a.Path)
			return Outcome{Status: Saved, Filename: name, Path: a.Path, Strategy: s.Name()}
		case Cancelled:
			p.emit(StateCancelled)
			logging.Infof("[export] run=%s cancelled via %s", run, s.Name())
			return Outcome{Status: Cancelled, Filename: name, Strategy: s.Name()}
		case Failed:
			lastErr = a.Err
		}
	}
	if lastErr == nil {
		lastErr = errors.New("no save strategy available")
	}
	logging.Errorf("[export] run=%s all strategies exhausted: %v", run, lastErr)
	p.emit(StateFailed)
	p.alert()
	return Outcome{Status: Failed, Filename: name, Err: lastErr}
}

// LogNotifier reports alerts through the logger, for headless front-ends.
type LogNotifier struct{}

func (LogNotifier) Alert(msg string) { logging.Errorf("%s", msg) }
