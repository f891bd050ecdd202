package view

import (
	"sync"

	"github.com/chemviz/chemviz/src/types"
)

// Controller owns the current ViewState. All mutation goes through its methods so the
// change hook sees every transition exactly once.
type Controller struct {
	mu       sync.Mutex
	state    ViewState
	onChange func(ViewState)
}

// NewController starts at Initial().
func NewController() *Controller {
	return &Controller{state: Initial()}
}

// OnChange registers fn to be called (outside the lock) after every applied transition.
func (c *Controller) OnChange(fn func(ViewState)) {
	c.mu.Lock()
	c.onChange = fn
	c.mu.Unlock()
}

// State returns the current value.
func (c *Controller) State() ViewState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) apply(next func(ViewState) (ViewState, error)) (ViewState, error) {
	c.mu.Lock()
	ns, err := next(c.state)
	if err != nil {
		cur := c.state
		c.mu.Unlock()
		return cur, err
	}
	changed := ns != c.state
	c.state = ns
	fn := c.onChange
	c.mu.Unlock()
	if changed && fn != nil {
		fn(ns)
	}
	return ns, nil
}

func (c *Controller) SetMode(m Mode) (ViewState, error) {
	return c.apply(func(s ViewState) (ViewState, error) { return SetMode(s, m) })
}

func (c *Controller) SetBarMetric(m types.Metric) (ViewState, error) {
	return c.apply(func(s ViewState) (ViewState, error) { return SetBarMetric(s, m) })
}

func (c *Controller) SetCorrelationAxes(x, y types.Metric) (ViewState, error) {
	return c.apply(func(s ViewState) (ViewState, error) { return SetCorrelationAxes(s, x, y) })
}

// Replace installs s wholesale after validating it (used when restoring from a URL or command-line flags).
func (c *Controller) Replace(s ViewState) (ViewState, error) {
	return c.apply(func(ViewState) (ViewState, error) { return validate(s) })
}

// Reset returns to Initial(); called when a different dataset is opened.
func (c *Controller) Reset() ViewState {
	s, _ := c.apply(func(ViewState) (ViewState, error) { return Initial(), nil })
	return s
}

func validate(s ViewState) (ViewState, error) {
	out := Initial()
	var err error
	if out, err = SetMode(out, s.Mode); err != nil {
		return out, err
	}
	if out, err = SetBarMetric(out, s.BarMetric); err != nil {
		return out, err
	}
	return SetCorrelationAxes(out, s.CorrelationX, s.CorrelationY)
}
