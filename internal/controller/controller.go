package controller

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"co2form/internal/form"
	"co2form/internal/predictclient"
	"co2form/pkg/types"
)

// State is the controller's position in the submit flow.
type State string

const (
	StateIdle       State = "idle"
	StateValidating State = "validating"
	StateSubmitting State = "submitting"
	StateSuccess    State = "success"
	StateFailure    State = "failure"
)

// Submitter performs the single request/response exchange with the
// prediction endpoint.
type Submitter interface {
	Predict(ctx context.Context, req types.PredictionRequest) (types.PredictionResult, error)
}

// Controller orchestrates validate, submit and render for one form.
type Controller struct {
	validator *form.Validator
	client    Submitter
	trigger   *Trigger
	log       zerolog.Logger
	onState   func(State)

	mu    sync.Mutex
	state State
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger installs a structured logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Controller) { c.log = l }
}

// WithTrigger replaces the default submit control.
func WithTrigger(t *Trigger) Option {
	return func(c *Controller) {
		if t != nil {
			c.trigger = t
		}
	}
}

// WithStateHook registers fn to be called on every state transition.
func WithStateHook(fn func(State)) Option {
	return func(c *Controller) { c.onState = fn }
}

// New returns an idle controller.
func New(v *form.Validator, client Submitter, opts ...Option) *Controller {
	if v == nil {
		v = form.NewValidator(form.DefaultBounds())
	}
	c := &Controller{
		validator: v,
		client:    client,
		trigger:   NewTrigger("", ""),
		log:       zerolog.Nop(),
		state:     StateIdle,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Fork returns a controller sharing c's validator, client and logger but
// with its own trigger and state.
func (c *Controller) Fork() *Controller {
	return &Controller{
		validator: c.validator,
		client:    c.client,
		trigger:   c.trigger.clone(),
		log:       c.log,
		onState:   c.onState,
		state:     StateIdle,
	}
}

// Validator returns the validator used before submission.
func (c *Controller) Validator() *form.Validator { return c.validator }

// Trigger returns the submit control.
func (c *Controller) Trigger() *Trigger { return c.trigger }

// State returns the current flow state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
	if c.onState != nil {
		c.onState(s)
	}
}

// Hint re-checks one numeric field for live feedback.
func (c *Controller) Hint(field, raw string) types.Hint {
	return c.validator.CheckField(field, raw)
}

// Submit validates req, sends it and renders the outcome. A submission
// that finds the trigger already disabled is rejected as busy and leaves the
// flow state to the one in flight. Otherwise the trigger stays disabled
// until the exchange settles and is restored on every path, including
// validation failures.
func (c *Controller) Submit(ctx context.Context, req types.PredictionRequest) Panel {
	if !c.trigger.Disable() {
		p := RenderError(KindBusy, BusyMessage)
		observe(p)
		return p
	}
	defer c.trigger.Restore()

	c.setState(StateValidating)
	if errs := c.validator.Validate(req); len(errs) > 0 {
		p := RenderError(KindValidation, form.Join(errs))
		c.log.Debug().Strs("errors", errs).Msg("validation failed")
		observe(p)
		c.setState(StateIdle)
		return p
	}

	p := c.send(ctx, req)
	observe(p)
	if p.OK() {
		c.setState(StateSuccess)
	} else {
		c.setState(StateFailure)
	}
	c.setState(StateIdle)
	return p
}

func (c *Controller) send(ctx context.Context, req types.PredictionRequest) (p Panel) {
	c.setState(StateSubmitting)
	defer func() {
		// Panics are reported as a network failure.
		if r := recover(); r != nil {
			c.log.Error().Interface("panic", r).Msg("prediction submit panicked")
			p = RenderError(KindNetwork, predictclient.NetworkMessage)
		}
	}()

	start := time.Now()
	res, err := c.client.Predict(ctx, req)
	upstreamDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		var se *predictclient.ServerError
		if errors.As(err, &se) {
			c.log.Info().Err(err).Int("status", se.Status).Str("fuel_type", req.FuelType).Msg("prediction rejected")
			msg := se.Message
			if msg == "" {
				msg = predictclient.FallbackServerMessage
			}
			panel := RenderError(KindServer, msg)
			panel.UpstreamStatus = se.Status
			return panel
		}
		c.log.Error().Err(unwrapCause(err)).Msg("prediction request failed")
		return RenderError(KindNetwork, predictclient.NetworkMessage)
	}
	c.log.Info().Float64("prediction", res.Prediction).Str("fuel_type", req.FuelType).Msg("prediction complete")
	return RenderResult(res)
}

func unwrapCause(err error) error {
	if cause := errors.Unwrap(err); cause != nil {
		return cause
	}
	return err
}
