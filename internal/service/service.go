// Package service wires the form controller to the fuel type catalogue for
// the HTTP layer.
package service

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"co2form/internal/controller"
	"co2form/internal/registry"
	"co2form/pkg/types"
)

// CatalogueSource fetches a fuel type catalogue from the prediction endpoint.
type CatalogueSource interface {
	FuelTypes(ctx context.Context) (map[string]types.FuelType, error)
}

// Service serves submissions, hints and the fuel type catalogue.
type Service struct {
	ctl          *controller.Controller
	singleFlight bool
	log          zerolog.Logger

	mu  sync.RWMutex
	reg *registry.Registry

	ready atomic.Bool
}

// New returns a ready service. With singleFlight set every submission goes
// through ctl's trigger; otherwise each submission gets a forked controller.
func New(ctl *controller.Controller, reg *registry.Registry, singleFlight bool, log zerolog.Logger) *Service {
	if reg == nil {
		reg = registry.Builtin()
	}
	s := &Service{ctl: ctl, reg: reg, singleFlight: singleFlight, log: log}
	s.ready.Store(true)
	return s
}

// Submit runs one submission through the controller. A missing fuel type
// label in the result is filled from the catalogue.
func (s *Service) Submit(ctx context.Context, req types.PredictionRequest) controller.Panel {
	ctl := s.ctl
	if !s.singleFlight {
		ctl = ctl.Fork()
	}
	p := ctl.Submit(ctx, req)
	if p.OK() && p.Result != nil && p.Result.FuelTypeName == "" {
		p.Result.FuelTypeName = s.registry().Name(req.FuelType)
	}
	return p
}

// Hint returns the live hint for one field.
func (s *Service) Hint(field, raw string) types.Hint {
	return s.ctl.Hint(field, raw)
}

// Trigger returns the state of the shared submit control.
func (s *Service) Trigger() controller.TriggerState {
	return s.ctl.Trigger().State()
}

// FuelTypes returns the active catalogue in display order.
func (s *Service) FuelTypes() []types.FuelType {
	return s.registry().List()
}

// Ready reports whether the service can accept submissions.
func (s *Service) Ready() bool { return s.ready.Load() }

// SetReady flips readiness, e.g. while draining on shutdown.
func (s *Service) SetReady(v bool) { s.ready.Store(v) }

// RefreshFuelTypes replaces the catalogue with the endpoint's. On failure
// the current catalogue is kept and the error returned.
func (s *Service) RefreshFuelTypes(ctx context.Context, src CatalogueSource) error {
	m, err := src.FuelTypes(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("fuel types: keeping current catalogue")
		return err
	}
	reg, err := registry.FromMap(m)
	if err != nil {
		s.log.Warn().Err(err).Msg("fuel types: endpoint catalogue rejected")
		return err
	}
	s.mu.Lock()
	s.reg = reg
	s.mu.Unlock()
	s.log.Info().Int("count", len(m)).Msg("fuel types loaded from prediction endpoint")
	return nil
}

func (s *Service) registry() *registry.Registry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reg
}
