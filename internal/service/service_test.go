package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"co2form/internal/controller"
	"co2form/internal/registry"
	"co2form/pkg/types"
)

type stubSubmitter struct {
	res     types.PredictionResult
	release chan struct{}
	entered chan struct{}
}

func (s *stubSubmitter) Predict(ctx context.Context, req types.PredictionRequest) (types.PredictionResult, error) {
	if s.entered != nil {
		s.entered <- struct{}{}
	}
	if s.release != nil {
		<-s.release
	}
	return s.res, nil
}

type stubCatalogue struct {
	m   map[string]types.FuelType
	err error
}

func (s stubCatalogue) FuelTypes(ctx context.Context) (map[string]types.FuelType, error) {
	return s.m, s.err
}

var validReq = types.PredictionRequest{FuelConsumption: 10, FuelEfficiency: 30, FuelType: "D"}

func TestSubmit_FillsFuelTypeName(t *testing.T) {
	ctl := controller.New(nil, &stubSubmitter{res: types.PredictionResult{Prediction: 180}})
	s := New(ctl, nil, false, zerolog.Nop())
	p := s.Submit(context.Background(), validReq)
	if !p.OK() || p.Result.FuelTypeName != "Diesel" {
		t.Fatalf("unexpected panel: %+v", p)
	}
}

func TestSubmit_ForkedByDefault(t *testing.T) {
	sub := &stubSubmitter{release: make(chan struct{}), entered: make(chan struct{}, 2)}
	ctl := controller.New(nil, sub)
	s := New(ctl, nil, false, zerolog.Nop())

	done := make(chan controller.Panel, 2)
	go func() { done <- s.Submit(context.Background(), validReq) }()
	go func() { done <- s.Submit(context.Background(), validReq) }()
	<-sub.entered
	<-sub.entered
	close(sub.release)
	for i := 0; i < 2; i++ {
		if p := <-done; p.Kind != controller.KindSuccess {
			t.Fatalf("concurrent submission %d: %+v", i, p)
		}
	}
	if !s.Trigger().Enabled {
		t.Fatalf("shared trigger should be untouched")
	}
}

func TestSubmit_SingleFlightRejectsOverlap(t *testing.T) {
	sub := &stubSubmitter{release: make(chan struct{}), entered: make(chan struct{}, 1)}
	ctl := controller.New(nil, sub)
	s := New(ctl, nil, true, zerolog.Nop())

	done := make(chan controller.Panel, 1)
	go func() { done <- s.Submit(context.Background(), validReq) }()
	<-sub.entered
	if s.Trigger().Enabled {
		t.Fatalf("trigger should be disabled while in flight")
	}
	if p := s.Submit(context.Background(), validReq); p.Kind != controller.KindBusy {
		t.Fatalf("expected busy, got %+v", p)
	}
	close(sub.release)
	if p := <-done; !p.OK() {
		t.Fatalf("first submission failed: %+v", p)
	}
	if !s.Trigger().Enabled {
		t.Fatalf("trigger not restored")
	}
}

func TestRefreshFuelTypes(t *testing.T) {
	s := New(controller.New(nil, &stubSubmitter{}), registry.Builtin(), false, zerolog.Nop())
	err := s.RefreshFuelTypes(context.Background(), stubCatalogue{err: errors.New("down")})
	if err == nil || len(s.FuelTypes()) != 5 {
		t.Fatalf("failed refresh should keep builtin catalogue")
	}
	err = s.RefreshFuelTypes(context.Background(), stubCatalogue{m: map[string]types.FuelType{"H": {Name: "Hydrogen"}}})
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if got := s.FuelTypes(); len(got) != 1 || got[0].Code != "H" {
		t.Fatalf("unexpected catalogue: %+v", got)
	}
	if err := s.RefreshFuelTypes(context.Background(), stubCatalogue{m: map[string]types.FuelType{}}); err == nil {
		t.Fatalf("empty catalogue should be rejected")
	}
}

func TestReady(t *testing.T) {
	s := New(controller.New(nil, &stubSubmitter{}), nil, false, zerolog.Nop())
	if !s.Ready() {
		t.Fatalf("new service should be ready")
	}
	s.SetReady(false)
	if s.Ready() {
		t.Fatalf("expected not ready")
	}
}
