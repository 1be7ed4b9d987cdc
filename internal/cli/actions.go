package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog"

	"co2form/internal/config"
	"co2form/internal/controller"
	"co2form/internal/form"
	"co2form/internal/httpapi"
	"co2form/internal/impact"
	"co2form/internal/predictclient"
	"co2form/internal/prompt"
	"co2form/internal/registry"
	"co2form/internal/service"
	"co2form/internal/view"
	"co2form/pkg/types"
)

// Indirections so tests can replace the long-running actions.
var (
	fnServe   = serve
	fnPredict = predict
	fnTiers   = printTiers
)

// errPredictionFailed is returned after an error panel has been printed.
var errPredictionFailed = errors.New("prediction failed")

const shutdownTimeout = 5 * time.Second

func newClient(cfg config.Config, log zerolog.Logger) *predictclient.Client {
	return predictclient.New(cfg.PredictionURL,
		predictclient.WithTimeout(cfg.PredictionTimeout()),
		predictclient.WithLogger(log),
	)
}

// loadRegistry returns the local catalogue file if configured, else the
// built-in list.
func loadRegistry(cfg config.Config) (*registry.Registry, error) {
	if cfg.FuelTypesFile == "" {
		return registry.Builtin(), nil
	}
	reg, err := registry.LoadFile(cfg.FuelTypesFile)
	if err != nil {
		return nil, fmt.Errorf("load fuel types: %w", err)
	}
	return reg, nil
}

func serve(ctx context.Context, cfg config.Config, log zerolog.Logger) error {
	reg, err := loadRegistry(cfg)
	if err != nil {
		return err
	}
	pages, err := view.New(cfg.Locale)
	if err != nil {
		return err
	}
	client := newClient(cfg, log)
	ctl := controller.New(form.NewValidator(cfg.Bounds), client, controller.WithLogger(log))
	svc := service.New(ctl, reg, cfg.SingleFlight, log)
	if cfg.FetchFuelTypes {
		// Failure keeps the local catalogue.
		_ = svc.RefreshFuelTypes(ctx, client)
	}

	httpapi.SetLogger(log)
	httpapi.SetMaxBodyBytes(cfg.MaxBodyBytes)
	httpapi.SetCORSOptions(cfg.CORS.Enabled, cfg.CORS.Origins, cfg.CORS.Methods, cfg.CORS.Headers)
	baseCtx, cancelBase := context.WithCancel(context.Background())
	defer cancelBase()
	httpapi.SetBaseContext(baseCtx)

	srv := &http.Server{Addr: cfg.Addr, Handler: httpapi.NewMux(svc, pages)}
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr).Str("prediction_url", client.BaseURL()).Msg("co2form listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	svc.SetReady(false)
	shutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err = srv.Shutdown(shutCtx)
	cancelBase()
	if err != nil {
		log.Warn().Err(err).Msg("graceful shutdown error")
		return err
	}
	log.Info().Msg("co2form stopped")
	return nil
}

// predictOptions carries the predict command's flags.
type predictOptions struct {
	Request     types.PredictionRequest
	Interactive bool
}

func predict(ctx context.Context, cfg config.Config, log zerolog.Logger, opts predictOptions, out io.Writer) error {
	reg, err := loadRegistry(cfg)
	if err != nil {
		return err
	}
	client := newClient(cfg, log)
	if cfg.FetchFuelTypes {
		if m, err := client.FuelTypes(ctx); err != nil {
			log.Warn().Err(err).Msg("fuel types: using local catalogue")
		} else if r, err := registry.FromMap(m); err == nil {
			reg = r
		}
	}
	v := form.NewValidator(cfg.Bounds)

	req := opts.Request
	if opts.Interactive {
		f := prompt.New(prompt.NewSurveyDriver(out), v, reg.List())
		if req, err = f.Ask(ctx, req); err != nil {
			return err
		}
	}

	pages, err := view.New(cfg.Locale)
	if err != nil {
		return err
	}
	p := controller.New(v, client, controller.WithLogger(log)).Submit(ctx, req)
	if p.OK() && p.Result.FuelTypeName == "" {
		p.Result.FuelTypeName = reg.Name(req.FuelType)
	}
	fmt.Fprint(out, pages.PanelText(p))
	if !p.OK() {
		return errPredictionFailed
	}
	return nil
}

func printTiers(out io.Writer) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TIER\tRANGE (g/km)\tICON")
	for _, t := range impact.Tiers {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", t.Name, t.Range(), t.Icon)
	}
	return tw.Flush()
}
