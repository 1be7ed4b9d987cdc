// Package cli implements the co2form command tree.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"co2form/internal/config"
	"co2form/internal/form"
	"co2form/internal/prompt"
)

// Options are the persistent flags shared by every command.
type Options struct {
	ConfigPath string
	LogLevel   string
	LogFormat  string
	URL        string
}

// resolve loads the configuration and applies flag overrides.
func (o *Options) resolve() (config.Config, error) {
	cfg, err := config.Resolve(o.ConfigPath)
	if err != nil {
		return cfg, err
	}
	if o.LogLevel != "" {
		cfg.LogLevel = o.LogLevel
	}
	if o.LogFormat != "" {
		cfg.LogFormat = o.LogFormat
	}
	if o.URL != "" {
		cfg.PredictionURL = o.URL
	}
	return cfg, cfg.Validate()
}

func buildRootCmd(out io.Writer) *cobra.Command {
	opts := &Options{}
	root := &cobra.Command{
		Use:           "co2form",
		Short:         "CO2 emission prediction form: web page, JSON API and terminal client",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", os.Getenv("CO2FORM_CONFIG"), "Config file (.yaml, .yml, .json, .toml)")
	root.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "Log level: debug|info|warn|error (overrides config)")
	root.PersistentFlags().StringVar(&opts.LogFormat, "log-format", "", "Log format: console|json (overrides config)")
	root.PersistentFlags().StringVar(&opts.URL, "url", "", "Prediction endpoint root URL (overrides config)")

	serveCmd := &cobra.Command{
		Use:     "serve",
		Short:   "Serve the prediction page and JSON API",
		Example: "  co2form serve --config co2form.yaml",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.resolve()
			if err != nil {
				return err
			}
			var addr string
			if addr, err = cmd.Flags().GetString("addr"); err == nil && addr != "" {
				cfg.Addr = addr
			}
			log := newLogger(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
			return fnServe(cmd.Context(), cfg, log)
		},
	}
	serveCmd.Flags().String("addr", "", "HTTP listen address, e.g. :8080 (overrides config)")

	var po predictOptions
	predictCmd := &cobra.Command{
		Use:   "predict",
		Short: "Submit one prediction request and print the result",
		Example: "  co2form predict --consumption 10 --efficiency 30 --fuel-type X\n" +
			"  co2form predict -i",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.resolve()
			if err != nil {
				return err
			}
			log := newLogger(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
			return fnPredict(cmd.Context(), cfg, log, po, cmd.OutOrStdout())
		},
	}
	predictCmd.Flags().Float64Var(&po.Request.FuelConsumption, "consumption", 0, "Fuel consumption in L/100km")
	predictCmd.Flags().Float64Var(&po.Request.FuelEfficiency, "efficiency", 0, "Fuel efficiency in mpg")
	predictCmd.Flags().StringVar(&po.Request.FuelType, "fuel-type", "", "Fuel type code (Z, D, X, E, N)")
	predictCmd.Flags().BoolVarP(&po.Interactive, "interactive", "i", false, "Prompt for the values")

	tiersCmd := &cobra.Command{
		Use:   "tiers",
		Short: "Print the environmental-impact tiers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return fnTiers(cmd.OutOrStdout())
		},
	}

	hintCmd := &cobra.Command{
		Use:   "hint <field> <value>",
		Short: "Check one numeric field the way the page does while typing",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if args[0] != form.FieldConsumption && args[0] != form.FieldEfficiency {
				return fmt.Errorf("field must be %s or %s", form.FieldConsumption, form.FieldEfficiency)
			}
			cfg, err := opts.resolve()
			if err != nil {
				return err
			}
			h := form.NewValidator(cfg.Bounds).CheckField(args[0], args[1])
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", h.State, h.Text)
			return nil
		},
	}

	root.AddCommand(serveCmd, predictCmd, tiersCmd, hintCmd)
	return root
}

// MainWithArgs runs the command tree with explicit args and returns an exit
// code: 0 on success, 1 on error, 2 on missing command, 130 when a prompt
// was aborted.
func MainWithArgs(args []string) int {
	return mainWithArgs(context.Background(), args, os.Stdout, os.Stderr)
}

func mainWithArgs(ctx context.Context, args []string, out, errOut io.Writer) int {
	root := buildRootCmd(out)
	if len(args) == 0 {
		_ = root.Help()
		return 2
	}
	root.SetArgs(args)
	root.SetErr(errOut)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := root.ExecuteContext(ctx); err != nil {
		if errors.Is(err, prompt.ErrAborted) {
			return 130
		}
		if !errors.Is(err, errPredictionFailed) {
			fmt.Fprintln(errOut, err.Error())
		}
		return 1
	}
	return 0
}

// Main returns an exit code for use by cmd/co2form.
func Main() int { return MainWithArgs(os.Args[1:]) }
