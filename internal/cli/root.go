// Package cli implements the rmgscale command tree.
package cli

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"RMGScale/internal/config"
	"RMGScale/internal/logging"
)

const longHelp = `Scale-up calculator for rotary mixer granulators.

Predicts the granulation time of a larger mixer at a chosen impeller speed,
or the impeller speed it needs for a chosen time, by matching either the
impeller tip speed or the total tip distance of a smaller reference mixer.

Configuration is read from $HOME/.rmgscale/config.toml, .env, RMGSCALE_*
environment variables and flags, later sources winning.`

var exampleUsage = strings.TrimSpace(`
  rmgscale time --d-small 200 --n-small 100 --t-small 180 --d-large 600 --n-large 50
  rmgscale speed --method tip-distance --d-large 600 --t-large 120 -o json
  rmgscale batch --in cases.xlsx --out results.xlsx
  rmgscale serve --addr :8080
`)

type app struct {
	cfg     config.Config
	cfgPath string
	logger  zerolog.Logger
	errOut  io.Writer
}

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

// NewRootCommand builds the command tree. Results go to out, logs to errOut.
func NewRootCommand(out, errOut io.Writer) *cobra.Command {
	_, root := newApp(out, errOut)
	return root
}

func newApp(out, errOut io.Writer) (*app, *cobra.Command) {
	a := &app{
		cfg:    config.Default(),
		errOut: errOut,
	}
	a.logger = logging.New(logging.Options{Level: a.cfg.LogLevel, Format: a.cfg.LogFormat, Out: errOut})

	root := &cobra.Command{
		Use:           "rmgscale",
		Short:         "Rotary mixer granulator scale-up calculator",
		Long:          longHelp,
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgPath, "config", "", "config file (default $HOME/.rmgscale/config.toml)")
	pf.StringVar(&a.cfg.LogLevel, config.FlagLogLevel, a.cfg.LogLevel, "log level (debug, info, warn, error)")
	pf.StringVar(&a.cfg.LogFormat, config.FlagLogFormat, a.cfg.LogFormat, "log format (console, json)")
	pf.StringVarP(&a.cfg.Output, config.FlagOutput, "o", a.cfg.Output, "output format (text, json, yaml)")
	pf.StringVar(&a.cfg.InputMode, config.FlagInputMode, a.cfg.InputMode, "input bounds (range, direct)")

	in := defaultInputs()
	root.AddCommand(
		a.timeCommand(&in),
		a.speedCommand(&in),
		a.reportCommand(&in),
		a.batchCommand(),
		a.serveCommand(),
		a.tokenCommand(),
		a.fieldsCommand(),
	)
	return a, root
}

// load layers file, environment and changed flags into a.cfg.
func (a *app) load(cmd *cobra.Command) error {
	changed := map[string]bool{}
	cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

	if err := config.Load(&a.cfg, a.cfgPath, changed); err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := a.cfg.Validate(); err != nil {
		return err
	}
	a.logger = logging.New(logging.Options{Level: a.cfg.LogLevel, Format: a.cfg.LogFormat, Out: a.errOut})

	logCfg := a.cfg
	if logCfg.AuthKey != "" {
		logCfg.AuthKey = "*****"
	}
	a.logger.Debug().Interface("config", logCfg).Msg("configuration")
	return nil
}

// Execute runs the CLI with the process arguments and returns the exit code.
func Execute() int {
	return run(os.Args[1:], os.Stdout, os.Stderr)
}

func run(args []string, out, errOut io.Writer) int {
	a, root := newApp(out, errOut)
	root.SetArgs(args)
	cmd, err := root.ExecuteC()
	if err != nil {
		a.logger.Error().Err(err).Str("command", cmd.Name()).Msg("command failed")
		return 1
	}
	return 0
}
