package cli

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	report "RMGScale/internal/calc/report"
	scaleup "RMGScale/internal/calc/scaleup"
	"RMGScale/internal/config"
	"RMGScale/internal/input"
)

// inputs holds the operating-point flags shared by time, speed and report.
type inputs struct {
	dSmall, nSmall, tSmall float64
	dLarge, nLarge, tLarge float64
}

func defaultInputs() inputs {
	return inputs{
		dSmall: input.DSmall.Default,
		nSmall: input.NSmall.Default,
		tSmall: input.TSmall.Default,
		dLarge: input.DLarge.Default,
		nLarge: input.NLarge.Default,
		tLarge: input.TLarge.Default,
	}
}

func (in *inputs) bindSource(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Float64Var(&in.dSmall, "d-small", in.dSmall, "small scale impeller diameter (mm)")
	f.Float64Var(&in.nSmall, "n-small", in.nSmall, "small scale impeller speed (rpm)")
	f.Float64Var(&in.tSmall, "t-small", in.tSmall, "small scale granulation time (s)")
	f.Float64Var(&in.dLarge, "d-large", in.dLarge, "large scale impeller diameter (mm)")
}

func (in *inputs) bindNLarge(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&in.nLarge, "n-large", in.nLarge, "large scale impeller speed (rpm)")
}

func (in *inputs) bindTLarge(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&in.tLarge, "t-large", in.tLarge, "large scale granulation time (s)")
}

func (in *inputs) values() map[string]float64 {
	return map[string]float64{
		input.NameDSmall: in.dSmall,
		input.NameNSmall: in.nSmall,
		input.NameTSmall: in.tSmall,
		input.NameDLarge: in.dLarge,
		input.NameNLarge: in.nLarge,
		input.NameTLarge: in.tLarge,
	}
}

func fieldsFor(q scaleup.Quantity) []input.Field {
	if q == scaleup.QuantitySpeed {
		return input.SpeedFields()
	}
	return input.DurationFields()
}

// request validates the flags against the input bounds and builds the
// request for quantity q.
func (a *app) request(in *inputs, q scaleup.Quantity) (scaleup.Request, error) {
	method, err := a.cfg.Method()
	if err != nil {
		return scaleup.Request{}, err
	}
	mode, err := a.cfg.Mode()
	if err != nil {
		return scaleup.Request{}, err
	}
	if err := input.Validate(mode, fieldsFor(q), in.values()); err != nil {
		return scaleup.Request{}, err
	}
	req := scaleup.Request{
		Method: method,
		Solve:  q,
		Source: scaleup.MixerState{DiameterMM: in.dSmall, SpeedRPM: in.nSmall, DurationSec: in.tSmall},
		Target: scaleup.ImpellerGeometry{DiameterMM: in.dLarge},
	}
	if q == scaleup.QuantityDuration {
		req.TargetSpeedRPM = in.nLarge
	} else {
		req.TargetDurationSec = in.tLarge
	}
	return req, nil
}

func addMethodFlag(a *app, cmd *cobra.Command) {
	cmd.Flags().StringVar(&a.cfg.DefaultMethod, config.FlagMethod, a.cfg.DefaultMethod,
		`scale-up method: "tip-speed", "tip-distance" or the full method name`)
}

func (a *app) timeCommand(in *inputs) *cobra.Command {
	var unit string
	cmd := &cobra.Command{
		Use:   "time",
		Short: "Large scale granulation time for a chosen impeller speed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if unit != unitMinutes && unit != unitSeconds {
				return fmt.Errorf("unit %q: want min or s", unit)
			}
			req, err := a.request(in, scaleup.QuantityDuration)
			if err != nil {
				return err
			}
			sum, err := report.Summarize(req)
			if err != nil {
				return err
			}
			return a.print(cmd.OutOrStdout(), newCalcOutput(sum, unit))
		},
	}
	addMethodFlag(a, cmd)
	in.bindSource(cmd)
	in.bindNLarge(cmd)
	cmd.Flags().StringVar(&unit, "unit", unitMinutes, "duration unit (min, s)")
	return cmd
}

func (a *app) speedCommand(in *inputs) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "speed",
		Short: "Large scale impeller speed for a chosen granulation time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := a.request(in, scaleup.QuantitySpeed)
			if err != nil {
				return err
			}
			sum, err := report.Summarize(req)
			if err != nil {
				return err
			}
			return a.print(cmd.OutOrStdout(), newCalcOutput(sum, unitMinutes))
		},
	}
	addMethodFlag(a, cmd)
	in.bindSource(cmd)
	in.bindTLarge(cmd)
	return cmd
}

func (a *app) reportCommand(in *inputs) *cobra.Command {
	var (
		out, solve, project, title, notes string
	)
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Write a PDF scale-up report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := scaleup.ParseQuantity(solve)
			if err != nil {
				return err
			}
			req, err := a.request(in, q)
			if err != nil {
				return err
			}
			var buf bytes.Buffer
			err = report.Render(&buf, report.Input{
				Project: project,
				Author:  a.cfg.ReportAuthor,
				Title:   title,
				Notes:   notes,
				Request: req,
			})
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
				return err
			}
			a.logger.Info().Str("path", out).Int("bytes", buf.Len()).Msg("report written")
			return nil
		},
	}
	addMethodFlag(a, cmd)
	in.bindSource(cmd)
	in.bindNLarge(cmd)
	in.bindTLarge(cmd)
	f := cmd.Flags()
	f.StringVar(&out, "out", "report.pdf", "output PDF path")
	f.StringVar(&solve, "solve", string(scaleup.QuantityDuration), "quantity to solve for (duration, speed)")
	f.StringVar(&project, "project", "", "project name")
	f.StringVar(&a.cfg.ReportAuthor, config.FlagAuthor, a.cfg.ReportAuthor, "report author")
	f.StringVar(&title, "title", "", "report title")
	f.StringVar(&notes, "notes", "", "free text notes")
	return cmd
}
