package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	batch "RMGScale/internal/calc/batch"
	importer "RMGScale/internal/calc/importer"
)

type batchOutput struct {
	Cases     int                   `json:"cases" yaml:"cases"`
	Succeeded int                   `json:"succeeded" yaml:"succeeded"`
	Failed    int                   `json:"failed" yaml:"failed"`
	Skipped   []importer.SkippedRow `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	Results   []batch.Row           `json:"results" yaml:"results"`
}

func (o batchOutput) text(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "Cases     : %d\nSucceeded : %d\nFailed    : %d\nSkipped   : %d\n",
		o.Cases, o.Succeeded, o.Failed, len(o.Skipped)); err != nil {
		return err
	}
	for _, row := range o.Results {
		var err error
		if row.Result != nil {
			_, err = fmt.Fprintf(w, "  #%d %s = %s %s\n", row.Index+1, row.Result.Solve, num(row.Result.Value), row.Result.Unit)
		} else {
			_, err = fmt.Fprintf(w, "  #%d error: %s\n", row.Index+1, row.Error)
		}
		if err != nil {
			return err
		}
	}
	for _, s := range o.Skipped {
		if _, err := fmt.Fprintf(w, "  row %d skipped: %s\n", s.Row, s.Error); err != nil {
			return err
		}
	}
	return nil
}

func (a *app) batchCommand() *cobra.Command {
	var in, out string
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Solve every case of an .xlsx workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(in)
			if err != nil {
				return err
			}
			defer f.Close()
			wb, err := importer.Read(f)
			if err != nil {
				return fmt.Errorf("read %s: %w", in, err)
			}
			for _, s := range wb.Skipped {
				a.logger.Warn().Int("row", s.Row).Err(s.Err).Msg("row skipped")
			}
			mode, err := a.cfg.Mode()
			if err != nil {
				return err
			}
			res, err := batch.CalculateWith(batch.Input{Items: wb.Requests()}, mode, nil)
			if err != nil {
				return err
			}
			for i, row := range res.Results {
				if row.Err() != nil {
					a.logger.Warn().Int("row", wb.Cases[i].Row).Err(row.Err()).Msg("case failed")
				}
			}
			if out != "" {
				var buf bytes.Buffer
				if err := importer.WriteResults(&buf, wb, res); err != nil {
					return err
				}
				if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
					return err
				}
				a.logger.Info().Str("path", out).Msg("results written")
			}

			summary := batchOutput{
				Cases:     len(wb.Cases),
				Succeeded: res.Succeeded,
				Failed:    res.Failed,
				Results:   res.Results,
			}
			for _, s := range wb.Skipped {
				summary.Skipped = append(summary.Skipped, importer.SkippedRow{Row: s.Row, Error: s.Err.Error()})
			}
			return a.print(cmd.OutOrStdout(), summary)
		},
	}
	cmd.Flags().StringVar(&in, "in", "", "input workbook (.xlsx)")
	cmd.Flags().StringVar(&out, "out", "", "write a result workbook to this path")
	cmd.MarkFlagRequired("in")
	cmd.AddCommand(a.templateCommand())
	return cmd
}

func (a *app) templateCommand() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Write an example input workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var buf bytes.Buffer
			if err := importer.WriteTemplate(&buf); err != nil {
				return err
			}
			if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
				return err
			}
			a.logger.Info().Str("path", out).Msg("template written")
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "cases.xlsx", "output path")
	return cmd
}
