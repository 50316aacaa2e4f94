package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	scaleup "RMGScale/internal/calc/scaleup"
	"RMGScale/internal/input"
)

type fieldsOutput struct {
	Duration []input.Field `json:"duration" yaml:"duration"`
	Speed    []input.Field `json:"speed" yaml:"speed"`
}

func (o fieldsOutput) text(w io.Writer) error {
	sections := []struct {
		title  string
		fields []input.Field
	}{
		{"Granulation time (" + string(scaleup.QuantityDuration) + ")", o.Duration},
		{"Impeller speed (" + string(scaleup.QuantitySpeed) + ")", o.Speed},
	}
	for _, s := range sections {
		if _, err := fmt.Fprintf(w, "%s:\n", s.title); err != nil {
			return err
		}
		for _, f := range s.fields {
			_, err := fmt.Fprintf(w, "  %-12s %-32s %-4s min=%-6s max=%-6s default=%s\n",
				f.Name, f.Label, f.Unit, num(f.Min), num(f.Max), num(f.Default))
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func (a *app) fieldsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "fields",
		Short: "List the calculator inputs with their bounds and defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.print(cmd.OutOrStdout(), fieldsOutput{
				Duration: input.DurationFields(),
				Speed:    input.SpeedFields(),
			})
		},
	}
}
