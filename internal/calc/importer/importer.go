// Package importer reads scale-up cases from spreadsheets and writes the
// solved results back out.
//
// The first sheet of an input workbook holds one case per row under a
// header row with the columns in Header. The solve column may be left
// blank; it is then inferred from which large-scale value is present.
package importer

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	batch "RMGScale/internal/calc/batch"
	scaleup "RMGScale/internal/calc/scaleup"
	"RMGScale/internal/input"
)

// Header is the expected column order of an input sheet.
var Header = []string{
	"method", "solve",
	input.NameDSmall, input.NameNSmall, input.NameTSmall,
	input.NameDLarge, input.NameNLarge, input.NameTLarge,
}

const (
	colMethod = iota
	colSolve
	colDSmall
	colNSmall
	colTSmall
	colDLarge
	colNLarge
	colTLarge
)

const (
	resultsSheet = "Results"
	skippedSheet = "Skipped"
	casesSheet   = "Cases"
)

// ContentType is the MIME type of the workbooks this package writes.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var ErrEmptySheet = errors.New("importer: sheet has no data rows")

// Case is a parsed request and the 1-based sheet row it came from.
type Case struct {
	Row     int
	Request scaleup.Request
}

// RowError is a sheet row that could not be parsed.
type RowError struct {
	Row int
	Err error
}

func (e RowError) Error() string { return fmt.Sprintf("row %d: %v", e.Row, e.Err) }
func (e RowError) Unwrap() error { return e.Err }

type Workbook struct {
	Cases   []Case
	Skipped []RowError
}

// Requests returns the parsed requests in sheet order.
func (wb Workbook) Requests() []scaleup.Request {
	out := make([]scaleup.Request, 0, len(wb.Cases))
	for _, c := range wb.Cases {
		out = append(out, c.Request)
	}
	return out
}

// Read parses the first sheet of an .xlsx workbook. Rows that cannot be
// parsed are collected in Skipped; blank rows are ignored.
func Read(r io.Reader) (Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Workbook{}, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return Workbook{}, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) < 2 {
		return Workbook{}, ErrEmptySheet
	}

	var wb Workbook
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if blank(row) {
			continue
		}
		req, err := parseRow(row)
		if err != nil {
			wb.Skipped = append(wb.Skipped, RowError{Row: i + 1, Err: err})
			continue
		}
		wb.Cases = append(wb.Cases, Case{Row: i + 1, Request: req})
	}
	return wb, nil
}

func parseRow(row []string) (scaleup.Request, error) {
	req := scaleup.Request{Method: scaleup.Method(cell(row, colMethod))}

	nums := []struct {
		col int
		dst *float64
	}{
		{colDSmall, &req.Source.DiameterMM},
		{colNSmall, &req.Source.SpeedRPM},
		{colTSmall, &req.Source.DurationSec},
		{colDLarge, &req.Target.DiameterMM},
		{colNLarge, &req.TargetSpeedRPM},
		{colTLarge, &req.TargetDurationSec},
	}
	for _, n := range nums {
		s := cell(row, n.col)
		if s == "" {
			continue
		}
		v, err := toFloat(s)
		if err != nil {
			return scaleup.Request{}, fmt.Errorf("%s: %q is not a number", Header[n.col], s)
		}
		*n.dst = v
	}

	solve := cell(row, colSolve)
	switch {
	case solve != "":
		q, err := scaleup.ParseQuantity(strings.ToLower(solve))
		if err != nil {
			return scaleup.Request{}, err
		}
		req.Solve = q
	case req.TargetSpeedRPM != 0 && req.TargetDurationSec == 0:
		req.Solve = scaleup.QuantityDuration
	case req.TargetDurationSec != 0 && req.TargetSpeedRPM == 0:
		req.Solve = scaleup.QuantitySpeed
	default:
		return scaleup.Request{}, fmt.Errorf("solve is blank and cannot be inferred")
	}
	return req, nil
}

// WriteResults writes a workbook with one Results row per case, and a
// Skipped sheet when some rows could not be parsed. out must come from
// solving wb.Requests().
func WriteResults(w io.Writer, wb Workbook, out batch.Output) error {
	if len(out.Results) != len(wb.Cases) {
		return fmt.Errorf("importer: %d results for %d cases", len(out.Results), len(wb.Cases))
	}

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", resultsSheet); err != nil {
		return err
	}

	header := []any{"row"}
	for _, h := range Header {
		header = append(header, h)
	}
	header = append(header, "result", "unit", "error")
	if err := f.SetSheetRow(resultsSheet, "A1", &header); err != nil {
		return err
	}

	for i, c := range wb.Cases {
		res := out.Results[i]
		req := c.Request
		values := []any{
			c.Row, string(req.Method), string(req.Solve),
			req.Source.DiameterMM, req.Source.SpeedRPM, req.Source.DurationSec,
			req.Target.DiameterMM, optional(req.TargetSpeedRPM), optional(req.TargetDurationSec),
		}
		if res.Result != nil {
			values = append(values, res.Result.Value, string(res.Result.Unit), "")
		} else {
			values = append(values, "", "", res.Error)
		}
		if err := setRow(f, resultsSheet, i+2, values); err != nil {
			return err
		}
	}

	if len(wb.Skipped) > 0 {
		if _, err := f.NewSheet(skippedSheet); err != nil {
			return err
		}
		if err := setRow(f, skippedSheet, 1, []any{"row", "error"}); err != nil {
			return err
		}
		for i, s := range wb.Skipped {
			if err := setRow(f, skippedSheet, i+2, []any{s.Row, s.Err.Error()}); err != nil {
				return err
			}
		}
	}
	return f.Write(w)
}

// WriteTemplate writes an input workbook holding the header and one example
// row per quantity, filled with the default field values.
func WriteTemplate(w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", casesSheet); err != nil {
		return err
	}
	header := make([]any, 0, len(Header))
	for _, h := range Header {
		header = append(header, h)
	}
	rows := [][]any{
		header,
		{string(scaleup.TipSpeed), string(scaleup.QuantityDuration),
			input.DSmall.Default, input.NSmall.Default, input.TSmall.Default,
			input.DLarge.Default, input.NLarge.Default, ""},
		{string(scaleup.TipDistance), string(scaleup.QuantitySpeed),
			input.DSmall.Default, input.NSmall.Default, input.TSmall.Default,
			input.DLarge.Default, "", input.TLarge.Default},
	}
	for i, row := range rows {
		if err := setRow(f, casesSheet, i+1, row); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(casesSheet, "A", "A", 40); err != nil {
		return err
	}
	return f.Write(w)
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	addr, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, addr, &values)
}

func optional(v float64) any {
	if v == 0 {
		return ""
	}
	return v
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func toFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}
