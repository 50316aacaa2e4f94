package report

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/phpdave11/gofpdf"

	scaleup "RMGScale/internal/calc/scaleup"
	"RMGScale/internal/input"
)

const defaultTitle = "RMG Scale-Up Report"

type Input struct {
	Project string          `json:"project"`
	Author  string          `json:"author"`
	Title   string          `json:"title"`
	Notes   string          `json:"notes"`
	Date    time.Time       `json:"date"`
	Request scaleup.Request `json:"request"`
}

// Render solves in.Request and writes a one-page A4 PDF to w. Nothing is
// written when the request cannot be solved.
func Render(w io.Writer, in Input) error {
	sum, err := Summarize(in.Request)
	if err != nil {
		return err
	}
	if in.Title == "" {
		in.Title = defaultTitle
	}
	if in.Date.IsZero() {
		in.Date = time.Now()
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(in.Title, false)
	pdf.SetAuthor(in.Author, false)
	pdf.SetCreator("rmgscale", false)
	pdf.SetCreationDate(in.Date)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, in.Title)
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, fmt.Sprintf("Project: %s", in.Project))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Author: %s", in.Author))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Date: %s", in.Date.Format("2006-01-02")))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Method: %s", sum.Result.Method))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(70, 7, "", "1", 0, "L", false, 0, "")
	pdf.CellFormat(50, 7, "Small scale", "1", 0, "C", false, 0, "")
	pdf.CellFormat(50, 7, "Large scale", "1", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	for _, row := range tableRows(sum) {
		pdf.CellFormat(70, 7, row[0], "1", 0, "L", false, 0, "")
		pdf.CellFormat(50, 7, row[1], "1", 0, "R", false, 0, "")
		pdf.CellFormat(50, 7, row[2], "1", 1, "R", false, 0, "")
	}
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, Headline(sum.Result))
	pdf.Ln(10)

	if in.Notes != "" {
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, 6, in.Notes, "", "L", false)
	}
	return pdf.Output(w)
}

// Headline is the one-line statement of a result.
func Headline(res scaleup.Result) string {
	if secs, ok := res.Seconds(); ok {
		return fmt.Sprintf("Scaled granulation time (large scale): %s min (%s s)", num(res.Value), num(secs))
	}
	return fmt.Sprintf("Required large scale impeller speed: %s rpm", num(res.Value))
}

func tableRows(s Summary) [][3]string {
	return [][3]string{
		{"Impeller diameter (mm)", num(s.Small.State.DiameterMM), num(s.Large.State.DiameterMM)},
		{"Impeller speed (rpm)", num(s.Small.State.SpeedRPM), num(s.Large.State.SpeedRPM)},
		{"Granulation time (s)", num(s.Small.State.DurationSec), num(s.Large.State.DurationSec)},
		{"Tip speed (m/s)", num(s.Small.TipSpeedMPS), num(s.Large.TipSpeedMPS)},
		{"Tip distance (m)", num(s.Small.TipDistanceM), num(s.Large.TipDistanceM)},
	}
}

func num(v float64) string {
	return humanize.FtoaWithDigits(v, 2)
}

// Handler serves PDF reports. When Mode is set, the request is checked
// against the input field bounds before anything is rendered.
type Handler struct {
	Recorder scaleup.Recorder
	Mode     input.Mode
}

func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var in Input
	if !scaleup.DecodeJSON(w, r, scaleup.MaxBody, &in) {
		return
	}
	if err := scaleup.ValidateRequest(h.Mode, in.Request); err != nil {
		scaleup.WriteError(w, r, err)
		return
	}
	var buf bytes.Buffer
	err := Render(&buf, in)
	if h.Recorder != nil {
		h.Recorder.ObserveCalculation("report", string(in.Request.Method), err)
	}
	if err != nil {
		scaleup.WriteError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=\"report.pdf\"")
	buf.WriteTo(w)
}
