package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"Hydrocalc/internal/apperr"
	"Hydrocalc/internal/auth"
	"Hydrocalc/internal/calc/cylinder"

	gonanoid "github.com/matoous/go-nanoid"
	"github.com/phpdave11/gofpdf"
	"golang.org/x/text/language"
)

const idAlphabet = "0123456789ABCDEFGHJKLMNPQRSTUVWXYZ"

type Input struct {
	Project    string             `json:"project"`
	Author     string             `json:"author"`
	Title      string             `json:"title"`
	Notes      string             `json:"notes"`
	UnitSystem string             `json:"unit_system"`
	Inputs     cylinder.RawInputs `json:"inputs"`
}

type Handler struct {
	Formatter *cylinder.Formatter
	Now       func() time.Time
	Log       *slog.Logger
}

func (h *Handler) logger() *slog.Logger {
	if h.Log != nil {
		return h.Log
	}
	return slog.Default()
}

func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	login, _ := auth.LoginFrom(r.Context())
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		apperr.Respond(w, h.Log, apperr.New("report.decode", apperr.KindInvalidInput, err), "login", login)
		return
	}
	f := h.Formatter
	if f == nil {
		f = cylinder.NewFormatter(language.English)
	}
	calc, err := cylinder.Calculate(cylinder.Request{UnitSystem: input.UnitSystem, Inputs: input.Inputs}, f)
	if err != nil {
		apperr.Respond(w, h.Log, err, "login", login)
		return
	}
	id, err := gonanoid.Generate(idAlphabet, 10)
	if err != nil {
		apperr.Respond(w, h.Log, apperr.New("report.id", apperr.KindInternal, err), "login", login)
		return
	}
	now := time.Now
	if h.Now != nil {
		now = h.Now
	}

	var buf bytes.Buffer
	if err := Write(&buf, id, now(), input, calc, f); err != nil {
		apperr.Respond(w, h.Log, apperr.New("report.write", apperr.KindInternal, err), "login", login, "report", id)
		return
	}
	h.logger().Info("report.generated", "login", login, "report", id, "bytes", buf.Len())
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"cylinder-%s.pdf\"", id))
	w.Write(buf.Bytes())
}

// Write renders the report PDF for one calculation.
func Write(w io.Writer, id string, at time.Time, input Input, calc cylinder.Response, f *cylinder.Formatter) error {
	if input.Title == "" {
		input.Title = "Hydraulic Cylinder Report"
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	// core fonts are cp1252; labels such as cm² need translating
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, tr(input.Title))
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, tr(fmt.Sprintf("Project: %s", input.Project)))
	pdf.Ln(6)
	pdf.Cell(0, 6, tr(fmt.Sprintf("Author: %s", input.Author)))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Date: %s", at.Format("2006-01-02")))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Report: %s", id))
	pdf.Ln(10)

	labels := calc.Labels
	in := calc.Inputs
	section(pdf, "Inputs")
	row(pdf, tr, "Bore", f.Quantity(cylinder.Quantity{Value: in.Bore, Unit: labels[cylinder.Length]}))
	row(pdf, tr, "Rod", f.Quantity(cylinder.Quantity{Value: in.Rod, Unit: labels[cylinder.Length]}))
	row(pdf, tr, "Stroke", f.Quantity(cylinder.Quantity{Value: in.Stroke, Unit: labels[cylinder.Length]}))
	row(pdf, tr, "Pressure", f.Quantity(cylinder.Quantity{Value: in.Pressure, Unit: labels[cylinder.Pressure]}))
	row(pdf, tr, "Flow", f.Quantity(cylinder.Quantity{Value: in.Flow, Unit: labels[cylinder.Flow]}))
	row(pdf, tr, "Efficiency", f.Number(in.Efficiency))
	pdf.Ln(4)

	section(pdf, "Results")
	for _, kv := range calc.Display.Rows() {
		row(pdf, tr, kv[0], kv[1])
	}

	if input.Notes != "" {
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, 6, tr(input.Notes), "", "L", false)
	}
	return pdf.Output(w)
}

func section(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, title)
	pdf.Ln(8)
}

func row(pdf *gofpdf.Fpdf, tr func(string) string, name, value string) {
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(60, 7, tr(name), "1", 0, "L", false, 0, "")
	pdf.CellFormat(60, 7, tr(value), "1", 1, "R", false, 0, "")
}
