package importer

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"Hydrocalc/internal/apperr"
	"Hydrocalc/internal/auth"
	"Hydrocalc/internal/calc/cylinder"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/language"
)

const MaxUploadSize = 10 << 20

var ErrEmptySheet = errors.New("empty sheet")

type Handler struct {
	Formatter *cylinder.Formatter
	Log       *slog.Logger
}

func (h *Handler) logger() *slog.Logger {
	if h.Log != nil {
		return h.Log
	}
	return slog.Default()
}

type SkippedRow struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

type CylinderImportResult struct {
	Count   int                 `json:"count"`
	Results []cylinder.Response `json:"results"`
	Skipped []SkippedRow        `json:"skipped,omitempty"`
}

func (h *Handler) Cylinders(w http.ResponseWriter, r *http.Request) {
	login, _ := auth.LoginFrom(r.Context())
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize)
	file, _, err := r.FormFile("file")
	if err != nil {
		apperr.Respond(w, h.Log, apperr.New("import.upload", apperr.KindInvalidInput, fmt.Errorf("file required: %w", err)), "login", login)
		return
	}
	defer file.Close()

	f := h.Formatter
	if f == nil {
		f = cylinder.NewFormatter(language.English)
	}
	res, err := ImportCylinders(file, f)
	if err != nil {
		apperr.Respond(w, h.Log, err, "login", login)
		return
	}
	h.logger().Info("import.done", "login", login, "count", res.Count, "skipped", len(res.Skipped))
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}

// ImportCylinders derives one cylinder per row of the first sheet.
// expected columns: bore, rod, stroke, pressure, flow, efficiency, unit_system(optional)
// The first row is a header. Blank rows are ignored; cells that are not
// numbers count as 0.
func ImportCylinders(r io.Reader, f *cylinder.Formatter) (CylinderImportResult, error) {
	book, err := excelize.OpenReader(r)
	if err != nil {
		return CylinderImportResult{}, apperr.New("import.open", apperr.KindInvalidInput, err)
	}
	defer book.Close()

	sheet := book.GetSheetName(0)
	rows, err := book.GetRows(sheet)
	if err != nil {
		return CylinderImportResult{}, apperr.New("import.read", apperr.KindInvalidInput, err)
	}
	if len(rows) < 2 {
		return CylinderImportResult{}, apperr.New("import.read", apperr.KindInvalidInput, ErrEmptySheet)
	}

	out := CylinderImportResult{Results: []cylinder.Response{}}
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if blank(row) {
			continue
		}
		res, err := cylinder.Calculate(parseCylinderRow(row), f)
		if err != nil {
			out.Skipped = append(out.Skipped, SkippedRow{Row: i + 1, Reason: err.Error()})
			continue
		}
		out.Results = append(out.Results, res)
	}
	out.Count = len(out.Results)
	return out, nil
}

func parseCylinderRow(row []string) cylinder.Request {
	cell := func(i int) cylinder.Field {
		if i < len(row) {
			return cylinder.Field(row[i])
		}
		return ""
	}
	return cylinder.Request{
		UnitSystem: string(cell(6)),
		Inputs: cylinder.RawInputs{
			Bore:       cell(0),
			Rod:        cell(1),
			Stroke:     cell(2),
			Pressure:   cell(3),
			Flow:       cell(4),
			Efficiency: cell(5),
		},
	}
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
