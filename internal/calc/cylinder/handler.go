package cylinder

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"Hydrocalc/internal/apperr"

	"golang.org/x/text/language"
)

type Request struct {
	UnitSystem string    `json:"unit_system"`
	Inputs     RawInputs `json:"inputs"`
}

type Response struct {
	UnitSystem UnitSystem `json:"unit_system"`
	Labels     LabelSet   `json:"labels"`
	Inputs     Inputs     `json:"inputs"`
	Result     Result     `json:"result"`
	Display    Display    `json:"display"`
}

// Calculate parses the raw fields and runs Derive. It fails only on an
// unknown unit system; field text never causes an error.
func Calculate(req Request, f *Formatter) (Response, error) {
	system, err := ParseUnitSystem(req.UnitSystem)
	if err != nil {
		return Response{}, err
	}
	in := req.Inputs.Parse()
	res := Derive(in, system)
	return Response{
		UnitSystem: system,
		Labels:     Labels(system),
		Inputs:     in,
		Result:     res,
		Display:    Render(res, f),
	}, nil
}

type ConvertRequest struct {
	From   string    `json:"from"`
	To     string    `json:"to"`
	Inputs RawInputs `json:"inputs"`
}

type ConvertResponse struct {
	UnitSystem UnitSystem `json:"unit_system"`
	Labels     LabelSet   `json:"labels"`
	Inputs     Inputs     `json:"inputs"`
}

type Handler struct {
	Formatter *Formatter
	Log       *slog.Logger
}

var defaultFormatter = NewFormatter(language.English)

func (h *Handler) formatter() *Formatter {
	if h.Formatter == nil {
		return defaultFormatter
	}
	return h.Formatter
}

func (h *Handler) Calc(w http.ResponseWriter, r *http.Request) {
	var input Request
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		apperr.Respond(w, h.Log, apperr.New("cylinder.calc", apperr.KindInvalidInput, err))
		return
	}
	res, err := Calculate(input, h.formatter())
	if err != nil {
		apperr.Respond(w, h.Log, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}

func (h *Handler) Units(w http.ResponseWriter, r *http.Request) {
	system, err := ParseUnitSystem(r.URL.Query().Get("system"))
	if err != nil {
		apperr.Respond(w, h.Log, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(struct {
		UnitSystem UnitSystem `json:"unit_system"`
		Labels     LabelSet   `json:"labels"`
	}{system, Labels(system)})
}

func (h *Handler) Convert(w http.ResponseWriter, r *http.Request) {
	var input ConvertRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		apperr.Respond(w, h.Log, apperr.New("cylinder.convert", apperr.KindInvalidInput, err))
		return
	}
	from, err := ParseUnitSystem(input.From)
	if err != nil {
		apperr.Respond(w, h.Log, err)
		return
	}
	to, err := ParseUnitSystem(input.To)
	if err != nil {
		apperr.Respond(w, h.Log, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ConvertResponse{
		UnitSystem: to,
		Labels:     Labels(to),
		Inputs:     ConvertInputs(input.Inputs.Parse(), from, to),
	})
}
