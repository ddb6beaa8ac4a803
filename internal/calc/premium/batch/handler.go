package batch

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"Hydrocalc/internal/apperr"
	"Hydrocalc/internal/auth"
	"Hydrocalc/internal/calc/cylinder"

	"golang.org/x/text/language"
)

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

func (h *Handler) Cylinders(w http.ResponseWriter, r *http.Request) {
	login, _ := auth.LoginFrom(r.Context())
	var input CylinderBatchInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		apperr.Respond(w, h.Log, apperr.New("batch.decode", apperr.KindInvalidInput, err), "login", login)
		return
	}
	f := h.Formatter
	if f == nil {
		f = cylinder.NewFormatter(language.English)
	}
	res, err := CalculateCylinders(input, f)
	if err != nil {
		apperr.Respond(w, h.Log, err, "login", login)
		return
	}
	h.logger().Info("batch.done", "login", login, "count", res.Count)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}
