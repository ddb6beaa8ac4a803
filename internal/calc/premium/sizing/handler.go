package sizing

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"Hydrocalc/internal/apperr"
	"Hydrocalc/internal/auth"
)

type Handler struct {
	Log *slog.Logger
}

func (h *Handler) Bore(w http.ResponseWriter, r *http.Request) {
	login, _ := auth.LoginFrom(r.Context())
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		apperr.Respond(w, h.Log, apperr.New("sizing.decode", apperr.KindInvalidInput, err), "login", login)
		return
	}
	res, err := Bore(input)
	if err != nil {
		apperr.Respond(w, h.Log, err, "login", login)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}
