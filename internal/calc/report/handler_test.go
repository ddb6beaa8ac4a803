package report

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"Hydrocalc/internal/auth"
)

func TestGenerate_PDF(t *testing.T) {
	h := &Handler{Now: func() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) }}
	body := `{"project":"Press 4","author":"QA","unit_system":"imperial","inputs":{"bore":"2","rod":"1","stroke":"12","pressure":"2000","flow":"5","efficiency":"0.9"},"notes":"Check seals."}`
	req := httptest.NewRequest(http.MethodPost, "/api/premium/report", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Generate(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body=%s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("Content-Type = %q", ct)
	}
	cd := rec.Header().Get("Content-Disposition")
	if !regexp.MustCompile(`^attachment; filename="cylinder-[0-9A-Z]{10}\.pdf"$`).MatchString(cd) {
		t.Errorf("Content-Disposition = %q", cd)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")) {
		t.Error("body is not a PDF")
	}
}

func TestGenerate_BadRequests(t *testing.T) {
	h := &Handler{}
	for _, body := range []string{`{`, `{"unit_system":"cubits"}`} {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		rec := httptest.NewRecorder()
		h.Generate(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %q: status = %d, want 400", body, rec.Code)
		}
	}
}

func TestGenerate_LogsReportAndLogin(t *testing.T) {
	var logs bytes.Buffer
	h := &Handler{Log: slog.New(slog.NewJSONHandler(&logs, nil))}
	env := &auth.Authenv{JWTkey: []byte("report-test-key")}
	tok, err := env.IssueToken("inspector", time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"inputs":{"bore":"50"}}`))
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	env.AuthMiddleware(http.HandlerFunc(h.Generate)).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	id := strings.TrimSuffix(strings.TrimPrefix(rec.Header().Get("Content-Disposition"), `attachment; filename="cylinder-`), `.pdf"`)
	out := logs.String()
	if !strings.Contains(out, `"msg":"report.generated"`) || !strings.Contains(out, `"login":"inspector"`) || !strings.Contains(out, `"report":"`+id+`"`) {
		t.Errorf("log = %s", out)
	}
}
