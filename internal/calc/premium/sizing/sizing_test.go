package sizing

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"Hydrocalc/internal/apperr"
)

func TestBore(t *testing.T) {
	cases := []struct {
		name string
		in   Input
		want float64
	}{
		// 50 mm gives 26.51 kN at 150 bar and 0.9, so 25 kN fits in 50
		{"metric fits 50", Input{TargetForce: 25, Pressure: 150, Efficiency: 0.9}, 50},
		{"metric needs 63", Input{TargetForce: 27, Pressure: 150, Efficiency: 0.9}, 63},
		{"high pressure", Input{TargetForce: 60, Pressure: 200, Efficiency: 1}, 63},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			res, err := Bore(c.in)
			if err != nil {
				t.Fatal(err)
			}
			if res.Bore.Value != c.want {
				t.Errorf("bore = %v, want %v (required %v)", res.Bore.Value, c.want, res.RequiredBore.Value)
			}
			if res.Derived.ExtendForce.Value < c.in.TargetForce*(1-1e-9) {
				t.Errorf("extend force %v below target %v", res.Derived.ExtendForce.Value, c.in.TargetForce)
			}
			if res.Rod.Value != c.want*defaultRodRatio {
				t.Errorf("rod = %v", res.Rod.Value)
			}
		})
	}
}

func TestBore_Imperial(t *testing.T) {
	res, err := Bore(Input{UnitSystem: "imperial", TargetForce: 5000, Pressure: 2000, Efficiency: 0.9, RodRatio: 0.4, Stroke: 10, Flow: 5})
	if err != nil {
		t.Fatal(err)
	}
	if res.Bore.Unit != "in" || res.Derived.ExtendForce.Unit != "lbf" {
		t.Errorf("units = %q / %q", res.Bore.Unit, res.Derived.ExtendForce.Unit)
	}
	if res.Derived.ExtendForce.Value < 5000 {
		t.Errorf("extend force = %v", res.Derived.ExtendForce.Value)
	}
	if res.Derived.CycleTime.Value <= 0 {
		t.Errorf("cycle time = %v, want positive with stroke and flow", res.Derived.CycleTime.Value)
	}
}

func TestBore_Invalid(t *testing.T) {
	cases := []Input{
		{TargetForce: 0, Pressure: 100, Efficiency: 1},
		{TargetForce: 10, Pressure: 0, Efficiency: 1},
		{TargetForce: 10, Pressure: 100, Efficiency: 0},
		{TargetForce: 10, Pressure: 100, Efficiency: 1, RodRatio: 1},
		{TargetForce: 1e9, Pressure: 100, Efficiency: 1},
		{UnitSystem: "ells", TargetForce: 10, Pressure: 100, Efficiency: 1},
	}
	for _, in := range cases {
		_, err := Bore(in)
		if err == nil {
			t.Errorf("expected error for %+v", in)
			continue
		}
		if !apperr.IsKind(err, apperr.KindInvalidInput) {
			t.Errorf("%+v: kind = %s", in, apperr.KindOf(err))
		}
	}
}

func TestHandler_Bore(t *testing.T) {
	h := &Handler{}
	rec := httptest.NewRecorder()
	h.Bore(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"target_force":25,"pressure":150,"efficiency":0.9}`)))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"bore":{"value":50,"unit":"mm"}`) {
		t.Errorf("body = %s", rec.Body.String())
	}

	rec = httptest.NewRecorder()
	h.Bore(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"target_force":-1}`)))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d", rec.Code)
	}
}
