package cli

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"Hydrocalc/internal/auth"

	"golang.org/x/crypto/bcrypt"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--env-file", filepath.Join(t.TempDir(), "none.env")))
	err := cmd.Execute()
	return out.String(), err
}

func TestCalc_Metric(t *testing.T) {
	out, err := run(t, "calc", "--locale", "en",
		"--bore", "50", "--rod", "25", "--stroke", "300",
		"--pressure", "150", "--flow", "20", "--efficiency", "0.9")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Cylinder (metric)", "19.63 cm²", "26.51 kN", "19.88 kN", "10.19 mm/s", "51.54 s"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if n := strings.Count(strings.TrimSpace(out), "\n"); n != 9 {
		t.Errorf("expected header plus nine rows, got %d newlines", n)
	}
}

func TestCalc_ImperialAndJunkInput(t *testing.T) {
	out, err := run(t, "calc", "--locale", "en", "--system", "imperial", "--bore", "2in", "--flow", "abc")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "3.14 in²") || !strings.Contains(out, "0.00 in/s") {
		t.Errorf("output:\n%s", out)
	}
}

func TestCalc_UnknownSystem(t *testing.T) {
	if _, err := run(t, "calc", "--locale", "en", "--system", "rods"); err == nil {
		t.Error("expected error for unknown unit system")
	}
}

func TestToken(t *testing.T) {
	t.Setenv("TOKEN_KEY", "cli-test-key")
	out, err := run(t, "token", "--login", "ops", "--ttl", "1h")
	if err != nil {
		t.Fatal(err)
	}
	env := &auth.Authenv{JWTkey: []byte("cli-test-key")}
	login, err := env.ParseToken(strings.TrimSpace(out))
	if err != nil || login != "ops" {
		t.Errorf("ParseToken = %q, %v", login, err)
	}
}

func TestToken_NoKey(t *testing.T) {
	t.Setenv("TOKEN_KEY", "")
	if _, err := run(t, "token"); err == nil {
		t.Error("expected error without TOKEN_KEY")
	}
}

func TestHashPassword(t *testing.T) {
	out, err := run(t, "hash-password", "hunter2")
	if err != nil {
		t.Fatal(err)
	}
	if bcrypt.CompareHashAndPassword([]byte(strings.TrimSpace(out)), []byte("hunter2")) != nil {
		t.Errorf("hash %q does not verify", out)
	}
	if _, err := run(t, "hash-password"); err == nil {
		t.Error("expected argument error")
	}
}
