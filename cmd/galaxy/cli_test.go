package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"galaxy-server/internal/auth"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/viper"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cfg := writeFile(t, "galaxy.toml", "jwt_secret = \""+testSecret+"\"\nlog_level = \"error\"\n")

	cmd := newRootCmd(viper.New())
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--config", cfg}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestSimulateJSON(t *testing.T) {
	out, err := run(t, "simulate", "--ticks", "5", "--seed", "42", "--systems", "2", "--black-holes", "1", "--json")
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}

	var got simulateSummary
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}

	if got.Seed != 42 || got.Ticks != 5 || got.Systems != 2 || got.BlackHoles != 1 {
		t.Errorf("summary = %+v", got)
	}
	if got.Planets+got.Absorbed+got.Merges < 1 {
		t.Errorf("no planets accounted for: %+v", got)
	}
}

func TestSimulateSameSeedIsDeterministic(t *testing.T) {
	args := []string{"simulate", "--ticks", "30", "--seed", "7", "--json"}

	first, err := run(t, args...)
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	second, err := run(t, args...)
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("runs differ (-first +second):\n%s", diff)
	}
}

func TestSimulateScenario(t *testing.T) {
	path := writeFile(t, "scene.toml", `
name = "pair"

[[system]]
x = 0
y = 0
star = "sun"
planets = 3

[[system]]
x = 1500
y = 0
star = "red_giant"
planets = 0
`)

	out, err := run(t, "simulate", "--ticks", "1", "--seed", "1", "--scenario", path, "--json")
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	var got simulateSummary
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Systems != 2 || got.BlackHoles != 0 {
		t.Errorf("summary = %+v", got)
	}
}

func TestSimulateRejectsNegativeTicks(t *testing.T) {
	if _, err := run(t, "simulate", "--ticks", "-1"); err == nil {
		t.Fatal("expected an error for negative ticks")
	}
}

func TestSimulateText(t *testing.T) {
	out, err := run(t, "simulate", "--ticks", "2", "--seed", "3")
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	for _, want := range []string{"seed:         3", "ticks:        2", "systems:      8"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestTokenRoles(t *testing.T) {
	tokens, err := auth.NewTokenManager(testSecret, 0)
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}

	tests := []struct {
		role    string
		want    auth.Role
		wantErr bool
	}{
		{role: "admin", want: auth.RoleAdmin},
		{role: "viewer", want: auth.RoleViewer},
		{role: "root", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			out, err := run(t, "token", "--role", tt.role)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("token: %v", err)
			}

			claims, err := tokens.Validate(strings.TrimSpace(out))
			if err != nil {
				t.Fatalf("Validate: %v", err)
			}
			if claims.Role != tt.want {
				t.Errorf("role = %q, want %q", claims.Role, tt.want)
			}
		})
	}
}

func TestMissingConfigFileFails(t *testing.T) {
	cmd := newRootCmd(viper.New())
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "missing.toml"), "simulate", "--ticks", "0"})
	if err := cmd.Execute(); err == nil {
		t.Fatal("expected an error for a missing config file")
	}
}
