package main

import (
	"bytes"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/example/go-lipi/internal/config"
	"github.com/example/go-lipi/internal/script"
	"github.com/example/go-lipi/internal/server"
)

// execute runs the root command with args and returns what it wrote to stdout.
func execute(t *testing.T, stdin io.Reader, args ...string) (string, error) {
	t.Helper()

	root := NewRootCmd()

	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	if stdin != nil {
		root.SetIn(stdin)
	}
	root.SetArgs(args)

	err := root.Execute()

	return stdout.String(), err
}

func TestNewRootCmd_HasExpectedSubcommands(t *testing.T) {
	root := NewRootCmd()

	want := []string{"convert", "tokens", "scripts", "serve", "health", "doctor", "bench"}
	for _, name := range want {
		found := false

		for _, sub := range root.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}

		if !found {
			t.Errorf("expected subcommand %q not found in root", name)
		}
	}
}

func TestNewRootCmd_HasPersistentFlags(t *testing.T) {
	root := NewRootCmd()

	for _, name := range []string{"config", "from", "to", "table-dir", "log-level"} {
		if root.PersistentFlags().Lookup(name) == nil {
			t.Errorf("expected --%s persistent flag to be registered", name)
		}
	}
}

func TestSetupLogger_DoesNotPanic(_ *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		setupLogger(level)
	}
}

func TestSetupLogger_InvalidLevelFallsBackToInfo(_ *testing.T) {
	// Should not panic on invalid level.
	setupLogger("not-a-level")
}

func TestRequireConfig_FailsWhenNotInitialized(t *testing.T) {
	orig := activeCfg

	t.Cleanup(func() { activeCfg = orig })

	activeCfg = config.Config{}

	_, err := requireConfig()
	if err == nil {
		t.Fatal("expected error when config is not loaded")
	}
}

func TestRequireConfig_SucceedsWhenLoaded(t *testing.T) {
	orig := activeCfg

	t.Cleanup(func() { activeCfg = orig })

	activeCfg = config.DefaultConfig()

	got, err := requireConfig()
	if err != nil {
		t.Fatalf("requireConfig returned unexpected error: %v", err)
	}

	if got.Scripts.Source != "devanagari" {
		t.Errorf("unexpected Scripts.Source: %q", got.Scripts.Source)
	}
}

func TestResolveScripts(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Scripts.Source = "IAST"
	cfg.Scripts.Target = "tel"

	source, target, err := resolveScripts(cfg)
	if err != nil {
		t.Fatalf("resolveScripts: %v", err)
	}

	if source != "iast_iso" || target != "telugu" {
		t.Errorf("resolveScripts = %s, %s; want iast_iso, telugu", source, target)
	}

	cfg.Scripts.Target = "klingon"
	if _, _, err := resolveScripts(cfg); err == nil || !strings.Contains(err.Error(), "--to") {
		t.Errorf("resolveScripts error = %v; want error naming --to", err)
	}
}

func TestScriptsCmd_ListsEveryScript(t *testing.T) {
	out, err := execute(t, nil, "scripts")
	if err != nil {
		t.Fatalf("scripts: %v", err)
	}

	want := map[string]string{
		"devanagari": "abugida",
		"iast_iso":   "romanized",
		"kannada":    "abugida",
		"telugu":     "abugida",
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d:\n%s", len(lines), len(want), out)
	}

	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) != 2 || want[fields[0]] != fields[1] {
			t.Errorf("unexpected line %q", line)
		}
	}
}

func TestTokensCmd_PrintsGraphemesAndTokens(t *testing.T) {
	out, err := execute(t, nil, "tokens", "--from", "devanagari", "--text", "कि")
	if err != nil {
		t.Fatalf("tokens: %v", err)
	}

	for _, want := range []string{"graphemes (1): कि", `Consonant("k")`, `VowelSign("i")`} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestDoctorCmd_EmbeddedTablesPass(t *testing.T) {
	out, err := execute(t, nil, "doctor")
	if err != nil {
		t.Fatalf("doctor: %v\n%s", err, out)
	}

	if !strings.Contains(out, "tables: embedded") {
		t.Errorf("output should name the table source:\n%s", out)
	}

	if !strings.Contains(out, "doctor checks passed") {
		t.Errorf("output should report success:\n%s", out)
	}
}

func TestDoctorCmd_BadConfiguredScriptFails(t *testing.T) {
	_, err := execute(t, nil, "doctor", "--to", "klingon")
	if err == nil {
		t.Fatal("expected doctor to fail for an unknown target script")
	}
}

func TestHealthCmd(t *testing.T) {
	p := server.NewPipeline(script.Default(), 0, 1)
	ts := httptest.NewServer(server.NewHandler(p, p))
	defer ts.Close()
	addr := strings.TrimPrefix(ts.URL, "http://")

	out, err := execute(t, nil, "health", "--addr", addr, "--from", "telugu", "--to", "iast")
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	if strings.TrimSpace(out) != "ok (telugu, iast_iso)" {
		t.Errorf("output = %q", out)
	}

	_, err = execute(t, nil, "health", "--addr", "127.0.0.1:1", "--timeout", "200ms")
	if err == nil || !strings.Contains(err.Error(), "probe 127.0.0.1:1") {
		t.Errorf("expected probe error for unreachable addr, got %v", err)
	}
}
