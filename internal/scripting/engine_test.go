package scripting

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
)

func newEngine(t *testing.T, dir string) *Engine {
	t.Helper()
	e, err := NewEngine(dir, zap.NewNop())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	t.Cleanup(e.Close)
	return e
}

func TestDefaultsWithoutScripts(t *testing.T) {
	e := newEngine(t, t.TempDir())

	prompt, answer := e.MakeChallenge(2, 3)
	if prompt != "What is 2 + 3?" || answer != 5 {
		t.Errorf("MakeChallenge = %q, %d", prompt, answer)
	}
	if d := e.EatingDuration(2*time.Second, 4*time.Second, 0.25); d != 2500*time.Millisecond {
		t.Errorf("EatingDuration = %s", d)
	}
}

func TestScriptOverrides(t *testing.T) {
	e := newEngine(t, t.TempDir())
	err := e.LoadString(`
function make_challenge(a, b)
  return { prompt = "times " .. a .. " " .. b, answer = a * b }
end
function eating_duration(min_ms, max_ms, roll)
  return max_ms * 2
end
`)
	if err != nil {
		t.Fatalf("LoadString: %v", err)
	}

	prompt, answer := e.MakeChallenge(3, 4)
	if prompt != "times 3 4" || answer != 12 {
		t.Errorf("MakeChallenge = %q, %d", prompt, answer)
	}
	if d := e.EatingDuration(time.Second, 3*time.Second, 0.5); d != 3*time.Second {
		t.Errorf("EatingDuration not clamped: %s", d)
	}
}

func TestBrokenScriptFallsBack(t *testing.T) {
	e := newEngine(t, t.TempDir())
	if err := e.LoadString(`
function make_challenge(a, b) error("boom") end
function eating_duration() return "soon" end
`); err != nil {
		t.Fatal(err)
	}
	if prompt, answer := e.MakeChallenge(1, 1); prompt != "What is 1 + 1?" || answer != 2 {
		t.Errorf("fallback challenge = %q, %d", prompt, answer)
	}
	if d := e.EatingDuration(time.Second, 2*time.Second, 0); d != time.Second {
		t.Errorf("fallback duration = %s", d)
	}
}

func TestLoadsCareDirectory(t *testing.T) {
	dir := t.TempDir()
	care := filepath.Join(dir, "care")
	if err := os.MkdirAll(care, 0o755); err != nil {
		t.Fatal(err)
	}
	script := `function make_challenge(a, b) return { prompt = "sum?", answer = a + b + 1 } end`
	if err := os.WriteFile(filepath.Join(care, "x.lua"), []byte(script), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(care, "notes.txt"), []byte("ignored"), 0o644); err != nil {
		t.Fatal(err)
	}

	e := newEngine(t, dir)
	if _, answer := e.MakeChallenge(1, 1); answer != 3 {
		t.Errorf("script not loaded, answer = %d", answer)
	}
}

func TestSyntaxErrorFailsLoad(t *testing.T) {
	dir := t.TempDir()
	care := filepath.Join(dir, "care")
	os.MkdirAll(care, 0o755)
	os.WriteFile(filepath.Join(care, "bad.lua"), []byte("function ("), 0o644)

	if _, err := NewEngine(dir, zap.NewNop()); err == nil {
		t.Fatal("expected load error")
	}
}

func TestShippedScripts(t *testing.T) {
	e := newEngine(t, filepath.Join("..", "..", "scripts"))
	if prompt, answer := e.MakeChallenge(4, 2); prompt != "What is 4 + 2?" || answer != 6 {
		t.Errorf("shipped challenge = %q, %d", prompt, answer)
	}
	d := e.EatingDuration(3*time.Second, 8*time.Second, 0.5)
	if d != 4250*time.Millisecond {
		t.Errorf("shipped eating duration = %s, want 4.25s", d)
	}
}
