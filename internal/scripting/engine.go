package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine wraps a single gopher-lua VM holding the care rules. The VM is not
// goroutine-safe, so every call goes through mu: challenges come from the
// menu goroutine while durations are computed during population.
type Engine struct {
	mu  sync.Mutex
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine and loads every script under
// scriptsDir/care. A missing directory leaves the built-in rules in place.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log}
	if err := e.loadDir(filepath.Join(scriptsDir, "care")); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load care scripts: %w", err)
	}
	return e, nil
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// LoadString runs a chunk of Lua, mostly for tests and ad-hoc overrides.
func (e *Engine) LoadString(src string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.vm.DoString(src)
}

// MakeChallenge calls make_challenge(a, b), which returns
// {prompt=string, answer=number}. Without the function, or on any script
// error, it falls back to a plain sum.
func (e *Engine) MakeChallenge(a, b int) (string, int) {
	fallback := func() (string, int) {
		return fmt.Sprintf("What is %d + %d?", a, b), a + b
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	fn := e.vm.GetGlobal("make_challenge")
	if fn == lua.LNil {
		return fallback()
	}
	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, lua.LNumber(a), lua.LNumber(b)); err != nil {
		e.log.Error("lua make_challenge error", zap.Error(err))
		return fallback()
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)

	rt, ok := result.(*lua.LTable)
	if !ok {
		e.log.Error("lua make_challenge returned non-table")
		return fallback()
	}
	prompt := lStr(rt, "prompt")
	answer, ok := rt.RawGetString("answer").(lua.LNumber)
	if prompt == "" || !ok {
		e.log.Error("lua make_challenge returned incomplete table")
		return fallback()
	}
	return prompt, int(answer)
}

// EatingDuration calls eating_duration(min_ms, max_ms, roll) and clamps the
// result to [lo, hi]. Without the function it interpolates linearly.
func (e *Engine) EatingDuration(lo, hi time.Duration, roll float64) time.Duration {
	linear := lo + time.Duration(roll*float64(hi-lo))

	e.mu.Lock()
	defer e.mu.Unlock()

	fn := e.vm.GetGlobal("eating_duration")
	if fn == lua.LNil {
		return linear
	}
	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, lua.LNumber(lo.Milliseconds()), lua.LNumber(hi.Milliseconds()), lua.LNumber(roll)); err != nil {
		e.log.Error("lua eating_duration error", zap.Error(err))
		return linear
	}

	ret := e.vm.Get(-1)
	e.vm.Pop(1)

	ms, ok := ret.(lua.LNumber)
	if !ok {
		e.log.Error("lua eating_duration returned non-number")
		return linear
	}
	d := time.Duration(float64(ms) * float64(time.Millisecond))
	if d < lo {
		d = lo
	}
	if d > hi {
		d = hi
	}
	return d
}

func lStr(t *lua.LTable, key string) string {
	return lua.LVAsString(t.RawGetString(key))
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.vm.Close()
}
