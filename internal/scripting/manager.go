// Package scripting runs sandboxed GopherLua hooks. It has no dependency on
// battle packages: callers pass plain snapshots and read back plain values.
package scripting

import (
	"fmt"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// CombatantInfo is a snapshot of a combatant passed to Lua hooks as the table
// { id, name, hp, max_hp, status }.
type CombatantInfo struct {
	ID     string
	Name   string
	HP     int
	MaxHP  int
	Status string
}

// Manager owns one sandboxed LState and dispatches hook calls into it.
//
// An LState is single-threaded; Manager serializes every call so concurrent
// battles may share one Manager.
type Manager struct {
	mu        sync.Mutex
	state     *lua.LState
	instLimit int
	logger    *zap.Logger
}

// NewManager creates a Manager with no script loaded.
//
// Precondition: logger must be non-nil.
func NewManager(logger *zap.Logger) *Manager {
	return &Manager{logger: logger, instLimit: DefaultInstructionLimit}
}

// Load replaces the Manager's VM with a fresh sandbox that has executed src.
// instLimit bounds the load and every later hook call; 0 uses
// DefaultInstructionLimit.
//
// Postcondition: On error the previous VM, if any, stays in place.
func (m *Manager) Load(name, src string, instLimit int) error {
	if instLimit <= 0 {
		instLimit = DefaultInstructionLimit
	}
	L := NewSandboxedState()
	err := limited(L, instLimit, func() error { return L.DoString(src) })
	if err != nil {
		L.Close()
		return fmt.Errorf("scripting: loading %q: %w", name, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != nil {
		m.state.Close()
	}
	m.state = L
	m.instLimit = instLimit
	return nil
}

// Close releases the VM.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != nil {
		m.state.Close()
		m.state = nil
	}
}

// Number calls hook with c and returns its result as a number.
//
// Postcondition: ok is false when no script is loaded, hook is empty or
// undefined, the call fails, or the result is not a number.
func (m *Manager) Number(hook string, c CombatantInfo) (float64, bool) {
	ret, ok := m.call(hook, c)
	n, isNum := ret.(lua.LNumber)
	return float64(n), ok && isNum
}

// String calls hook with c and returns its result as a string.
//
// Postcondition: ok is false when no script is loaded, hook is empty or
// undefined, the call fails, or the result is not a string.
func (m *Manager) String(hook string, c CombatantInfo) (string, bool) {
	ret, ok := m.call(hook, c)
	s, isStr := ret.(lua.LString)
	return string(s), ok && isStr
}

// call invokes the named global function. Lua runtime errors, including an
// exhausted instruction budget, are logged at warn and never propagated.
func (m *Manager) call(hook string, c CombatantInfo) (lua.LValue, bool) {
	if m == nil || hook == "" {
		return lua.LNil, false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == nil {
		return lua.LNil, false
	}
	fn, ok := m.state.GetGlobal(hook).(*lua.LFunction)
	if !ok {
		m.logger.Debug("scripting: hook not defined", zap.String("hook", hook))
		return lua.LNil, false
	}

	L := m.state
	err := limited(L, m.instLimit, func() error {
		return L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, combatantTable(L, c))
	})
	if err != nil {
		m.logger.Warn("scripting: Lua runtime error",
			zap.String("hook", hook),
			zap.String("combatant", c.ID),
			zap.Error(err),
		)
		return lua.LNil, false
	}
	ret := L.Get(-1)
	L.Pop(1)
	return ret, true
}

// limited runs fn with a fresh instruction budget installed on L.
func limited(L *lua.LState, instLimit int, fn func() error) error {
	ctx, cancel := newCountingContext(instLimit)
	L.SetContext(ctx)
	defer func() {
		L.RemoveContext()
		cancel()
	}()
	return fn()
}

func combatantTable(L *lua.LState, c CombatantInfo) *lua.LTable {
	t := L.NewTable()
	t.RawSetString("id", lua.LString(c.ID))
	t.RawSetString("name", lua.LString(c.Name))
	t.RawSetString("hp", lua.LNumber(c.HP))
	t.RawSetString("max_hp", lua.LNumber(c.MaxHP))
	t.RawSetString("status", lua.LString(c.Status))
	return t
}
