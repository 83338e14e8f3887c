package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine wraps a single gopher-lua VM that decides what a level spawns.
// Single-goroutine access only.
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine and loads every .lua file in scriptsDir.
// A missing directory loads nothing.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState()
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log}
	vm.SetGlobal("log", vm.NewFunction(e.luaLog))

	if err := e.loadDir(scriptsDir); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load scripts: %w", err)
	}
	return e, nil
}

// LoadString runs a chunk of Lua source, mainly for tests and the console.
func (e *Engine) LoadString(src string) error {
	return e.vm.DoString(src)
}

func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
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

func (e *Engine) luaLog(L *lua.LState) int {
	e.log.Info("lua", zap.String("msg", L.CheckString(1)))
	return 0
}

// SpawnContext describes the level being populated.
type SpawnContext struct {
	Level    string
	TileSize int
	Seed     int64
}

// Spawn is one entity requested by a script.
type Spawn struct {
	Name   string
	Sprite string // sprite sheet path; empty means the player's sheet
	X, Y   float64
	Speed  float64
}

func (e *Engine) contextTable(ctx SpawnContext) *lua.LTable {
	t := e.vm.NewTable()
	t.RawSetString("level", lua.LString(ctx.Level))
	t.RawSetString("tile_size", lua.LNumber(ctx.TileSize))
	t.RawSetString("seed", lua.LNumber(ctx.Seed))
	return t
}

// call invokes a global function with one argument and returns its single
// result, or nil when the function is not defined.
func (e *Engine) call(name string, arg lua.LValue) (lua.LValue, error) {
	fn := e.vm.GetGlobal(name)
	if fn == lua.LNil {
		return nil, nil
	}
	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, arg); err != nil {
		return nil, fmt.Errorf("lua %s: %w", name, err)
	}
	result := e.vm.Get(-1)
	e.vm.Pop(1)
	return result, nil
}

// PlayerStart calls Lua player_start(ctx). ok is false when the script does
// not define a start position.
func (e *Engine) PlayerStart(ctx SpawnContext) (x, y float64, ok bool, err error) {
	result, err := e.call("player_start", e.contextTable(ctx))
	if err != nil || result == nil || result == lua.LNil {
		return 0, 0, false, err
	}
	rt, isTable := result.(*lua.LTable)
	if !isTable {
		return 0, 0, false, fmt.Errorf("lua player_start returned %s, want table", result.Type())
	}
	return lNum(rt, "x"), lNum(rt, "y"), true, nil
}

// Spawns calls Lua spawn_entities(ctx), which returns a list of
// {name, sprite, x, y, speed} tables.
func (e *Engine) Spawns(ctx SpawnContext) ([]Spawn, error) {
	result, err := e.call("spawn_entities", e.contextTable(ctx))
	if err != nil || result == nil || result == lua.LNil {
		return nil, err
	}
	rt, ok := result.(*lua.LTable)
	if !ok {
		return nil, fmt.Errorf("lua spawn_entities returned %s, want table", result.Type())
	}

	var spawns []Spawn
	for i := 1; i <= rt.Len(); i++ {
		st, ok := rt.RawGetInt(i).(*lua.LTable)
		if !ok {
			return nil, fmt.Errorf("lua spawn_entities[%d]: want table", i)
		}
		spawns = append(spawns, Spawn{
			Name:   lStr(st, "name"),
			Sprite: lStr(st, "sprite"),
			X:      lNum(st, "x"),
			Y:      lNum(st, "y"),
			Speed:  lNum(st, "speed"),
		})
	}
	return spawns, nil
}

func lNum(t *lua.LTable, key string) float64 {
	return float64(lua.LVAsNumber(t.RawGetString(key)))
}

// lStr reads a string field, returning "" for nil.
func lStr(t *lua.LTable, key string) string {
	v := t.RawGetString(key)
	if v == lua.LNil {
		return ""
	}
	return lua.LVAsString(v)
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}
