// Package script drives the buttons of a headless run from a Lua file.
//
// The script may define on_frame(n), which is called before frame n is
// emulated, and may call the following functions:
//
//	press(name)    hold a button down
//	release(name)  let it go
//	stop()         end the run after the current frame
//
// Button names are right, left, up, down, a, b, select and start.
package script

import (
	"fmt"

	"github.com/ushitora-anqou/dmgcore/constant"
	lua "github.com/yuin/gopher-lua"
)

type button struct {
	action bool
	bit    uint8
}

var buttons = map[string]button{
	"right":  {false, constant.DIR_RIGHT},
	"left":   {false, constant.DIR_LEFT},
	"up":     {false, constant.DIR_UP},
	"down":   {false, constant.DIR_DOWN},
	"a":      {true, constant.ACT_A},
	"b":      {true, constant.ACT_B},
	"select": {true, constant.ACT_SELECT},
	"start":  {true, constant.ACT_START},
}

type Script struct {
	L                 *lua.LState
	direction, action uint8
	stopped           bool
}

func newScript() *Script {
	s := &Script{L: lua.NewState()}
	s.L.SetGlobal("press", s.L.NewFunction(s.press))
	s.L.SetGlobal("release", s.L.NewFunction(s.release))
	s.L.SetGlobal("stop", s.L.NewFunction(func(L *lua.LState) int {
		s.stopped = true
		return 0
	}))
	return s
}

func Load(filename string) (*Script, error) {
	s := newScript()
	if err := s.L.DoFile(filename); err != nil {
		s.Close()
		return nil, fmt.Errorf("script: %w", err)
	}
	return s, nil
}

func LoadString(src string) (*Script, error) {
	s := newScript()
	if err := s.L.DoString(src); err != nil {
		s.Close()
		return nil, fmt.Errorf("script: %w", err)
	}
	return s, nil
}

func (s *Script) Close() {
	s.L.Close()
}

func (s *Script) lookup(L *lua.LState) button {
	name := L.CheckString(1)
	b, ok := buttons[name]
	if !ok {
		L.ArgError(1, fmt.Sprintf("unknown button %q", name))
	}
	return b
}

func (s *Script) press(L *lua.LState) int {
	b := s.lookup(L)
	if b.action {
		s.action |= 1 << b.bit
	} else {
		s.direction |= 1 << b.bit
	}
	return 0
}

func (s *Script) release(L *lua.LState) int {
	b := s.lookup(L)
	if b.action {
		s.action &^= 1 << b.bit
	} else {
		s.direction &^= 1 << b.bit
	}
	return 0
}

// OnFrame runs on_frame(frame) if the script defines it and returns the
// buttons held afterwards.
func (s *Script) OnFrame(frame uint64) (direction, action uint8, err error) {
	fn := s.L.GetGlobal("on_frame")
	if fn.Type() == lua.LTFunction {
		err = s.L.CallByParam(lua.P{
			Fn:      fn,
			NRet:    0,
			Protect: true,
		}, lua.LNumber(frame))
		if err != nil {
			return s.direction, s.action, fmt.Errorf("script: frame %d: %w", frame, err)
		}
	}
	return s.direction, s.action, nil
}

// Stopped reports whether the script called stop().
func (s *Script) Stopped() bool {
	return s.stopped
}
