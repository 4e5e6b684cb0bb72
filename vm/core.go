// This file is part of intcode - https://github.com/db47h/intcode
//
// Copyright 2019 Denis Bernard <db047h@gmail.com>
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package vm

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/tliron/commonlog"
)

// load returns the value of parameter p in mode m.
func (i *Instance) load(m Mode, p Cell) (Cell, *Fault) {
	switch m {
	case Immediate:
		return p, nil
	case Relative:
		return i.mem.read(i.rb + p)
	}
	return i.mem.read(p)
}

// store writes v to the address designated by parameter p in mode m.
// Immediate mode is rejected by the decoder.
func (i *Instance) store(m Mode, p, v Cell) *Fault {
	if m == Relative {
		p += i.rb
	}
	return i.mem.write(p, v)
}

// load2 returns the values of the first two parameters.
func (i *Instance) load2(ins *Instruction, p *[MaxParams]Cell) (a, b Cell, f *Fault) {
	if a, f = i.load(ins.Modes[0], p[0]); f != nil {
		return
	}
	b, f = i.load(ins.Modes[1], p[1])
	return
}

func (i *Instance) abort(f *Fault, word Cell) (Outcome, error) {
	f.PC, f.Word = i.PC, word
	i.state, i.fault, i.err = Faulted, f, f
	return Outcome{Reason: ReasonFaulted, Fault: f}, f
}

// FormatParam returns the assembler notation of parameter p in mode m:
// 42 for position, #42 for immediate and r42 for relative mode.
func FormatParam(m Mode, p Cell) string {
	switch m {
	case Immediate:
		return "#" + itoa(p)
	case Relative:
		if p >= 0 {
			return "r+" + itoa(p)
		}
		return "r" + itoa(p)
	}
	return itoa(p)
}

func (i *Instance) trace(ins *Instruction, p []Cell) {
	var b strings.Builder
	b.WriteString(ins.Op.Name())
	for k, v := range p {
		b.WriteByte(' ')
		b.WriteString(FormatParam(ins.Modes[k], v))
	}
	i.log.Debugf("%8d  %-24s rb=%d in=%d out=%d", i.PC, b.String(), i.rb, len(i.input), len(i.output))
}

// resumable returns a *MisuseError if the instance cannot be resumed.
func (i *Instance) resumable() (Outcome, error) {
	switch i.state {
	case Halted:
		return Outcome{Reason: ReasonHalted}, &MisuseError{State: Halted}
	case Faulted:
		return Outcome{Reason: ReasonFaulted, Fault: i.fault}, &MisuseError{State: Faulted, Err: i.err}
	case BlockedOnInput:
		if len(i.input) == 0 {
			return Outcome{Reason: ReasonNeedsInput}, &MisuseError{State: BlockedOnInput}
		}
	}
	return Outcome{}, nil
}

// catch turns a panic with an error value into a terminal error.
func (i *Instance) catch(out *Outcome, err *error) {
	if e := recover(); e != nil {
		switch e := e.(type) {
		case error:
			*err = errors.Wrapf(e, "Recovered error @pc=%d/%d, rb=%d", i.PC, len(i.mem.cells), i.rb)
		default:
			panic(e)
		}
		i.state, i.err = Faulted, *err
		*out = Outcome{Reason: ReasonFaulted}
	}
}

func (i *Instance) tracing() bool {
	return i.log != nil && i.log.AllowLevel(commonlog.Debug)
}

// Run starts or resumes execution of the VM. It returns when the program
// halts, needs input that has not been pushed yet, outputs a value (unless
// output yielding has been disabled) or faults.
//
// After ReasonNeedsInput, the PC still points to the IN instruction, which is
// executed again on the next call to Run. After ReasonOutput, the PC points to
// the instruction following the OUT. If a fault occurs, the PC will point to
// the instruction that triggered it, and the returned error is a *Fault.
//
// Calling Run on a halted or faulted instance, or on an instance blocked on
// input without pushing any input, returns a *MisuseError and does not execute
// anything. For a faulted instance, the returned Outcome holds the original
// Fault.
func (i *Instance) Run() (out Outcome, err error) {
	if out, err = i.resumable(); err != nil {
		return out, err
	}
	defer i.catch(&out, &err)

	trace := i.tracing()
	i.state = Running
	for {
		if out, err = i.exec(trace); out.Reason != ReasonReady {
			return out, err
		}
	}
}

// Step executes a single instruction. It returns ReasonReady if the
// instruction completed without suspending execution, and otherwise behaves
// like Run. A sequence of calls to Step has the same effect on the instance as
// a call to Run.
func (i *Instance) Step() (out Outcome, err error) {
	if out, err = i.resumable(); err != nil {
		return out, err
	}
	defer i.catch(&out, &err)

	i.state = Running
	out, err = i.exec(i.tracing())
	if out.Reason == ReasonReady {
		i.state = Ready
	}
	return out, err
}

// exec executes the instruction at PC. It returns ReasonReady unless
// execution must be suspended.
func (i *Instance) exec(trace bool) (Outcome, error) {
	word, f := i.mem.read(Cell(i.PC))
	if f != nil {
		return i.abort(f, 0)
	}
	ins, f := decode(word)
	if f != nil {
		return i.abort(f, word)
	}
	var p [MaxParams]Cell
	n := ins.Op.Params()
	for k := 0; k < n; k++ {
		if p[k], f = i.mem.read(Cell(i.PC + 1 + k)); f != nil {
			return i.abort(f, word)
		}
	}
	if trace {
		i.trace(&ins, p[:n])
	}

	switch ins.Op {
	case OpAdd:
		a, b, f := i.load2(&ins, &p)
		if f == nil {
			f = i.store(ins.Modes[2], p[2], a+b)
		}
		if f != nil {
			return i.abort(f, word)
		}
		i.PC += 4
	case OpMul:
		a, b, f := i.load2(&ins, &p)
		if f == nil {
			f = i.store(ins.Modes[2], p[2], a*b)
		}
		if f != nil {
			return i.abort(f, word)
		}
		i.PC += 4
	case OpIn:
		if len(i.input) == 0 {
			i.state = BlockedOnInput
			return Outcome{Reason: ReasonNeedsInput}, nil
		}
		dst := p[0]
		if ins.Modes[0] == Relative {
			dst += i.rb
		}
		a, f := i.mem.index(dst)
		if f != nil {
			return i.abort(f, word)
		}
		i.mem.cells[a], _ = i.popInput()
		i.PC += 2
	case OpOut:
		v, f := i.load(ins.Modes[0], p[0])
		if f != nil {
			return i.abort(f, word)
		}
		i.output = append(i.output, v)
		i.PC += 2
		if !i.noYield {
			i.insCount++
			i.state = Ready
			return Outcome{Reason: ReasonOutput, Value: v}, nil
		}
	case OpJnz:
		c, t, f := i.load2(&ins, &p)
		if f != nil {
			return i.abort(f, word)
		}
		if c != 0 {
			i.PC = int(t)
		} else {
			i.PC += 3
		}
	case OpJz:
		c, t, f := i.load2(&ins, &p)
		if f != nil {
			return i.abort(f, word)
		}
		if c == 0 {
			i.PC = int(t)
		} else {
			i.PC += 3
		}
	case OpLt:
		a, b, f := i.load2(&ins, &p)
		if f == nil {
			var r Cell
			if a < b {
				r = 1
			}
			f = i.store(ins.Modes[2], p[2], r)
		}
		if f != nil {
			return i.abort(f, word)
		}
		i.PC += 4
	case OpEq:
		a, b, f := i.load2(&ins, &p)
		if f == nil {
			var r Cell
			if a == b {
				r = 1
			}
			f = i.store(ins.Modes[2], p[2], r)
		}
		if f != nil {
			return i.abort(f, word)
		}
		i.PC += 4
	case OpArb:
		v, f := i.load(ins.Modes[0], p[0])
		if f != nil {
			return i.abort(f, word)
		}
		i.rb += v
		i.PC += 2
	case OpHalt:
		i.insCount++
		i.state = Halted
		return Outcome{Reason: ReasonHalted}, nil
	}
	i.insCount++
	return Outcome{Reason: ReasonReady}, nil
}
