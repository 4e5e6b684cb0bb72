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
	"io"

	"github.com/db47h/intcode/internal/iox"
	"github.com/pkg/errors"
	"github.com/tliron/commonlog"
)

// Cell is the raw type stored in a memory location.
type Cell int64

// Instance represents an Intcode VM instance.
//
// An Instance must not be used concurrently from multiple goroutines. Distinct
// instances share no state.
type Instance struct {
	PC       int // Program Counter (aka. Instruction Pointer)
	rb       Cell
	mem      memory
	input    []Cell
	output   []Cell
	state    State
	fault    *Fault
	err      error // terminal error, set along with state Faulted
	insCount int64
	noYield  bool
	log      commonlog.Logger
}

// Option interface
type Option func(*Instance) error

// Input queues the given values as input. Same as calling PushInput.
func Input(values ...Cell) Option {
	return func(i *Instance) error { i.PushInput(values...); return nil }
}

// YieldOutput configures the behavior of the OUT instruction. When enabled
// (the default), Run returns after each output with ReasonOutput. When
// disabled, output values are only appended to the output buffer and
// execution continues.
func YieldOutput(yield bool) Option {
	return func(i *Instance) error { i.noYield = !yield; return nil }
}

// MemoryLimit sets the maximum number of memory cells the program can address.
// Accessing an address beyond the limit faults with OutOfMemory. The default
// is 0 (unbounded).
//
// Memory is a dense slice: without a limit, a program accessing a huge address
// makes the VM allocate every cell below it, which can exhaust host memory and
// crash the process instead of faulting. Set a limit when running untrusted
// programs.
//
// It is an error to set a limit below the current memory size, in particular
// below the size of the program given to New.
func MemoryLimit(cells int) Option {
	return func(i *Instance) error {
		if cells < 0 {
			return errors.Errorf("invalid memory limit %d", cells)
		}
		if cells > 0 && len(i.mem.cells) > cells {
			return errors.Errorf("memory size %d exceeds memory limit %d", len(i.mem.cells), cells)
		}
		i.mem.limit = cells
		return nil
	}
}

// Logger sets a logger used to trace executed instructions. Tracing happens
// only if the logger allows the debug level.
func Logger(log commonlog.Logger) Option {
	return func(i *Instance) error { i.log = log; return nil }
}

// SetOptions sets the provided options.
func (i *Instance) SetOptions(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(i); err != nil {
			return err
		}
	}
	return nil
}

// New creates a new Intcode Virtual Machine instance.
//
// The program is copied to memory, starting at address 0. Memory beyond the
// program is implicitly zero.
func New(program []Cell, opts ...Option) (*Instance, error) {
	i := new(Instance)
	i.mem.load(program)
	if err := i.SetOptions(opts...); err != nil {
		return nil, err
	}
	return i, nil
}

// NewFromString parses the comma separated program text and creates a new
// instance running it.
func NewFromString(text string, opts ...Option) (*Instance, error) {
	prog, err := Parse(text)
	if err != nil {
		return nil, err
	}
	return New(prog, opts...)
}

// Reset reloads the instance with the given program and clears all execution
// state: PC, relative base, input and output queues and instruction count.
// Options set previously remain in effect.
func (i *Instance) Reset(program []Cell) {
	i.mem.load(program)
	i.PC = 0
	i.rb = 0
	i.input = i.input[:0]
	i.output = i.output[:0]
	i.state = Ready
	i.fault = nil
	i.err = nil
	i.insCount = 0
}

// RelativeBase returns the current value of the relative base register.
func (i *Instance) RelativeBase() Cell {
	return i.rb
}

// Mem returns the memory tape. Note that value changes will be reflected in
// the instance's memory, but the slice may be reallocated as soon as the
// program accesses an address beyond its current length.
func (i *Instance) Mem() []Cell {
	return i.mem.cells
}

// Peek returns the value at address addr. Addresses beyond the end of memory
// read as 0 and do not grow it.
func (i *Instance) Peek(addr int) Cell {
	if addr < 0 || addr >= len(i.mem.cells) {
		return 0
	}
	return i.mem.cells[addr]
}

// Poke stores v at address addr, growing memory as needed.
func (i *Instance) Poke(addr int, v Cell) error {
	if f := i.mem.write(Cell(addr), v); f != nil {
		f.PC = i.PC
		return f
	}
	return nil
}

// InstructionCount returns the number of instructions executed so far.
func (i *Instance) InstructionCount() int64 {
	return i.insCount
}

// Dump writes the current contents of memory to w, in the same comma
// separated format as accepted by Parse.
func (i *Instance) Dump(w io.Writer) error {
	ew := iox.NewErrWriter(w)
	for k, v := range i.mem.cells {
		if k > 0 {
			ew.WriteByte(',')
		}
		if err := ew.WriteInt(int64(v)); err != nil {
			return err
		}
	}
	return ew.Err
}
