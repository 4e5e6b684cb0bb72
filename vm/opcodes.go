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

// Opcode is an instruction selector, i.e. the two low decimal digits of an
// instruction word.
type Opcode Cell

// Intcode Virtual Machine Opcodes.
const (
	OpAdd  Opcode = 1
	OpMul  Opcode = 2
	OpIn   Opcode = 3
	OpOut  Opcode = 4
	OpJnz  Opcode = 5
	OpJz   Opcode = 6
	OpLt   Opcode = 7
	OpEq   Opcode = 8
	OpArb  Opcode = 9
	OpHalt Opcode = 99
)

// MaxParams is the largest parameter count of any opcode.
const MaxParams = 3

type opInfo struct {
	name   string
	params int
	dst    int // index of the write target, -1 if none
}

var opcodes = [100]opInfo{
	OpAdd:  {"add", 3, 2},
	OpMul:  {"mul", 3, 2},
	OpIn:   {"in", 1, 0},
	OpOut:  {"out", 1, -1},
	OpJnz:  {"jnz", 2, -1},
	OpJz:   {"jz", 2, -1},
	OpLt:   {"lt", 3, 2},
	OpEq:   {"eq", 3, 2},
	OpArb:  {"arb", 1, -1},
	OpHalt: {"hlt", 0, -1},
}

// Valid returns true if op is a known opcode.
func (op Opcode) Valid() bool {
	return op >= 0 && op < Opcode(len(opcodes)) && opcodes[op].name != ""
}

// Name returns the assembler mnemonic for op, or an empty string if op is
// not a valid opcode.
func (op Opcode) Name() string {
	if !op.Valid() {
		return ""
	}
	return opcodes[op].name
}

// Params returns the number of parameters of op.
func (op Opcode) Params() int {
	if !op.Valid() {
		return 0
	}
	return opcodes[op].params
}

// Writes returns true if the parameter at index p is a write target.
func (op Opcode) Writes(p int) bool {
	return op.Valid() && opcodes[op].dst == p
}

func (op Opcode) String() string {
	if n := op.Name(); n != "" {
		return n
	}
	return "op(" + itoa(Cell(op)) + ")"
}

// Lookup returns the opcode for the given mnemonic.
func Lookup(name string) (Opcode, bool) {
	op, ok := opcodeIndex[name]
	return op, ok
}

var opcodeIndex = make(map[string]Opcode)

func init() {
	for i, v := range opcodes {
		if v.name != "" {
			opcodeIndex[v.name] = Opcode(i)
		}
	}
}

// Mode is a parameter addressing mode.
type Mode uint8

// Addressing modes.
const (
	Position Mode = iota
	Immediate
	Relative
)

func (m Mode) String() string {
	switch m {
	case Position:
		return "position"
	case Immediate:
		return "immediate"
	case Relative:
		return "relative"
	}
	return "mode(" + itoa(Cell(m)) + ")"
}

// Instruction is a decoded instruction word.
type Instruction struct {
	Op    Opcode
	Modes [MaxParams]Mode
}

// Decode decodes an instruction word. The returned error, if not nil, is a
// *Fault of kind UnknownOpcode or InvalidMode, with the PC field left to 0.
func Decode(word Cell) (Instruction, error) {
	ins, f := decode(word)
	if f != nil {
		return ins, f
	}
	return ins, nil
}

func decode(word Cell) (ins Instruction, f *Fault) {
	if word < 0 {
		return ins, &Fault{Kind: UnknownOpcode, Word: word}
	}
	ins.Op = Opcode(word % 100)
	if !ins.Op.Valid() {
		return ins, &Fault{Kind: UnknownOpcode, Word: word}
	}
	m := word / 100
	n := ins.Op.Params()
	for p := 0; p < n; p++ {
		d := Mode(m % 10)
		m /= 10
		if d > Relative || d == Immediate && ins.Op.Writes(p) {
			return ins, &Fault{Kind: InvalidMode, Word: word}
		}
		ins.Modes[p] = d
	}
	if m != 0 {
		// mode digits for parameters the opcode does not have
		return ins, &Fault{Kind: InvalidMode, Word: word}
	}
	return ins, nil
}

// Encode returns the instruction word for op with the given parameter modes.
// Extra modes are ignored.
func Encode(op Opcode, modes ...Mode) Cell {
	w := Cell(op)
	mul := Cell(100)
	for p := 0; p < op.Params() && p < len(modes); p++ {
		w += Cell(modes[p]) * mul
		mul *= 10
	}
	return w
}
