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

package asm

import (
	"fmt"
	"io"
	"strings"
	"text/scanner"

	"github.com/db47h/intcode/internal/iox"
	"github.com/db47h/intcode/vm"
)

// Error is an assembler error at a given position in the source.
type Error struct {
	Pos scanner.Position
	Msg string
}

func (e *Error) Error() string {
	return e.Pos.String() + ": " + e.Msg
}

// ErrAsm lists assembler errors in the order they were found.
type ErrAsm []Error

func (e ErrAsm) Error() string {
	var b strings.Builder
	for k := range e {
		if k > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(e[k].Error())
	}
	return b.String()
}

// Assemble compiles assembly read from the supplied io.Reader and returns the
// resulting program and error if any.
//
// The name parameter is used only in error messages to name the source of the
// error. If the io.Reader is a file, name should be the file name.
//
// The returned error, if not nil, can safely be cast to an ErrAsm value that
// will contain up to 10 entries.
func Assemble(name string, r io.Reader) (prog []vm.Cell, err error) {
	p := newParser()
	return p.Parse(name, r)
}

// Disassemble writes a disassembly of the instruction at position pc in prog
// to the specified io.Writer and returns the position of the next instruction
// and any write error.
//
// Words that do not decode to a valid instruction, or instructions truncated
// by the end of prog, are written as a .dat directive.
func Disassemble(prog []vm.Cell, pc int, w io.Writer) (next int, err error) {
	ew := iox.NewErrWriter(w)

	word := prog[pc]
	ins, err := vm.Decode(word)
	n := ins.Op.Params()
	if err != nil || pc+n >= len(prog) {
		ew.WriteString(".dat ")
		ew.WriteInt(int64(word))
		return pc + 1, ew.Err
	}
	ew.WriteString(ins.Op.Name())
	for k := 0; k < n; k++ {
		ew.WriteByte(' ')
		ew.WriteString(vm.FormatParam(ins.Modes[k], prog[pc+1+k]))
	}
	return pc + 1 + n, ew.Err
}

// DisassembleAll writes a disassembly of all cells in the given slice to
// the specified io.Writer. The base argument specifies the real address of the
// first cell (prog[0]). It will return any write error.
func DisassembleAll(prog []vm.Cell, base int, w io.Writer) error {
	ew := iox.NewErrWriter(w)
	for pc := 0; pc < len(prog); {
		fmt.Fprintf(ew, "% 10d\t", base+pc)
		pc, _ = Disassemble(prog, pc, ew)
		ew.WriteByte('\n')
		if ew.Err != nil {
			return ew.Err
		}
	}
	return nil
}
