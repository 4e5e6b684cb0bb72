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

// Package vm implements an Intcode virtual machine.
//
// An Intcode program is a sequence of signed integers loaded at address 0 of
// a memory tape that grows on demand. Each instruction word encodes an opcode
// in its two low decimal digits and one addressing mode per parameter in the
// digits above:
//
//	mode	name		parameter value
//	----	---------	-----------------------------------------
//	0	position	mem[p]
//	1	immediate	p (never valid for a write target)
//	2	relative	mem[rb+p], where rb is the relative base
//
// The supported opcodes are:
//
//	opcode	asm	params	description
//	------	---	------	-----------------------------------------------
//	1	add	a b d	mem[d] = a + b
//	2	mul	a b d	mem[d] = a * b
//	3	in	d	mem[d] = next input value
//	4	out	a	output a
//	5	jnz	c t	jump to t if c != 0
//	6	jz	c t	jump to t if c == 0
//	7	lt	a b d	mem[d] = 1 if a < b else 0
//	8	eq	a b d	mem[d] = 1 if a == b else 0
//	9	arb	a	rb += a
//	99	hlt		halt
//
// Execution is cooperative: Run returns to the caller whenever the program
// halts, needs an input value that has not been queued yet, or produces an
// output value. The caller can then push more input with PushInput and call
// Run again; execution resumes where it stopped. This makes it possible to
// drive any number of instances from a single goroutine, for example feeding
// the output of one instance to the input of another.
//
// The PC is not incremented in a single place: each opcode deals with the PC
// as needed. On a fault, the PC is left on the faulting instruction.
package vm
