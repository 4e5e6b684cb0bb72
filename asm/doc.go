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

// Package asm provides utility functions to assemble and disassemble Intcode
// programs.
//
// Supported assembler mnemonics:
//
//	opcode	asm	params	description
//	------	---	------	---------------------------------------------------------
//	1	add	a b dst	store a + b at dst
//	2	mul	a b dst	store a * b at dst
//	3	in	dst	store the next input value at dst
//	4	out	a	output a
//	5	jnz	a t	jump to t if a != 0
//	6	jz	a t	jump to t if a == 0
//	7	lt	a b dst	store 1 at dst if a < b, 0 otherwise
//	8	eq	a b dst	store 1 at dst if a == b, 0 otherwise
//	9	arb	a	add a to the relative base
//	99	hlt		halt
//
// Parameters:
//
// The addressing mode of a parameter is given by its prefix:
//
//	42	position mode: the value at address 42
//	#42	immediate mode: the value 42
//	r42	relative mode: the value at address relative base + 42
//	r-3	relative mode with a negative offset. r+3 is the same as r3
//
// Write targets (dst) cannot be immediate. The value part can be any integer
// literal, character literal, constant or label, optionally preceded by a sign
// (i.e. #-foo or r+foo).
//
// Comments:
//
// Comments are placed between parentheses, i.e. '(' and ')'. The body of the
// comment must be separated from the enclosing parentheses by a space:
//
//	( this is a valid comment )
//	( this is a
//	  rather long
//	  multiline comment )
//
// Literals and identifiers:
//
// Input is split at white space (space, tab or new line) into tokens:
//
//	- If a token can be converted to a Go integer (see strconv.ParseInt with
//	  base 0), it is an integer literal.
//	- If it is a Go character literal between single quotes, it is converted to
//	  the corresponding integer literal. 'a' is the same as 97.
//	- If a token is the name of a defined constant, it is replaced by the
//	  constant's value and can be used anywhere an integer literal is expected.
//	- Any other token is a label reference.
//
// Names cannot start with a digit, a sign or any of the characters #:.'()
// nor be an instruction mnemonic. Names that start with an r followed by a
// digit or sign are also rejected since they would read as relative
// parameters.
//
// Labels:
//
// Labels are defined by prefixing them with a colon (:) and evaluate to the
// address of the next compiled cell. Forward references are allowed:
//
//	:loop	in r0
//		jnz r0 #loop	( immediate: jump to address of loop )
//		hlt
//
// Assembler directives:
//
//	.equ <IDENTIFIER> <value>
//
// defines a constant value. The value must be an integer, a named constant or
// a character literal.
//
//	.org <value>
//
// Will place the next instruction at the address specified by the given integer
// literal or named constant.
//
//	.dat <value> ...
//
// Will compile the specified values as-is, one cell per value, up to the next
// instruction, label definition or directive. This is primarily used for data
// storage structures:
//
//	:table	.dat 65 'B' -1 table
//
// The cells at addresses table+0 to table+3 will contain 65, 66, -1 and the
// address of table.
package asm
