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

// Package ascii provides utility functions and types to run Intcode programs
// that communicate in ASCII: every input or output value in the range 0-127
// is a character.
package ascii

import "github.com/db47h/intcode/vm"

// IsASCII returns true if v is an ASCII character code.
func IsASCII(v vm.Cell) bool {
	return v >= 0 && v < 128
}

// Encode returns the character codes of s, one cell per byte.
func Encode(s string) []vm.Cell {
	out := make([]vm.Cell, len(s))
	for k := 0; k < len(s); k++ {
		out[k] = vm.Cell(s[k])
	}
	return out
}

// Decode splits out into its leading ASCII text and the remaining cells,
// starting at the first value that is not an ASCII character. ASCII programs
// often report a final result this way.
func Decode(out []vm.Cell) (text string, rest []vm.Cell) {
	k := 0
	for k < len(out) && IsASCII(out[k]) {
		k++
	}
	b := make([]byte, k)
	for n := range b {
		b[n] = byte(out[n])
	}
	return string(b), out[k:]
}
