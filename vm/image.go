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
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Parse decodes a program from its textual representation: base 10 signed
// integers separated by commas. Each integer may be surrounded by white space.
// An empty or blank text yields an empty program.
//
// The returned error, if not nil, is a *ParseError.
func Parse(text string) ([]Cell, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	toks := strings.Split(text, ",")
	prog := make([]Cell, len(toks))
	for k, t := range toks {
		n, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		if err != nil {
			if ne, ok := err.(*strconv.NumError); ok {
				err = ne.Err
			}
			return nil, &ParseError{Index: k, Token: t, Err: err}
		}
		prog[k] = Cell(n)
	}
	return prog, nil
}

// Load loads a program from file fileName.
func Load(fileName string) ([]Cell, error) {
	b, err := os.ReadFile(fileName)
	if err != nil {
		return nil, errors.Wrap(err, "Load")
	}
	prog, err := Parse(string(b))
	if err != nil {
		return nil, errors.Wrapf(err, "Load %s", fileName)
	}
	return prog, nil
}
