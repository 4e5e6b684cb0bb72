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

// PushInput appends values to the input queue. Values are consumed by IN
// instructions in the order they were pushed. It is valid to push input at
// any time, in particular while the instance is blocked on input.
func (i *Instance) PushInput(values ...Cell) {
	i.input = append(i.input, values...)
}

// PendingInput returns the queued input values that have not been consumed
// yet. The returned slice must not be modified.
func (i *Instance) PendingInput() []Cell {
	return i.input
}

// popInput removes the first value from the input queue.
func (i *Instance) popInput() (Cell, bool) {
	if len(i.input) == 0 {
		return 0, false
	}
	v := i.input[0]
	if len(i.input) == 1 {
		i.input = i.input[:0]
	} else {
		i.input = i.input[1:]
	}
	return v, true
}

// Output returns the output buffer without draining it. The returned slice
// must not be modified.
func (i *Instance) Output() []Cell {
	return i.output
}

// TakeOutput drains the output buffer and returns its contents.
func (i *Instance) TakeOutput() []Cell {
	if len(i.output) == 0 {
		return nil
	}
	out := make([]Cell, len(i.output))
	copy(out, i.output)
	i.output = i.output[:0]
	return out
}

// PopOutput removes the oldest value from the output buffer. It returns false
// if the buffer is empty.
func (i *Instance) PopOutput() (Cell, bool) {
	if len(i.output) == 0 {
		return 0, false
	}
	v := i.output[0]
	i.output = i.output[1:]
	return v, true
}
