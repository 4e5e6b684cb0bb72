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

import "strconv"

// State is the execution state of an Instance.
type State int

// Execution states. Running is only observable from within Run (i.e. from a
// trace logger).
const (
	Ready State = iota
	Running
	BlockedOnInput
	Halted
	Faulted
)

func (s State) String() string {
	switch s {
	case Ready:
		return "ready"
	case Running:
		return "running"
	case BlockedOnInput:
		return "blocked on input"
	case Halted:
		return "halted"
	case Faulted:
		return "faulted"
	}
	return "state(" + strconv.Itoa(int(s)) + ")"
}

// Terminal returns true for Halted and Faulted.
func (s State) Terminal() bool {
	return s == Halted || s == Faulted
}

// State returns the current execution state.
func (i *Instance) State() State {
	return i.state
}

// Reason tells why Run returned.
type Reason int

// Run return reasons.
const (
	ReasonHalted Reason = iota
	ReasonNeedsInput
	ReasonOutput
	ReasonFaulted
	ReasonReady // one instruction executed, only returned by Step
)

func (r Reason) String() string {
	switch r {
	case ReasonHalted:
		return "halted"
	case ReasonNeedsInput:
		return "needs input"
	case ReasonOutput:
		return "output"
	case ReasonFaulted:
		return "faulted"
	case ReasonReady:
		return "ready"
	}
	return "reason(" + strconv.Itoa(int(r)) + ")"
}

// Outcome is the result of a call to Run.
type Outcome struct {
	Reason Reason
	Value  Cell   // output value, valid for ReasonOutput
	Fault  *Fault // valid for ReasonFaulted
}

func (o Outcome) String() string {
	switch o.Reason {
	case ReasonOutput:
		return "output " + itoa(o.Value)
	case ReasonFaulted:
		if o.Fault != nil {
			return "faulted: " + o.Fault.Error()
		}
	}
	return o.Reason.String()
}

// RunAll calls Run until it returns anything other than an output, then
// drains the output buffer and returns its contents along with the last
// outcome. The output buffer may contain values produced by earlier calls to
// Run that were not drained.
//
// RunAll stops on ReasonNeedsInput: the caller must push input before
// calling RunAll or Run again.
func (i *Instance) RunAll() ([]Cell, Outcome, error) {
	for {
		o, err := i.Run()
		if err != nil || o.Reason != ReasonOutput {
			return i.TakeOutput(), o, err
		}
	}
}
