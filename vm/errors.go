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
	"strconv"

	"github.com/pkg/errors"
)

// FaultKind identifies the cause of a Fault.
type FaultKind int

// Fault kinds.
const (
	UnknownOpcode FaultKind = iota + 1
	InvalidMode
	InvalidAddress
	OutOfMemory
)

func (k FaultKind) String() string {
	switch k {
	case UnknownOpcode:
		return "unknown opcode"
	case InvalidMode:
		return "invalid mode"
	case InvalidAddress:
		return "invalid address"
	case OutOfMemory:
		return "out of memory"
	}
	return "fault(" + strconv.Itoa(int(k)) + ")"
}

// Fault is a fatal execution error. Once an Instance has faulted, every
// subsequent call to Run reports the same Fault.
type Fault struct {
	Kind FaultKind
	PC   int  // address of the faulting instruction
	Word Cell // instruction word at PC
	Addr Cell // offending address for InvalidAddress and OutOfMemory
}

func (f *Fault) Error() string {
	switch f.Kind {
	case InvalidAddress, OutOfMemory:
		return f.Kind.String() + " " + itoa(f.Addr) + " @pc=" + strconv.Itoa(f.PC)
	}
	return f.Kind.String() + " in instruction " + itoa(f.Word) + " @pc=" + strconv.Itoa(f.PC)
}

var (
	// ErrTerminated is matched (with errors.Is) by the error returned from Run
	// when called on a halted or faulted Instance.
	ErrTerminated = errors.New("instance terminated")
	// ErrNoInput is matched (with errors.Is) by the error returned from Run
	// when resuming an Instance blocked on input without queuing any input.
	ErrNoInput = errors.New("no input queued")
)

// MisuseError reports a call to Run that violates the resume contract. It is
// distinct from a Fault: the program did nothing wrong, the caller did.
type MisuseError struct {
	State State // state of the Instance when Run was called
	Err   error // terminal error of a faulted Instance
}

func (e *MisuseError) Error() string {
	switch e.State {
	case BlockedOnInput:
		return "run: blocked on input: " + ErrNoInput.Error()
	case Faulted:
		if e.Err != nil {
			return "run: " + ErrTerminated.Error() + ": " + e.Err.Error()
		}
	}
	return "run: " + ErrTerminated.Error() + " (" + e.State.String() + ")"
}

// Unwrap returns the terminal error of a faulted instance.
func (e *MisuseError) Unwrap() error { return e.Err }

// Is implements matching against ErrTerminated and ErrNoInput.
func (e *MisuseError) Is(target error) bool {
	switch target {
	case ErrTerminated:
		return e.State == Halted || e.State == Faulted
	case ErrNoInput:
		return e.State == BlockedOnInput
	}
	return false
}

// ParseError is returned when decoding program text fails.
type ParseError struct {
	Index int    // zero based index of the offending token
	Token string // the offending token
	Err   error
}

func (e *ParseError) Error() string {
	return "token " + strconv.Itoa(e.Index) + " " + strconv.Quote(e.Token) + ": " + e.Err.Error()
}

func (e *ParseError) Unwrap() error { return e.Err }

func itoa(c Cell) string {
	return strconv.FormatInt(int64(c), 10)
}
