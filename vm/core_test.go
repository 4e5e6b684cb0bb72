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

package vm_test

import (
	"strconv"
	"testing"

	"github.com/db47h/intcode/vm"
	"github.com/pkg/errors"
)

func TestDecode(t *testing.T) {
	for _, c := range []struct {
		word  vm.Cell
		op    vm.Opcode
		modes [vm.MaxParams]vm.Mode
		kind  vm.FaultKind
	}{
		{1, vm.OpAdd, [3]vm.Mode{}, 0},
		{1002, vm.OpMul, [3]vm.Mode{vm.Position, vm.Immediate, vm.Position}, 0},
		{21107, vm.OpLt, [3]vm.Mode{vm.Immediate, vm.Immediate, vm.Relative}, 0},
		{203, vm.OpIn, [3]vm.Mode{vm.Relative}, 0},
		{1105, vm.OpJnz, [3]vm.Mode{vm.Immediate, vm.Immediate}, 0},
		{99, vm.OpHalt, [3]vm.Mode{}, 0},
		{5551, 0, [3]vm.Mode{}, vm.UnknownOpcode},
		{0, 0, [3]vm.Mode{}, vm.UnknownOpcode},
		{-1, 0, [3]vm.Mode{}, vm.UnknownOpcode},
		{10, 0, [3]vm.Mode{}, vm.UnknownOpcode},
		{301, 0, [3]vm.Mode{}, vm.InvalidMode},
		{11101, 0, [3]vm.Mode{}, vm.InvalidMode}, // immediate write target
		{103, 0, [3]vm.Mode{}, vm.InvalidMode},   // immediate write target
		{10099, 0, [3]vm.Mode{}, vm.InvalidMode}, // mode digit on a parameter hlt does not have
		{1104, 0, [3]vm.Mode{}, vm.InvalidMode},
	} {
		ins, err := vm.Decode(c.word)
		if c.kind != 0 {
			var f *vm.Fault
			if !errors.As(err, &f) || f.Kind != c.kind {
				t.Errorf("Decode(%d): expected %v, got %v", c.word, c.kind, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("Decode(%d): %v", c.word, err)
			continue
		}
		if ins.Op != c.op || ins.Modes != c.modes {
			t.Errorf("Decode(%d): expected %v %v, got %v %v", c.word, c.op, c.modes, ins.Op, ins.Modes)
		}
		if w := vm.Encode(ins.Op, ins.Modes[:]...); w != c.word {
			t.Errorf("Encode(%v, %v) = %d, expected %d", ins.Op, ins.Modes, w, c.word)
		}
	}
}

func TestFaults(t *testing.T) {
	for _, c := range []struct {
		name string
		code C
		opt  vm.Option
		kind vm.FaultKind
		pc   int
		addr vm.Cell
	}{
		{"unknown", C{5551, 0, 0, 0, 99}, nil, vm.UnknownOpcode, 0, 0},
		{"unknown-after-run", C{1101, 50, 5, 4, 99}, nil, vm.UnknownOpcode, 4, 0},
		{"bad-mode", C{1, 0, 0, 0, 301, 99}, nil, vm.InvalidMode, 4, 0},
		{"immediate-write", C{11101, 1, 1, 0, 99}, nil, vm.InvalidMode, 0, 0},
		{"negative-read", C{1, -1, 0, 0, 99}, nil, vm.InvalidAddress, 0, -1},
		{"negative-write", C{1101, 1, 1, -5, 99}, nil, vm.InvalidAddress, 0, -5},
		{"negative-relative", C{109, -10, 204, 0, 99}, nil, vm.InvalidAddress, 2, -10},
		{"negative-jump", C{1105, 1, -3}, nil, vm.InvalidAddress, -3, -3},
		{"negative-input", C{3, -1, 99}, vm.Input(7), vm.InvalidAddress, 0, -1},
		{"run-off", C{1101, 1, 1, 0}, nil, vm.UnknownOpcode, 4, 0},
		{"memory-limit", C{1101, 1, 1, 100, 99}, vm.MemoryLimit(10), vm.OutOfMemory, 0, 100},
		{"memory-limit-read", C{4, 10, 99}, vm.MemoryLimit(10), vm.OutOfMemory, 0, 10},
	} {
		var opts []vm.Option
		if c.opt != nil {
			opts = append(opts, c.opt)
		}
		i, err := vm.New(c.code, opts...)
		if err != nil {
			t.Fatalf("%s: %+v", c.name, err)
		}
		_, o, err := i.RunAll()
		if o.Reason != vm.ReasonFaulted || o.Fault == nil {
			t.Errorf("%s: expected fault, got %v", c.name, o)
			continue
		}
		f := o.Fault
		if f.Kind != c.kind || f.PC != c.pc || f.Addr != c.addr {
			t.Errorf("%s: expected %v @pc=%d addr=%d, got %v @pc=%d addr=%d", c.name, c.kind, c.pc, c.addr, f.Kind, f.PC, f.Addr)
		}
		var ef *vm.Fault
		if !errors.As(err, &ef) || ef != f {
			t.Errorf("%s: returned error is not the outcome's fault: %v", c.name, err)
		}
		if i.State() != vm.Faulted {
			t.Errorf("%s: expected state %v, got %v", c.name, vm.Faulted, i.State())
		}
	}
}

// Every Run after a fault must report the very same fault without touching
// memory.
func TestFaultIsSticky(t *testing.T) {
	i := setup(t, C{1101, 2, 3, 7, 5551, 0, 0, 0})
	o, err := i.Run()
	if o.Reason != vm.ReasonFaulted || err == nil {
		t.Fatalf("expected fault, got %v, %v", o, err)
	}
	mem := append(C(nil), i.Mem()...)
	pc := i.PC
	count := i.InstructionCount()
	for n := 0; n < 3; n++ {
		o2, err2 := i.Run()
		if o2.Reason != vm.ReasonFaulted || o2.Fault != o.Fault {
			t.Fatalf("run %d: expected identical fault %v, got %v", n, o.Fault, o2)
		}
		if !errors.Is(err2, vm.ErrTerminated) {
			t.Fatalf("run %d: expected ErrTerminated, got %v", n, err2)
		}
		var me *vm.MisuseError
		if !errors.As(err2, &me) || me.State != vm.Faulted {
			t.Fatalf("run %d: expected *MisuseError, got %T", n, err2)
		}
		var f *vm.Fault
		if !errors.As(err2, &f) || f != o.Fault {
			t.Fatalf("run %d: misuse error does not wrap the fault: %v", n, err2)
		}
		if !equal(i.Mem(), mem) || i.PC != pc || i.InstructionCount() != count {
			t.Fatalf("run %d: instance mutated after fault", n)
		}
	}
	if mem[7] != 5 {
		t.Fatalf("instruction before fault not executed: %v", mem)
	}
}

func TestResumeHalted(t *testing.T) {
	i := setup(t, C{99})
	o, err := i.Run()
	if err != nil || o.Reason != vm.ReasonHalted {
		t.Fatalf("expected halt, got %v, %v", o, err)
	}
	o, err = i.Run()
	if o.Reason != vm.ReasonHalted || !errors.Is(err, vm.ErrTerminated) {
		t.Fatalf("expected ErrTerminated, got %v, %v", o, err)
	}
	if errors.Is(err, vm.ErrNoInput) {
		t.Fatal("halted misuse matches ErrNoInput")
	}
	if !i.State().Terminal() {
		t.Fatalf("expected terminal state, got %v", i.State())
	}
}

func TestEcho(t *testing.T) {
	i := setup(t, C{3, 0, 4, 0, 99}, 42)
	o, err := i.Run()
	if err != nil || o.Reason != vm.ReasonOutput || o.Value != 42 {
		t.Fatalf("expected output 42, got %v, %v", o, err)
	}
	if i.State() != vm.Ready || i.PC != 4 {
		t.Fatalf("expected ready @4, got %v @%d", i.State(), i.PC)
	}
	o, err = i.Run()
	if err != nil || o.Reason != vm.ReasonHalted {
		t.Fatalf("expected halt, got %v, %v", o, err)
	}
	if out := i.TakeOutput(); !equal(out, C{42}) {
		t.Fatalf("expected output buffer [42], got %v", out)
	}
}

// Suspending on input and resuming must behave as if the input had been
// available from the start.
func TestSuspendResume(t *testing.T) {
	for _, c := range []struct {
		name   string
		code   C
		inputs C
	}{
		{"echo", C{3, 0, 4, 0, 99}, C{42}},
		{"compare", compare8, C{8}},
		{"relative", C{109, 5, 203, 10, 204, 10, 99}, C{-17}},
		{"sum", C{3, 100, 3, 101, 1, 100, 101, 102, 4, 102, 99}, C{20, 22}},
	} {
		ref := setup(t, c.code, c.inputs...)
		want, wo, err := ref.RunAll()
		if err != nil || wo.Reason != vm.ReasonHalted {
			t.Fatalf("%s: reference run failed: %v, %v", c.name, wo, err)
		}

		i := setup(t, c.code)
		var got C
		for _, in := range c.inputs {
			out, o, err := i.RunAll()
			if err != nil || o.Reason != vm.ReasonNeedsInput {
				t.Fatalf("%s: expected needs input, got %v, %v", c.name, o, err)
			}
			got = append(got, out...)
			pc := i.PC
			if op := vm.Opcode(i.Peek(pc) % 100); op != vm.OpIn {
				t.Fatalf("%s: PC %d does not point to an IN instruction", c.name, pc)
			}
			if i.State() != vm.BlockedOnInput {
				t.Fatalf("%s: expected %v, got %v", c.name, vm.BlockedOnInput, i.State())
			}
			// resuming without input is a caller error and must not execute anything
			if o, err = i.Run(); !errors.Is(err, vm.ErrNoInput) || o.Reason != vm.ReasonNeedsInput || i.PC != pc {
				t.Fatalf("%s: expected ErrNoInput, got %v, %v", c.name, o, err)
			}
			i.PushInput(in)
		}
		out, o, err := i.RunAll()
		if err != nil || o.Reason != vm.ReasonHalted {
			t.Fatalf("%s: expected halt, got %v, %v", c.name, o, err)
		}
		got = append(got, out...)
		if !equal(got, want) || !equal(i.Mem(), ref.Mem()) || i.PC != ref.PC {
			t.Errorf("%s: resumed run differs: out %v / %v, pc %d / %d", c.name, got, want, i.PC, ref.PC)
		}
	}
}

// stepAll calls Step until it returns anything other than ReasonReady or
// ReasonOutput, then drains the output buffer.
func stepAll(t *testing.T, i *vm.Instance) ([]vm.Cell, vm.Outcome) {
	t.Helper()
	for {
		o, err := i.Step()
		if err != nil {
			t.Fatalf("%+v", err)
		}
		if o.Reason != vm.ReasonReady && o.Reason != vm.ReasonOutput {
			return i.TakeOutput(), o
		}
		if s := i.State(); s != vm.Ready {
			t.Fatalf("expected state ready after %v, got %v", o, s)
		}
	}
}

func TestStep(t *testing.T) {
	prog, err := vm.Load("testdata/diagnostic.txt")
	if err != nil {
		t.Fatalf("%+v", err)
	}
	for _, c := range []struct {
		name  string
		code  C
		input C
	}{
		{"quine", quine, nil},
		{"compare", compare8, C{8}},
		{"diagnostic", C(prog), C{5}},
	} {
		r := setup(t, c.code, c.input...)
		want, wo, err := r.RunAll()
		if err != nil {
			t.Fatalf("%s: %+v", c.name, err)
		}
		s := setup(t, c.code, c.input...)
		got, o := stepAll(t, s)
		if o.Reason != wo.Reason || !equal(got, want) {
			t.Errorf("%s: expected %v %v, got %v %v", c.name, wo, want, o, got)
		}
		if s.PC != r.PC || s.InstructionCount() != r.InstructionCount() {
			t.Errorf("%s: expected pc=%d count=%d, got pc=%d count=%d", c.name, r.PC, r.InstructionCount(), s.PC, s.InstructionCount())
		}
		if !equal(s.Mem(), r.Mem()) {
			t.Errorf("%s: memory differs", c.name)
		}
	}

	i := setup(t, C{1101, 2, 3, 5, 99})
	o, err := i.Step()
	if err != nil || o.Reason != vm.ReasonReady || i.PC != 4 || i.Peek(5) != 5 || i.InstructionCount() != 1 {
		t.Fatalf("single step: %v, %v, pc=%d", o, err, i.PC)
	}
	if o, err = i.Step(); err != nil || o.Reason != vm.ReasonHalted {
		t.Fatalf("expected halt, got %v, %v", o, err)
	}
	if _, err = i.Step(); !errors.Is(err, vm.ErrTerminated) {
		t.Fatalf("expected ErrTerminated, got %v", err)
	}

	i = setup(t, C{3, 0, 99})
	if o, err = i.Step(); err != nil || o.Reason != vm.ReasonNeedsInput || i.State() != vm.BlockedOnInput || i.PC != 0 {
		t.Fatalf("expected needs input @0, got %v, %v, pc=%d", o, err, i.PC)
	}
	if _, err = i.Step(); !errors.Is(err, vm.ErrNoInput) {
		t.Fatalf("expected ErrNoInput, got %v", err)
	}
	i.PushInput(7)
	if o, err = i.Step(); err != nil || o.Reason != vm.ReasonReady || i.Peek(0) != 7 || i.PC != 2 {
		t.Fatalf("expected input stored, got %v, %v, pc=%d", o, err, i.PC)
	}
}

func TestBufferedOutput(t *testing.T) {
	i, err := vm.New(C{104, 1, 104, 2, 3, 10, 4, 10, 99}, vm.YieldOutput(false))
	if err != nil {
		t.Fatal(err)
	}
	o, err := i.Run()
	if err != nil || o.Reason != vm.ReasonNeedsInput {
		t.Fatalf("expected needs input, got %v, %v", o, err)
	}
	if out := i.Output(); !equal(out, C{1, 2}) {
		t.Fatalf("expected [1 2], got %v", out)
	}
	if v, ok := i.PopOutput(); !ok || v != 1 {
		t.Fatalf("PopOutput: expected 1, got %d, %v", v, ok)
	}
	i.PushInput(3)
	o, err = i.Run()
	if err != nil || o.Reason != vm.ReasonHalted {
		t.Fatalf("expected halt, got %v, %v", o, err)
	}
	if out := i.TakeOutput(); !equal(out, C{2, 3}) {
		t.Fatalf("expected [2 3], got %v", out)
	}
	if _, ok := i.PopOutput(); ok {
		t.Fatal("output buffer not drained")
	}
}

func TestMemoryLimitOption(t *testing.T) {
	if _, err := vm.New(C{99}, vm.MemoryLimit(-1)); err == nil {
		t.Fatal("expected error for negative memory limit")
	}
	i, err := vm.New(C{1101, 1, 1, 9, 99}, vm.MemoryLimit(10))
	if err != nil {
		t.Fatal(err)
	}
	check(t, "limit", i, 4, nil, nil)
	if v := i.Peek(9); v != 2 {
		t.Fatalf("expected 2 @9, got %d", v)
	}
	if _, err = vm.New(C{1101, 1, 1, 9, 99}, vm.MemoryLimit(4)); err == nil {
		t.Fatal("expected error for a program larger than the memory limit")
	}
	if _, err = vm.New(C{1101, 1, 1, 9, 99}, vm.MemoryLimit(5)); err != nil {
		t.Fatalf("program fitting the limit exactly: %v", err)
	}
	// memory grew to 10 cells during the run
	if err = i.SetOptions(vm.MemoryLimit(9)); err == nil {
		t.Fatal("expected error for a limit below the memory size")
	}
}

func TestPoke(t *testing.T) {
	i := setup(t, C{4, 20, 99})
	if err := i.Poke(20, 123); err != nil {
		t.Fatal(err)
	}
	if err := i.Poke(-1, 0); err == nil {
		t.Fatal("expected error poking a negative address")
	}
	check(t, "poke", i, 2, nil, C{123})
}

func TestParse(t *testing.T) {
	for _, c := range []struct {
		text  string
		prog  C
		index int
	}{
		{"1,0,0,0,99", C{1, 0, 0, 0, 99}, -1},
		{" 1 , -2,\t+3\n", C{1, -2, 3}, -1},
		{"104,1125899906842624,99", C{104, 1125899906842624, 99}, -1},
		{"", nil, -1},
		{" \n", nil, -1},
		{"1,,2", nil, 1},
		{"1,2,", nil, 2},
		{"1,x,3", nil, 1},
		{"1 2,3", nil, 0},
		{"99999999999999999999", nil, 0},
	} {
		p, err := vm.Parse(c.text)
		if c.index >= 0 {
			var pe *vm.ParseError
			if !errors.As(err, &pe) || pe.Index != c.index {
				t.Errorf("Parse(%q): expected parse error at token %d, got %v", c.text, c.index, err)
			}
			continue
		}
		if err != nil || !equal(p, c.prog) {
			t.Errorf("Parse(%q): expected %v, got %v, %v", c.text, c.prog, p, err)
		}
	}
	_, err := vm.Parse("99999999999999999999")
	if !errors.Is(err, strconv.ErrRange) {
		t.Errorf("expected ErrRange, got %v", err)
	}
	if _, err = vm.NewFromString("1,a"); err == nil {
		t.Error("NewFromString: expected error")
	}
	if _, err = vm.Load("testdata/does-not-exist"); err == nil {
		t.Error("Load: expected error")
	}
}
