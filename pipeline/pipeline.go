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

// Package pipeline connects Intcode instances in a chain where each stage's
// output is the next stage's input.
//
// All stages run on the calling goroutine. Each stage is resumed in turn
// until it blocks on input, so a chain needs no synchronization.
package pipeline

import (
	"github.com/db47h/intcode/vm"
	"github.com/pkg/errors"
	"github.com/tliron/commonlog"
)

var (
	// ErrDeadlock is returned when every running stage is blocked on input.
	ErrDeadlock = errors.New("all stages blocked on input")
	// ErrNoOutput is returned when the last stage halts without producing
	// any output.
	ErrNoOutput = errors.New("last stage produced no output")
)

// Chain is a sequence of instances running the same program.
type Chain struct {
	program []vm.Cell
	stages  []*vm.Instance
	log     commonlog.Logger
}

// New creates a chain of len(phases) instances of program. Each instance
// receives its phase setting as its first input value. The options are
// applied to every instance.
func New(program []vm.Cell, phases []vm.Cell, opts ...vm.Option) (*Chain, error) {
	if len(phases) == 0 {
		return nil, errors.New("empty chain")
	}
	c := &Chain{
		program: program,
		stages:  make([]*vm.Instance, len(phases)),
		log:     commonlog.GetLogger("intcode.pipeline"),
	}
	for k, p := range phases {
		i, err := vm.New(program, opts...)
		if err != nil {
			return nil, errors.Wrapf(err, "stage %d", k)
		}
		i.PushInput(p)
		c.stages[k] = i
	}
	return c, nil
}

// Reset reloads the program in all stages and queues new phase settings.
// There must be as many phases as stages.
func (c *Chain) Reset(phases []vm.Cell) error {
	if len(phases) != len(c.stages) {
		return errors.Errorf("got %d phases for %d stages", len(phases), len(c.stages))
	}
	for k, i := range c.stages {
		i.Reset(c.program)
		i.PushInput(phases[k])
	}
	return nil
}

// Stages returns the chain's instances.
func (c *Chain) Stages() []*vm.Instance {
	return c.stages
}

// Run feeds signal to the first stage and runs the chain once: the output of
// each stage goes to the next one. It returns the last value output by the
// last stage when it halts.
func (c *Chain) Run(signal vm.Cell) (vm.Cell, error) {
	return c.run(signal, false)
}

// Loop works like Run, except that the output of the last stage is fed back
// to the first one. It runs until the last stage halts and returns the last
// value it produced.
func (c *Chain) Loop(signal vm.Cell) (vm.Cell, error) {
	return c.run(signal, true)
}

func (c *Chain) run(signal vm.Cell, feedback bool) (vm.Cell, error) {
	var (
		last vm.Cell
		got  bool
		n    = len(c.stages)
		tail = c.stages[n-1]
	)
	c.stages[0].PushInput(signal)
	for tail.State() != vm.Halted {
		progress := false
		for k, i := range c.stages {
			switch i.State() {
			case vm.Halted, vm.Faulted:
				continue
			case vm.BlockedOnInput:
				if len(i.PendingInput()) == 0 {
					continue
				}
			}
			progress = true
			o, err := i.Run()
			if err != nil {
				return 0, errors.Wrapf(err, "stage %d", k)
			}
			if o.Reason == vm.ReasonHalted {
				c.log.Debugf("stage %d halted after %d instructions", k, i.InstructionCount())
			}
			for _, v := range i.TakeOutput() {
				if k == n-1 {
					last, got = v, true
					if !feedback {
						continue
					}
				}
				c.stages[(k+1)%n].PushInput(v)
			}
		}
		if !progress {
			return 0, ErrDeadlock
		}
	}
	if !got {
		return 0, ErrNoOutput
	}
	return last, nil
}

// MaxSignal tries every ordering of phases and returns the highest signal
// output by a chain started with signal 0, along with the phase ordering that
// produced it. If feedback is true, chains are run with Loop, otherwise with
// Run.
func MaxSignal(program, phases []vm.Cell, feedback bool, opts ...vm.Option) (best vm.Cell, order []vm.Cell, err error) {
	p := append([]vm.Cell(nil), phases...)
	c, err := New(program, p, opts...)
	if err != nil {
		return 0, nil, err
	}
	try := func(reset bool) error {
		if reset {
			if err := c.Reset(p); err != nil {
				return err
			}
		}
		run := c.Run
		if feedback {
			run = c.Loop
		}
		v, err := run(0)
		if err != nil {
			return errors.Wrapf(err, "phases %v", p)
		}
		if order == nil || v > best {
			best, order = v, append(order[:0], p...)
		}
		return nil
	}

	if err = try(false); err != nil {
		return 0, nil, err
	}
	// Heap's algorithm
	cnt := make([]int, len(p))
	for k := 1; k < len(p); {
		if cnt[k] >= k {
			cnt[k] = 0
			k++
			continue
		}
		if k%2 == 0 {
			p[0], p[k] = p[k], p[0]
		} else {
			p[cnt[k]], p[k] = p[k], p[cnt[k]]
		}
		if err = try(true); err != nil {
			return 0, nil, err
		}
		cnt[k]++
		k = 1
	}
	return best, order, nil
}
