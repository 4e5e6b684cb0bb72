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
	"fmt"

	"github.com/db47h/intcode/vm"
	"github.com/pkg/errors"
)

// Shows how to drive an instance step by step, feeding input only when the
// program asks for it.
func ExampleInstance_Run() {
	// read two numbers, output their sum
	i, err := vm.NewFromString("3,11,3,12,1,11,12,13,4,13,99")
	if err != nil {
		panic(err)
	}
	in := []vm.Cell{20, 22}
	for {
		o, err := i.Run()
		if err != nil {
			panic(err)
		}
		switch o.Reason {
		case vm.ReasonNeedsInput:
			fmt.Println("input", in[0])
			i.PushInput(in[0])
			in = in[1:]
		case vm.ReasonOutput:
			fmt.Println("output", o.Value)
		case vm.ReasonHalted:
			fmt.Println("halted @", i.PC)
			return
		}
	}

	// Output:
	// input 20
	// input 22
	// output 42
	// halted @ 10
}

func ExampleInstance_RunAll() {
	i, err := vm.NewFromString("109,1,204,-1,1001,100,1,100,1008,100,16,101,1006,101,0,99")
	if err != nil {
		panic(err)
	}
	out, o, err := i.RunAll()
	fmt.Println(out)
	fmt.Println(o, err)

	// Output:
	// [109 1 204 -1 1001 100 1 100 1008 100 16 101 1006 101 0 99]
	// halted <nil>
}

func ExampleDecode() {
	ins, _ := vm.Decode(1002)
	fmt.Println(ins.Op, ins.Modes[0], ins.Modes[1], ins.Modes[2])
	_, err := vm.Decode(1103)
	fmt.Println(err)

	// Output:
	// mul position immediate position
	// invalid mode in instruction 1103 @pc=0
}

// Faults are sticky: any further call to Run reports the same fault.
func ExampleFault() {
	i, err := vm.New([]vm.Cell{1101, 2, 3, 5, 5551})
	if err != nil {
		panic(err)
	}
	o, err := i.Run()
	fmt.Println(o.Fault.Kind, o.Fault.PC)
	fmt.Println(err)
	_, err = i.Run()
	fmt.Println(errors.Is(err, vm.ErrTerminated))

	// Output:
	// unknown opcode 4
	// unknown opcode in instruction 5551 @pc=4
	// true
}
