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

// The intcode command line tool runs Intcode programs and is a showcase for
// the package github.com/db47h/intcode/vm.
//
// Usage:
//
//	intcode [flags] [program file]
//
//	-ascii
//		  run as an ASCII program
//	-asm
//		  program file is assembler source
//	-buffered
//		  do not yield on output
//	-config file
//		  load configuration from file (default ./intcode.toml if present)
//	-debug
//		  enable debug diagnostics
//	-disasm
//		  print a disassembly of the program and exit
//	-dump
//		  dump memory upon exit
//	-input values
//		  queue comma separated values as input (can be specified multiple times)
//	-mem cells
//		  memory limit in cells (0 for no limit; without a limit, a huge address exhausts host memory)
//	-program file
//		  load program from file
//	-raw
//		  use raw terminal IO in ASCII mode (default true)
//	-v int
//		  log verbosity (0-2)
//
// Flags override the settings of the configuration file. See package
// github.com/db47h/intcode/config for its format.
//
// Unless -ascii is set, output values are printed one per line. When the
// program needs input and the queued values are exhausted, a line of comma
// separated values is read from stdin.
//
// -ascii: input lines are fed to the program as character codes, including
// the trailing new line, and output values are printed as characters. Values
// outside of the ASCII range are printed as numbers on a line of their own.
//
// -raw: in ASCII mode, intcode switches the terminal to raw mode unless stdin
// has been redirected and handles echo, backspace and CTRL-D itself. Use
// -raw=false to disable this behavior. Raw mode is only supported on Linux.
//
// -asm: the program file is assembled with package
// github.com/db47h/intcode/asm instead of being parsed as comma separated
// values.
//
// -debug: every executed instruction is logged at debug level and errors are
// printed with a full stack trace along with the VM state.
//
// -dump: upon exit, the memory is written to stdout in the same format as
// program files.
package main
