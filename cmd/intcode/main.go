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

package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/db47h/intcode/asm"
	"github.com/db47h/intcode/config"
	"github.com/db47h/intcode/lang/ascii"
	"github.com/db47h/intcode/vm"
	"github.com/pkg/errors"
	"github.com/tliron/commonlog"
	"golang.org/x/term"

	_ "github.com/tliron/commonlog/simple"
)

// cellList is a flag.Value accumulating comma separated values.
type cellList []vm.Cell

func (l *cellList) String() string { return "" }
func (l *cellList) Set(s string) error {
	v, err := vm.Parse(s)
	if err != nil {
		return err
	}
	*l = append(*l, v...)
	return nil
}
func (l *cellList) Get() interface{} { return *l }

// commonlog verbosity for each of our verbosity levels: errors, info, debug.
// commonlog maps verbosity 0 to notices, each step adding or removing a level.
var verbosity = [...]int{-2, 1, 2}

var (
	cfgFile  string
	progFile string
	isAsm    bool
	input    cellList
	asciiIO  bool
	rawIO    bool
	buffered bool
	memLimit int
	disasm   bool
	dump     bool
	verbose  int
	debug    bool
)

func loadConfig() (*config.Config, error) {
	var (
		c   *config.Config
		err error
	)
	if cfgFile != "" {
		c, err = config.Load(cfgFile)
	} else {
		c, err = config.Find(".")
	}
	if err != nil {
		return nil, err
	}
	if c == nil {
		c = config.Default()
	}

	// flags override the configuration file
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "program":
			if p, e := filepath.Abs(progFile); e == nil {
				progFile = p
			}
			c.Program.File = progFile
		case "asm":
			c.Program.Asm = isAsm
		case "input":
			c.Program.Input = input
		case "ascii":
			c.Console.ASCII = asciiIO
		case "raw":
			c.Console.Raw = rawIO
		case "buffered":
			c.VM.Buffered = buffered
		case "mem":
			c.VM.MemoryLimit = memLimit
		case "v":
			c.Log.Verbosity = verbose
		case "debug":
			c.Log.Debug = debug
		}
	})
	if flag.NArg() > 0 && c.Program.File == "" {
		c.Program.File, _ = filepath.Abs(flag.Arg(0))
	}
	if c.Log.Verbosity < 0 || c.Log.Verbosity >= len(verbosity) {
		return nil, errors.Errorf("invalid verbosity %d", c.Log.Verbosity)
	}
	return c, nil
}

func setupLog(c *config.Config) {
	v := verbosity[c.Log.Verbosity]
	if c.Log.Debug {
		v = verbosity[len(verbosity)-1]
	}
	var path *string
	if c.Log.File != "" {
		path = &c.Log.File
	}
	commonlog.Configure(v, path)
}

// readValues returns the values from the next non blank line.
func readValues(sc *bufio.Scanner) ([]vm.Cell, error) {
	for sc.Scan() {
		v, err := vm.Parse(sc.Text())
		if err != nil {
			return nil, errors.Wrap(err, "bad input")
		}
		if len(v) > 0 {
			return v, nil
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "read failed")
	}
	return nil, errors.Wrap(io.ErrUnexpectedEOF, "waiting for input")
}

// runNumeric runs i, printing output values one per line. Input is read from
// r, one or more comma separated values per line.
func runNumeric(i *vm.Instance, r io.Reader, w *bufio.Writer) error {
	sc := bufio.NewScanner(r)
	for {
		o, err := i.Run()
		for _, v := range i.TakeOutput() {
			fmt.Fprintln(w, v)
		}
		if err != nil {
			return err
		}
		switch o.Reason {
		case vm.ReasonHalted:
			return nil
		case vm.ReasonNeedsInput:
			if err = w.Flush(); err != nil {
				return errors.Wrap(err, "write failed")
			}
			v, err := readValues(sc)
			if err != nil {
				return err
			}
			i.PushInput(v...)
		}
	}
}

func atExit(i *vm.Instance, err error) {
	if err == nil {
		return
	}
	if !debug {
		fmt.Fprintf(os.Stderr, "\n%v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "\n%+v\n", err)
	if i != nil {
		fmt.Fprintf(os.Stderr, "PC: %d (%d), RB: %d, state: %v, instructions: %d\n",
			i.PC, i.Peek(i.PC), i.RelativeBase(), i.State(), i.InstructionCount())
	}
	os.Exit(1)
}

func main() {
	// check exit condition
	var err error
	var i *vm.Instance

	stdout := bufio.NewWriter(os.Stdout)

	// flush output, catch and log errors
	defer func() {
		if ferr := stdout.Flush(); err == nil {
			err = ferr
		}
		atExit(i, err)
	}()

	flag.StringVar(&cfgFile, "config", "", "load configuration from `file` (default ./"+config.FileName+" if present)")
	flag.StringVar(&progFile, "program", "", "load program from `file`")
	flag.BoolVar(&isAsm, "asm", false, "program file is assembler source")
	flag.Var(&input, "input", "queue comma separated `values` as input (can be specified multiple times)")
	flag.BoolVar(&asciiIO, "ascii", false, "run as an ASCII program")
	flag.BoolVar(&rawIO, "raw", true, "use raw terminal IO in ASCII mode")
	flag.BoolVar(&buffered, "buffered", false, "do not yield on output")
	flag.IntVar(&memLimit, "mem", 0, "memory limit in `cells` (0 for no limit; without a limit, a huge address exhausts host memory)")
	flag.BoolVar(&disasm, "disasm", false, "print a disassembly of the program and exit")
	flag.BoolVar(&dump, "dump", false, "dump memory upon exit")
	flag.IntVar(&verbose, "v", 0, "log verbosity (0-2)")
	flag.BoolVar(&debug, "debug", false, "enable debug diagnostics")

	flag.Parse()

	cfg, err := loadConfig()
	if err != nil {
		return
	}
	debug = cfg.Log.Debug
	setupLog(cfg)
	log := commonlog.GetLogger("intcode")

	prog, err := cfg.LoadProgram()
	if err != nil {
		return
	}
	log.Infof("loaded %d cells from %s", len(prog), cfg.ProgramPath())

	if disasm {
		err = asm.DisassembleAll(prog, 0, stdout)
		return
	}

	opts := cfg.Options()
	if cfg.Log.Debug {
		opts = append(opts, vm.Logger(commonlog.GetLogger("intcode.vm")))
	}
	if i, err = vm.New(prog, opts...); err != nil {
		return
	}

	if cfg.Console.ASCII {
		con := ascii.NewConsole(os.Stdin, stdout)
		if cfg.Console.Raw && term.IsTerminal(int(os.Stdin.Fd())) {
			tearDown, rerr := setRawIO()
			if rerr != nil {
				log.Warningf("%v", rerr)
			} else {
				defer tearDown()
				con.Raw = true
			}
		}
		err = con.Run(i)
	} else {
		err = runNumeric(i, os.Stdin, stdout)
	}
	log.Infof("%d instructions executed, final state: %v", i.InstructionCount(), i.State())
	if err != nil {
		return
	}

	if dump {
		if err = i.Dump(stdout); err == nil {
			_, err = stdout.WriteString("\n")
		}
	}
}
