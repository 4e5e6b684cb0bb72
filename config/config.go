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

// Package config handles intcode.toml run configurations.
//
// A configuration file looks like:
//
//	[program]
//	file = "day09.txt"	# relative to the configuration file
//	asm = false		# true if file is assembler source
//	input = [2]		# values queued before the first run
//
//	[vm]
//	memory-limit = 0	# in cells, 0 for no limit
//	buffered = false	# do not return from Run on output
//
//	[console]
//	ascii = false		# run as an ASCII program
//	raw = true		# raw terminal input in ASCII mode
//
//	[log]
//	verbosity = 0		# 0: errors, 1: info, 2: debug
//	file = ""		# log file, stderr if empty
//	debug = false		# trace execution and print stack traces on error
package config

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/db47h/intcode/asm"
	"github.com/db47h/intcode/vm"
	"github.com/pkg/errors"
)

// FileName is the default configuration file name.
const FileName = "intcode.toml"

// Config represents an intcode.toml configuration.
type Config struct {
	Program Program `toml:"program"`
	VM      VM      `toml:"vm"`
	Console Console `toml:"console"`
	Log     Log     `toml:"log"`

	// Dir is the directory containing the configuration file (set at load
	// time).
	Dir string `toml:"-"`
}

// Program configures the program to run.
type Program struct {
	File  string    `toml:"file"`
	Asm   bool      `toml:"asm"`
	Input []vm.Cell `toml:"input"`
}

// VM configures the virtual machine.
type VM struct {
	MemoryLimit int  `toml:"memory-limit"`
	Buffered    bool `toml:"buffered"`
}

// Console configures ASCII mode.
type Console struct {
	ASCII bool `toml:"ascii"`
	Raw   bool `toml:"raw"`
}

// Log configures logging.
type Log struct {
	Verbosity int    `toml:"verbosity"`
	File      string `toml:"file"`
	Debug     bool   `toml:"debug"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Console: Console{Raw: true},
	}
}

// Load parses the configuration file at path. Settings not present in the
// file keep their default value. Unknown keys are reported as errors.
func Load(path string) (*Config, error) {
	c := Default()
	md, err := toml.DecodeFile(path, c)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", path)
	}
	if u := md.Undecoded(); len(u) > 0 {
		keys := make([]string, len(u))
		for k := range u {
			keys[k] = u[k].String()
		}
		sort.Strings(keys)
		return nil, errors.Errorf("load %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	if err = c.validate(); err != nil {
		return nil, errors.Wrapf(err, "load %s", path)
	}
	c.Dir, err = filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, errors.Wrapf(err, "cannot resolve path %s", path)
	}
	return c, nil
}

// Find looks for a configuration file in dir and loads it. It returns nil
// and no error if there is none.
func Find(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "find configuration")
	}
	return Load(path)
}

func (c *Config) validate() error {
	if c.VM.MemoryLimit < 0 {
		return errors.Errorf("invalid memory limit %d", c.VM.MemoryLimit)
	}
	if c.Log.Verbosity < 0 || c.Log.Verbosity > 2 {
		return errors.Errorf("invalid verbosity %d", c.Log.Verbosity)
	}
	return nil
}

// ProgramPath returns the path to the program file. Relative paths are
// resolved against the configuration file's directory.
func (c *Config) ProgramPath() string {
	if c.Program.File == "" || filepath.IsAbs(c.Program.File) || c.Dir == "" {
		return c.Program.File
	}
	return filepath.Join(c.Dir, c.Program.File)
}

// LoadProgram loads the configured program, assembling it if needed.
func (c *Config) LoadProgram() ([]vm.Cell, error) {
	path := c.ProgramPath()
	if path == "" {
		return nil, errors.New("no program file")
	}
	if !c.Program.Asm {
		return vm.Load(path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "load program")
	}
	defer f.Close()
	return asm.Assemble(path, f)
}

// Options returns the VM options for this configuration.
func (c *Config) Options() []vm.Option {
	return []vm.Option{
		vm.MemoryLimit(c.VM.MemoryLimit),
		vm.YieldOutput(!c.VM.Buffered),
		vm.Input(c.Program.Input...),
	}
}
