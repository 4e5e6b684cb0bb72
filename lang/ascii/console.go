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

package ascii

import (
	"bufio"
	"io"
	"strings"

	"github.com/db47h/intcode/internal/iox"
	"github.com/db47h/intcode/vm"
	"github.com/pkg/errors"
)

// Console runs an ASCII program interactively.
//
// Whenever the program needs input, the console reads a line from its reader
// and queues it, including the trailing new line. Output values are written
// as characters. Values that are not ASCII characters are written as decimal
// numbers on a line of their own.
type Console struct {
	// Raw must be set if the reader is a terminal in raw mode (no echo, no
	// line editing). The console will then echo input and handle backspace
	// and CTRL-D itself.
	Raw bool

	r     *bufio.Reader
	w     *iox.ErrWriter
	flush func() error
	nl    bool // at the start of an output line
	line  []byte
}

// NewConsole returns a new console reading from r and writing to w. If w has
// a Flush() error method, it is called before waiting for input.
func NewConsole(r io.Reader, w io.Writer) *Console {
	c := &Console{w: iox.NewErrWriter(w), nl: true}
	if br, ok := r.(*bufio.Reader); ok {
		c.r = br
	} else {
		c.r = bufio.NewReader(r)
	}
	if f, ok := w.(interface{ Flush() error }); ok {
		c.flush = f.Flush
	}
	return c
}

func (c *Console) sync() error {
	if c.w.Err == nil && c.flush != nil {
		if err := c.flush(); err != nil {
			return errors.Wrap(err, "flush failed")
		}
	}
	return c.w.Err
}

func (c *Console) write(out []vm.Cell) error {
	for _, v := range out {
		if IsASCII(v) {
			c.w.WriteByte(byte(v))
			c.nl = v == '\n'
			continue
		}
		if !c.nl {
			c.w.WriteByte('\n')
		}
		c.w.WriteInt(int64(v))
		c.w.WriteByte('\n')
		c.nl = true
	}
	return c.w.Err
}

func (c *Console) readLine() (string, error) {
	if !c.Raw {
		s, err := c.r.ReadString('\n')
		if err == io.EOF && s != "" {
			s, err = s+"\n", nil
		}
		if strings.HasSuffix(s, "\r\n") {
			s = s[:len(s)-2] + "\n"
		}
		return s, err
	}

	c.line = c.line[:0]
L:
	for {
		b, err := c.r.ReadByte()
		if err != nil {
			if err == io.EOF && len(c.line) > 0 {
				break
			}
			return "", err
		}
		switch b {
		case 4: // CTRL-D
			if len(c.line) == 0 {
				return "", io.EOF
			}
			continue
		case 8, 127:
			if len(c.line) > 0 {
				c.line = c.line[:len(c.line)-1]
				c.w.WriteString("\b \b")
			}
			continue
		case '\r', '\n':
			break L
		}
		c.line = append(c.line, b)
		c.w.WriteByte(b)
	}
	c.w.WriteByte('\n')
	c.line = append(c.line, '\n')
	return string(c.line), c.sync()
}

// Run runs the program loaded in i until it halts. It returns the first
// error returned by i.Run or by the console's reader or writer.
//
// If the reader reaches EOF while the program is waiting for input, the
// returned error matches io.ErrUnexpectedEOF.
func (c *Console) Run(i *vm.Instance) error {
	for {
		o, err := i.Run()
		if werr := c.write(i.TakeOutput()); werr != nil {
			return werr
		}
		if err != nil {
			c.sync()
			return err
		}
		switch o.Reason {
		case vm.ReasonHalted:
			return c.sync()
		case vm.ReasonNeedsInput:
			if err = c.sync(); err != nil {
				return err
			}
			s, err := c.readLine()
			if err != nil {
				if err == io.EOF {
					return errors.Wrap(io.ErrUnexpectedEOF, "waiting for input")
				}
				return errors.Wrap(err, "read failed")
			}
			i.PushInput(Encode(s)...)
		}
	}
}
