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

// Package iox provides I/O helpers shared by the intcode packages.
package iox

import (
	"io"
	"strconv"

	"github.com/pkg/errors"
)

// ErrWriter is a simple wrapper to track io errors. Once a write fails, all
// subsequent writes are no-ops that keep returning the first error. This
// allows a sequence of writes to be checked only once, at the end.
type ErrWriter struct {
	w   io.Writer
	buf []byte
	Err error
}

// NewErrWriter returns a new ErrWriter. If w already is an *ErrWriter, it is
// returned as is.
func NewErrWriter(w io.Writer) *ErrWriter {
	if ew, ok := w.(*ErrWriter); ok {
		return ew
	}
	return &ErrWriter{w: w}
}

func (w *ErrWriter) Write(p []byte) (n int, err error) {
	if w.Err != nil {
		return 0, w.Err
	}
	n, err = w.w.Write(p)
	if err != nil {
		w.Err = errors.Wrap(err, "write failed")
	}
	return n, w.Err
}

// WriteString writes s.
func (w *ErrWriter) WriteString(s string) (n int, err error) {
	return io.WriteString(struct{ io.Writer }{w}, s)
}

// WriteByte writes a single byte.
func (w *ErrWriter) WriteByte(c byte) error {
	w.buf = append(w.buf[:0], c)
	_, err := w.Write(w.buf)
	return err
}

// WriteInt writes the base 10 representation of v.
func (w *ErrWriter) WriteInt(v int64) error {
	w.buf = strconv.AppendInt(w.buf[:0], v, 10)
	_, err := w.Write(w.buf)
	return err
}
