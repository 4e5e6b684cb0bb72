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

package asm

import (
	"io"
	"sort"
	"strconv"
	"strings"
	"text/scanner"
	"unicode"

	"github.com/db47h/intcode/vm"
	"github.com/pkg/errors"
)

const (
	maxErrors  = 10
	maxAddress = 1 << 24
)

func isIdentRune(ch rune, i int) bool {
	return unicode.IsLetter(ch) || unicode.IsSymbol(ch) || unicode.IsPunct(ch) || unicode.IsDigit(ch)
}

type labelSite struct {
	pos     scanner.Position
	address int
}

type labelUse struct {
	labelSite
	neg bool
}

type label struct {
	labelSite
	uses []labelUse
}

// fixup is a label reference waiting for the cell it patches to be written.
type fixup struct {
	name string
	use  labelUse
}

type constant struct {
	pos   scanner.Position
	value vm.Cell
}

type token struct {
	text string
	pos  scanner.Position
}

type parser struct {
	i      []vm.Cell
	pc     int
	end    int // high water mark
	s      scanner.Scanner
	peek   token
	peeked bool
	labels map[string]*label
	consts map[string]constant
	fixups []fixup
	errs   ErrAsm
}

func newParser() *parser {
	p := new(parser)
	p.labels = make(map[string]*label)
	p.consts = make(map[string]constant)
	return p
}

func (p *parser) error(pos scanner.Position, msg string) {
	if len(p.errs) < maxErrors {
		p.errs = append(p.errs, Error{pos, msg})
	}
}

func (p *parser) write(v vm.Cell) {
	if p.pc >= len(p.i) {
		n := 2 * len(p.i)
		if n <= p.pc {
			n = p.pc + 256
		}
		t := make([]vm.Cell, n)
		copy(t, p.i)
		p.i = t
	}
	p.i[p.pc] = v
	p.pc++
	if p.pc > p.end {
		p.end = p.pc
	}
}

// next returns the next token, skipping comments.
func (p *parser) next() (t token, ok bool) {
	if p.peeked {
		p.peeked = false
		return p.peek, true
	}
	for {
		tok := p.s.Scan()
		if tok == scanner.EOF {
			return t, false
		}
		t = token{p.s.TokenText(), p.s.Position}
		if tok != scanner.Ident {
			p.error(t.pos, "unexpected character "+strconv.QuoteRune(tok))
			continue
		}
		if t.text != "(" {
			return t, true
		}
		for tok = p.s.Scan(); tok != scanner.EOF && p.s.TokenText() != ")"; tok = p.s.Scan() {
		}
		if tok == scanner.EOF {
			p.error(t.pos, "unterminated comment (")
			return t, false
		}
	}
}

func (p *parser) unread(t token) {
	p.peek, p.peeked = t, true
}

func sign(s string) (neg bool, name string) {
	if len(s) > 1 && (s[0] == '-' || s[0] == '+') {
		return s[0] == '-', s[1:]
	}
	return false, s
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// isRelative returns true for tokens of the form r42, r+42, r-42 or r+label.
func isRelative(s string) bool {
	return len(s) > 1 && s[0] == 'r' && (s[1] == '+' || s[1] == '-' || isDigit(s[1]))
}

// isDelimiter returns true if s starts a new statement.
func isDelimiter(s string) bool {
	if s[0] == ':' || s[0] == '.' {
		return true
	}
	_, ok := vm.Lookup(s)
	return ok
}

// checkName returns a non empty message if name cannot be used as a label or
// constant name.
func checkName(name string) string {
	if name == "" {
		return "empty name"
	}
	if strings.IndexByte("#:.'+-()", name[0]) >= 0 || isDigit(name[0]) {
		return "invalid name"
	}
	if isRelative(name) {
		return "ambiguous name"
	}
	if _, ok := vm.Lookup(name); ok {
		return "reserved name"
	}
	return ""
}

// literal evaluates integer literals, character literals and constants, with
// an optional sign.
func (p *parser) literal(s string) (vm.Cell, bool, error) {
	n, err := strconv.ParseInt(s, 0, 64)
	if err == nil {
		return vm.Cell(n), true, nil
	}
	if errors.Is(err, strconv.ErrRange) {
		return 0, false, errors.New("value out of range")
	}
	neg, name := sign(s)
	var v vm.Cell
	switch {
	case len(name) > 2 && name[0] == '\'' && name[len(name)-1] == '\'':
		r, _, tail, err := strconv.UnquoteChar(name[1:len(name)-1], '\'')
		if err != nil || tail != "" {
			return 0, false, errors.New("invalid character literal")
		}
		v = vm.Cell(r)
	default:
		c, ok := p.consts[name]
		if !ok {
			return 0, false, nil
		}
		v = c.value
	}
	if neg {
		v = -v
	}
	return v, true, nil
}

// value evaluates s, the value part of token t. Label references are queued
// for fixup at address at and must be committed once that cell is written.
func (p *parser) value(t token, s string, at int) vm.Cell {
	v, ok, err := p.literal(s)
	if err != nil {
		p.error(t.pos, err.Error()+": "+t.text)
		return 0
	}
	if ok {
		return v
	}
	neg, name := sign(s)
	if checkName(name) != "" {
		p.error(t.pos, "invalid operand: "+t.text)
		return 0
	}
	p.fixups = append(p.fixups, fixup{name, labelUse{labelSite{t.pos, at}, neg}})
	return 0
}

// commit records the queued label references.
func (p *parser) commit() {
	for _, f := range p.fixups {
		l := p.labels[f.name]
		if l == nil {
			l = &label{labelSite: labelSite{f.use.pos, -1}}
			p.labels[f.name] = l
		}
		l.uses = append(l.uses, f.use)
	}
	p.fixups = p.fixups[:0]
}

// constArg reads the argument of directive d, which must evaluate to a
// constant.
func (p *parser) constArg(d token) (vm.Cell, bool) {
	t, ok := p.next()
	if !ok || isDelimiter(t.text) {
		if ok {
			p.unread(t)
		}
		p.error(d.pos, "missing value for "+d.text)
		return 0, false
	}
	v, ok, err := p.literal(t.text)
	if err != nil {
		p.error(t.pos, err.Error()+": "+t.text)
		return 0, false
	}
	if !ok {
		p.error(t.pos, "expected constant value, got "+t.text)
	}
	return v, ok
}

func (p *parser) defineLabel(t token) {
	n := t.text[1:]
	if msg := checkName(n); msg != "" {
		p.error(t.pos, msg+": "+t.text)
		return
	}
	if c, ok := p.consts[n]; ok {
		p.error(t.pos, "label redefinition, previously defined as a constant at "+c.pos.String()+": "+t.text)
		return
	}
	if l, ok := p.labels[n]; ok {
		if l.address != -1 {
			p.error(t.pos, "label redefinition, previous definition at "+l.pos.String()+": "+t.text)
			return
		}
		l.labelSite = labelSite{t.pos, p.pc}
		return
	}
	p.labels[n] = &label{labelSite: labelSite{t.pos, p.pc}}
}

func (p *parser) directive(t token) {
	switch t.text {
	case ".dat":
		n := 0
		for {
			v, ok := p.next()
			if !ok {
				break
			}
			if isDelimiter(v.text) {
				p.unread(v)
				break
			}
			p.write(p.value(v, v.text, p.pc))
			p.commit()
			n++
		}
		if n == 0 {
			p.error(t.pos, "missing value for "+t.text)
		}
	case ".org":
		v, ok := p.constArg(t)
		if !ok {
			return
		}
		if v < 0 || v >= maxAddress {
			p.error(t.pos, "address out of range: "+t.text)
			return
		}
		p.pc = int(v)
	case ".equ":
		n, ok := p.next()
		if !ok || isDelimiter(n.text) {
			if ok {
				p.unread(n)
			}
			p.error(t.pos, "missing name for "+t.text)
			return
		}
		if msg := checkName(n.text); msg != "" {
			p.error(n.pos, msg+": "+n.text)
			return
		}
		if l, ok := p.labels[n.text]; ok {
			p.error(n.pos, "constant redefinition, previously defined or used as a label at "+l.pos.String()+": "+n.text)
			return
		}
		if c, ok := p.consts[n.text]; ok {
			p.error(n.pos, "constant redefinition, previous definition at "+c.pos.String()+": "+n.text)
			return
		}
		if v, ok := p.constArg(t); ok {
			p.consts[n.text] = constant{n.pos, v}
		}
	default:
		p.error(t.pos, "unknown directive "+t.text)
	}
}

func (p *parser) instruction(op vm.Opcode, t token) {
	var (
		modes [vm.MaxParams]vm.Mode
		args  [vm.MaxParams]vm.Cell
	)
	at := p.pc
	n := op.Params()
	for k := 0; k < n; k++ {
		a, ok := p.next()
		if !ok || isDelimiter(a.text) {
			if ok {
				p.unread(a)
			}
			p.error(t.pos, "missing operand "+strconv.Itoa(k+1)+" for "+t.text)
			// nothing is emitted, drop references to the unwritten cells
			p.fixups = p.fixups[:0]
			return
		}
		s := a.text
		switch {
		case s[0] == '#':
			modes[k], s = vm.Immediate, s[1:]
			if op.Writes(k) {
				p.error(a.pos, "immediate mode on write target: "+a.text)
			}
		case isRelative(s):
			modes[k], s = vm.Relative, s[1:]
		}
		if s == "" {
			p.error(a.pos, "missing value: "+a.text)
			continue
		}
		args[k] = p.value(a, s, at+1+k)
	}
	p.write(vm.Encode(op, modes[:]...))
	for k := 0; k < n; k++ {
		p.write(args[k])
	}
	p.commit()
}

func (p *parser) resolve() {
	names := make([]string, 0, len(p.labels))
	for n := range p.labels {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		l := p.labels[n]
		if l.address == -1 {
			p.error(l.uses[0].pos, "undefined label "+n)
			continue
		}
		for _, u := range l.uses {
			v := vm.Cell(l.address)
			if u.neg {
				v = -v
			}
			p.i[u.address] = v
		}
	}
}

// Parse does the parsing and compiling.
func (p *parser) Parse(name string, r io.Reader) ([]vm.Cell, error) {
	p.s.Init(r)
	p.s.Error = func(s *scanner.Scanner, msg string) {
		pos := s.Position
		if !pos.IsValid() {
			pos = s.Pos()
		}
		p.error(pos, msg)
	}
	p.s.IsIdentRune = isIdentRune
	p.s.Mode = scanner.ScanIdents
	p.s.Filename = name

	for t, ok := p.next(); ok && len(p.errs) < maxErrors; t, ok = p.next() {
		switch t.text[0] {
		case ':':
			p.defineLabel(t)
		case '.':
			p.directive(t)
		default:
			if op, ok := vm.Lookup(t.text); ok {
				p.instruction(op, t)
				break
			}
			p.error(t.pos, "expected instruction, directive or label, got "+t.text)
		}
	}
	p.resolve()

	if len(p.errs) > 0 {
		return nil, p.errs
	}
	return p.i[:p.end], nil
}
