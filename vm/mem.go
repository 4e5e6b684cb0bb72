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

const maxInt = int(^uint(0) >> 1)

// memory is the VM tape. Cells between len(cells) and cap(cells) are always
// zero so that growing is only a matter of reslicing.
type memory struct {
	cells []Cell
	limit int
}

// index validates addr and grows the tape so that it can be accessed.
func (m *memory) index(addr Cell) (int, *Fault) {
	if addr < 0 {
		return 0, &Fault{Kind: InvalidAddress, Addr: addr}
	}
	if uint64(addr) >= uint64(maxInt) || m.limit > 0 && addr >= Cell(m.limit) {
		return 0, &Fault{Kind: OutOfMemory, Addr: addr}
	}
	a := int(addr)
	if a >= len(m.cells) {
		m.grow(a + 1)
	}
	return a, nil
}

func (m *memory) grow(n int) {
	if n <= cap(m.cells) {
		m.cells = m.cells[:n]
		return
	}
	c := 2 * cap(m.cells)
	if c < n {
		c = n
	}
	t := make([]Cell, n, c)
	copy(t, m.cells)
	m.cells = t
}

func (m *memory) read(addr Cell) (Cell, *Fault) {
	a, f := m.index(addr)
	if f != nil {
		return 0, f
	}
	return m.cells[a], nil
}

func (m *memory) write(addr, v Cell) *Fault {
	a, f := m.index(addr)
	if f != nil {
		return f
	}
	m.cells[a] = v
	return nil
}

// load replaces the tape contents with a copy of prog, reusing storage.
func (m *memory) load(prog []Cell) {
	if len(prog) > cap(m.cells) {
		m.cells = make([]Cell, len(prog))
		copy(m.cells, prog)
		return
	}
	clear(m.cells[:cap(m.cells)])
	m.cells = m.cells[:len(prog)]
	copy(m.cells, prog)
}
