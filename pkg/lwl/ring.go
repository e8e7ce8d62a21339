/*
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     https://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

package lwl

import (
	"fmt"
)

// ReadStatus is the outcome of a read from the ring.
type ReadStatus int

const (
	ReadOK ReadStatus = iota
	// BufferExhausted means the walk came back around to the put index.
	// It is the normal end of a walk, not an error.
	BufferExhausted
)

// Ring is a read-only view of the LWL circular buffer.
type Ring struct {
	buf []byte
	put int
}

// NewRing validates put against the buffer length.
func NewRing(buf []byte, put int) (*Ring, error) {
	if len(buf) == 0 || put < 0 || put >= len(buf) {
		return nil, ErrInvalidRing{BufLen: len(buf), PutIndex: put}
	}
	return &Ring{buf: buf, put: put}, nil
}

func (r *Ring) Len() int {
	return len(r.buf)
}

func (r *Ring) PutIndex() int {
	return r.put
}

// at panics on an index outside the ring. Cursors only produce indices in
// [0, Len()) so this is a programming error, not bad input.
func (r *Ring) at(idx int) byte {
	if idx < 0 || idx >= len(r.buf) {
		panic(fmt.Sprintf("lwl: ring index %d out of range [0,%d)", idx, len(r.buf)))
	}
	return r.buf[idx]
}

// Cursor walks the ring from a start index. The first read of a walk may
// land on the put index (the buffer can be completely full); any later read
// landing there exhausts the walk.
type Cursor struct {
	ring  *Ring
	idx   int
	first bool
}

// Cursor starts a new walk at start.
func (r *Ring) Cursor(start int) *Cursor {
	return &Cursor{ring: r, idx: r.wrap(start), first: true}
}

func (r *Ring) wrap(idx int) int {
	idx %= len(r.buf)
	if idx < 0 {
		idx += len(r.buf)
	}
	return idx
}

// Index is the position of the next read.
func (c *Cursor) Index() int {
	return c.idx
}

// Next reads one byte and advances.
func (c *Cursor) Next() (byte, ReadStatus) {
	if c.idx == c.ring.put && !c.first {
		return 0, BufferExhausted
	}
	b := c.ring.at(c.idx)
	c.first = false
	c.idx++
	if c.idx >= len(c.ring.buf) {
		c.idx = 0
	}
	return b, ReadOK
}

// ReadBE reads width bytes as one big-endian value. On exhaustion the
// bytes read so far are still returned.
func (c *Cursor) ReadBE(width int, consumed []byte) (uint64, []byte, ReadStatus) {
	var v uint64
	for i := 0; i < width; i++ {
		b, st := c.Next()
		if st != ReadOK {
			return v, consumed, st
		}
		consumed = append(consumed, b)
		v = v<<8 | uint64(b)
	}
	return v, consumed, ReadOK
}

// Skip advances n bytes, returning how many could be read.
func (c *Cursor) Skip(n int) (int, ReadStatus) {
	for i := 0; i < n; i++ {
		if _, st := c.Next(); st != ReadOK {
			return i, st
		}
	}
	return n, ReadOK
}
