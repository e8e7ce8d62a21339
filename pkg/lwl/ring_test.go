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
	"errors"
	"testing"
)

func TestNewRing(t *testing.T) {
	tests := []struct {
		buf []byte
		put int
		ok  bool
	}{
		{[]byte{1, 2, 3}, 0, true},
		{[]byte{1, 2, 3}, 2, true},
		{[]byte{1, 2, 3}, 3, false},
		{[]byte{1, 2, 3}, -1, false},
		{nil, 0, false},
	}
	for _, tt := range tests {
		_, err := NewRing(tt.buf, tt.put)
		var invalid ErrInvalidRing
		if tt.ok && err != nil {
			t.Errorf("NewRing(%v, %d) error: %s", tt.buf, tt.put, err)
		}
		if !tt.ok && !errors.As(err, &invalid) {
			t.Errorf("NewRing(%v, %d) error = %v, want ErrInvalidRing", tt.buf, tt.put, err)
		}
	}
}

func readAll(c *Cursor) []byte {
	var got []byte
	for {
		b, st := c.Next()
		if st == BufferExhausted {
			return got
		}
		got = append(got, b)
	}
}

func TestCursorFirstReadExempt(t *testing.T) {
	r, _ := NewRing([]byte{1, 2, 3}, 1)

	// starting at put the whole buffer is readable
	if got := readAll(r.Cursor(1)); string(got) != string([]byte{2, 3, 1}) {
		t.Errorf("walk from put = %v, want [2 3 1]", got)
	}
	// starting elsewhere the walk ends at put
	if got := readAll(r.Cursor(2)); string(got) != string([]byte{3, 1}) {
		t.Errorf("walk from 2 = %v, want [3 1]", got)
	}
	// start is taken modulo the buffer length
	if got := readAll(r.Cursor(5)); string(got) != string([]byte{3, 1}) {
		t.Errorf("walk from 5 = %v, want [3 1]", got)
	}
}

func TestCursorReadBE(t *testing.T) {
	r, _ := NewRing([]byte{0x34, 0x12, 0xab, 0x00}, 3)
	c := r.Cursor(1)
	v, consumed, st := c.ReadBE(2, nil)
	if st != ReadOK || v != 0x12ab || len(consumed) != 2 {
		t.Fatalf("ReadBE(2) = 0x%x, %v, %d", v, consumed, st)
	}
	// from put the whole buffer wraps around once
	c = r.Cursor(3)
	v, consumed, st = c.ReadBE(4, nil)
	if st != ReadOK || v != 0x003412ab {
		t.Fatalf("ReadBE(4) = 0x%x, %v, %d", v, consumed, st)
	}
	c = r.Cursor(3)
	_, consumed, st = c.ReadBE(5, nil)
	if st != BufferExhausted || HexBytes(consumed) != "00 34 12 ab" {
		t.Fatalf("ReadBE(5) = %v, %d", consumed, st)
	}
	c = r.Cursor(0)
	_, consumed, st = c.ReadBE(4, []byte{0xff})
	if st != BufferExhausted || HexBytes(consumed) != "ff 34 12 ab" {
		t.Fatalf("ReadBE(4) from 0 = %v, %d", consumed, st)
	}
}

func TestCursorSkip(t *testing.T) {
	r, _ := NewRing([]byte{1, 2, 3, 4}, 0)
	c := r.Cursor(2)
	if n, st := c.Skip(5); n != 2 || st != BufferExhausted {
		t.Errorf("Skip(5) = %d, %d; want 2, BufferExhausted", n, st)
	}
	c = r.Cursor(0)
	if n, st := c.Skip(4); n != 4 || st != ReadOK {
		t.Errorf("Skip(4) = %d, %d; want 4, ReadOK", n, st)
	}
}

func TestRingIndexOutOfRangePanics(t *testing.T) {
	r, _ := NewRing([]byte{1, 2}, 0)
	defer func() {
		if recover() == nil {
			t.Error("at(2) did not panic")
		}
	}()
	r.at(2)
}
