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
	"math/rand"
	"reflect"
	"testing"

	"jinr.ru/greenlab/go-lwl/pkg/catalog"
	"jinr.ru/greenlab/go-lwl/pkg/format"
)

func newCatalog(t *testing.T, descs ...*catalog.MessageDescriptor) *catalog.MessageCatalog {
	t.Helper()
	c := catalog.NewMessageCatalog()
	for _, d := range descs {
		if err := c.Insert(d); err != nil {
			t.Fatalf("Insert(%d) error: %s", d.ID, err)
		}
	}
	return c
}

func tickValCatalog(t *testing.T) *catalog.MessageCatalog {
	return newCatalog(t,
		&catalog.MessageDescriptor{ID: 1, Format: "tick"},
		&catalog.MessageDescriptor{ID: 2, Format: "val=%d", ArgWidths: []int{4}},
	)
}

func decode(t *testing.T, c *catalog.MessageCatalog, buf []byte, put int) *Result {
	t.Helper()
	r, err := NewRing(buf, put)
	if err != nil {
		t.Fatalf("NewRing() error: %s", err)
	}
	return NewDecoder(c).Decode(r)
}

func lines(res *Result) []string {
	var result []string
	for _, rec := range res.Records {
		result = append(result, rec.String())
	}
	return result
}

func TestDecodeExactBoundary(t *testing.T) {
	res := decode(t, tickValCatalog(t), []byte{1, 2, 0x00, 0x00, 0x00, 0x07}, 0)
	want := []string{"tick", "val=7"}
	if got := lines(res); !reflect.DeepEqual(got, want) {
		t.Errorf("lines = %q, want %q", got, want)
	}
	if res.Start != 0 || res.Invalid != 0 {
		t.Errorf("resync = %+v, want start 0 with no invalid ids", res.Resync)
	}
}

func TestDecodeMisalignedPut(t *testing.T) {
	res := decode(t, tickValCatalog(t), []byte{1, 2, 0x00, 0x00, 0x00, 0x07}, 1)
	if res.Start != 1 || res.Offset != 0 || res.Invalid != 0 {
		t.Errorf("resync = %+v, want start 1 with no invalid ids", res.Resync)
	}
	want := []string{"val=7", "tick"}
	if got := lines(res); !reflect.DeepEqual(got, want) {
		t.Errorf("lines = %q, want %q", got, want)
	}
}

func TestDecodeResyncSkipsPartialMessage(t *testing.T) {
	// 00 07 at put are the last argument bytes of an overwritten message
	res := decode(t, tickValCatalog(t), []byte{0x00, 0x09, 1, 0x00, 0x07, 2, 0x00, 0x00}, 3)
	if res.Start != 5 || res.Offset != 2 || res.Invalid != 0 {
		t.Errorf("resync = %+v, want start 5", res.Resync)
	}
	if !reflect.DeepEqual(res.Counts, []int{2, 1, 0, 4, 3, 2}) {
		t.Errorf("counts = %v", res.Counts)
	}
	want := []string{"val=9", "tick"}
	if got := lines(res); !reflect.DeepEqual(got, want) {
		t.Errorf("lines = %q, want %q", got, want)
	}
}

func TestDecodeUnused(t *testing.T) {
	c := newCatalog(t, &catalog.MessageDescriptor{ID: 2, Format: "val=%d", ArgWidths: []int{4}})
	res := decode(t, c, []byte{2, 0, 0, 0, 7, 2, 0, 0}, 0)
	want := []string{"val=7", "Unused data (hex): 02 00 00"}
	if got := lines(res); !reflect.DeepEqual(got, want) {
		t.Errorf("lines = %q, want %q", got, want)
	}
	last := res.Records[len(res.Records)-1]
	if last.Kind != RecordUnused || last.Index != 5 || last.ID != 2 {
		t.Errorf("unused record = %+v", last)
	}
}

func TestDecodeSkipped(t *testing.T) {
	c := newCatalog(t,
		&catalog.MessageDescriptor{ID: 1, Format: "tick"},
		&catalog.MessageDescriptor{ID: 2, Format: "val=%d", ArgWidths: []int{1}},
	)
	res := decode(t, c, []byte{1, 1, 1, 9, 2, 5, 1}, 0)
	want := []string{"tick", "tick", "tick", "Skipped data (hex): 09", "val=5", "tick"}
	if got := lines(res); !reflect.DeepEqual(got, want) {
		t.Errorf("lines = %q, want %q", got, want)
	}
	if res.Records[3].Index != 3 {
		t.Errorf("skipped record index = %d, want 3", res.Records[3].Index)
	}
	if !reflect.DeepEqual(res.Counts, []int{1, 1, 1}) {
		t.Errorf("counts = %v, want [1 1 1]", res.Counts)
	}
}

func TestDecodeTrailingSkipped(t *testing.T) {
	c := newCatalog(t, &catalog.MessageDescriptor{ID: 1, Format: "tick"})
	res := decode(t, c, []byte{1, 1, 1, 9, 9}, 0)
	want := []string{"tick", "tick", "tick", "Skipped data (hex): 09 09"}
	if got := lines(res); !reflect.DeepEqual(got, want) {
		t.Errorf("lines = %q, want %q", got, want)
	}
}

func TestDecodeMismatch(t *testing.T) {
	c := newCatalog(t, &catalog.MessageDescriptor{ID: 3, Format: "a=%d b=%d", ArgWidths: []int{1}})
	res := decode(t, c, []byte{3, 4}, 0)
	want := []string{"a=4 b=%!d(MISSING) [fmt/args mismatch]"}
	if got := lines(res); !reflect.DeepEqual(got, want) {
		t.Errorf("lines = %q, want %q", got, want)
	}
	if got := res.Messages(); !reflect.DeepEqual(got, []string{"a=4 b=%!d(MISSING)"}) {
		t.Errorf("Messages() = %q", got)
	}
}

func TestDecodeArgsBigEndian(t *testing.T) {
	c := newCatalog(t, &catalog.MessageDescriptor{ID: 7, Format: "%x %d %u", ArgWidths: []int{2, 1, 8}})
	buf := []byte{7, 0xbe, 0xef, 0xfe, 0, 0, 0, 0, 0, 0, 0x01, 0x00}
	res := decode(t, c, buf, 0)
	want := []string{"beef -2 256"}
	if got := lines(res); !reflect.DeepEqual(got, want) {
		t.Errorf("lines = %q, want %q", got, want)
	}
	wantArgs := []format.Arg{{Value: 0xbeef, Width: 2}, {Value: 0xfe, Width: 1}, {Value: 256, Width: 8}}
	if !reflect.DeepEqual(res.Records[0].Args, wantArgs) {
		t.Errorf("args = %+v", res.Records[0].Args)
	}
}

func TestDecodeNoKnownIDs(t *testing.T) {
	res := decode(t, tickValCatalog(t), []byte{0, 0, 0}, 1)
	if len(res.Messages()) != 0 {
		t.Errorf("Messages() = %q, want none", res.Messages())
	}
	if len(res.Records) != 1 || res.Records[0].Kind != RecordSkipped {
		t.Errorf("records = %+v, want one skipped record", res.Records)
	}
}

// naiveInvalid counts invalid ids with plain index arithmetic: from start
// there are (put-start) mod n bytes to read, all n of them when start is put.
func naiveInvalid(c *catalog.MessageCatalog, buf []byte, put, start int) int {
	n := len(buf)
	avail := ((put-start)%n + n) % n
	if avail == 0 {
		avail = n
	}
	invalid, read := 0, 0
	for read < avail {
		id := buf[(start+read)%n]
		read++
		d, ok := c.Lookup(uint32(id))
		if !ok {
			invalid++
			continue
		}
		if read+d.NumArgBytes() > avail {
			return invalid
		}
		read += d.NumArgBytes()
	}
	return invalid
}

type written struct {
	start int
	id    uint8
	args  []format.Arg
}

func TestResyncBruteForce(t *testing.T) {
	c := newCatalog(t,
		&catalog.MessageDescriptor{ID: 1, Format: "tick"},
		&catalog.MessageDescriptor{ID: 2, Format: "b=%d", ArgWidths: []int{1}},
		&catalog.MessageDescriptor{ID: 3, Format: "h=%u", ArgWidths: []int{2}},
		&catalog.MessageDescriptor{ID: 4, Format: "w=%x", ArgWidths: []int{4}},
		&catalog.MessageDescriptor{ID: 5, Format: "q=%d", ArgWidths: []int{8}},
		&catalog.MessageDescriptor{ID: 6, Format: "p=%d %d", ArgWidths: []int{1, 4}},
	)
	window := c.MaxMessageLen()
	d := NewDecoder(c)

	for seed := int64(1); seed <= 200; seed++ {
		rnd := rand.New(rand.NewSource(seed))
		n := window + 1 + rnd.Intn(48)
		buf := make([]byte, n)

		// write like the device does until the buffer has wrapped
		var msgs []written
		total := 0
		target := n + 1 + rnd.Intn(2*n)
		for total < target {
			id := uint8(1 + rnd.Intn(6))
			desc, _ := c.Lookup(uint32(id))
			w := written{start: total, id: id}
			buf[total%n] = id
			total++
			for _, width := range desc.ArgWidths {
				v := rnd.Uint64() & (1<<(8*uint(width)) - 1)
				if width == 8 {
					v = rnd.Uint64()
				}
				for i := width - 1; i >= 0; i-- {
					buf[total%n] = byte(v >> (8 * uint(i)))
					total++
				}
				w.args = append(w.args, format.Arg{Value: v, Width: width})
			}
			msgs = append(msgs, w)
		}
		put := total % n
		oldest := total - n

		// the first message that was not overwritten is the true boundary
		first := 0
		for msgs[first].start < oldest {
			first++
		}
		trueOffset := msgs[first].start - oldest

		r, err := NewRing(buf, put)
		if err != nil {
			t.Fatalf("seed %d: NewRing() error: %s", seed, err)
		}
		res := d.Resync(r)

		if len(res.Counts) != window+1 {
			t.Fatalf("seed %d: %d counts, want %d", seed, len(res.Counts), window+1)
		}
		best := 0
		for offset := 0; offset <= window; offset++ {
			want := naiveInvalid(c, buf, put, (put+offset)%n)
			if res.Counts[offset] != want {
				t.Fatalf("seed %d: count at offset %d = %d, brute force %d", seed, offset, res.Counts[offset], want)
			}
			if want < res.Counts[best] {
				best = offset
			}
		}
		if trueOffset > window || res.Counts[trueOffset] != 0 {
			t.Fatalf("seed %d: true boundary offset %d has count %v", seed, trueOffset, res.Counts)
		}
		if res.Offset != best || res.Start != (put+best)%n || res.Invalid != 0 {
			t.Errorf("seed %d: resync = offset %d start %d invalid %d, brute force offset %d",
				seed, res.Offset, res.Start, res.Invalid, best)
		}

		// streaming from the true boundary gives back what was written
		var want []string
		for _, m := range msgs[first:] {
			desc, _ := c.Lookup(uint32(m.id))
			text, _ := desc.Render(m.args)
			want = append(want, text)
		}
		var got []string
		for _, rec := range d.stream(r, (put+trueOffset)%n) {
			got = append(got, rec.String())
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("seed %d: stream from true boundary =\n%q\nwant\n%q", seed, got, want)
		}
	}
}

func ExampleDecoder_Decode() {
	c := catalog.NewMessageCatalog()
	c.Insert(&catalog.MessageDescriptor{ID: 1, Format: "tick"})
	c.Insert(&catalog.MessageDescriptor{ID: 2, Format: "val=%d", ArgWidths: []int{4}})
	r, _ := NewRing([]byte{1, 2, 0, 0, 0, 7}, 1)
	for _, line := range NewDecoder(c).Decode(r).Messages() {
		fmt.Println(line)
	}
	// Output:
	// val=7
	// tick
}
