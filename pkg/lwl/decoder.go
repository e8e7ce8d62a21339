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

// Package lwl decodes the LWL circular trace buffer.
//
// The put index of the buffer is the next byte the device would have
// written, so it is the oldest byte and decoding starts there. Messages are
// variable length and get overwritten byte by byte, so the put index may
// point into the middle of a message. The decoder first looks for the most
// probable message boundary close to the put index (resync) and then
// streams messages from it, oldest first, until it comes back around to the
// put index.
package lwl

import (
	"fmt"
	"strings"

	"jinr.ru/greenlab/go-lwl/pkg/catalog"
	"jinr.ru/greenlab/go-lwl/pkg/format"
	"jinr.ru/greenlab/go-lwl/pkg/log"
)

type RecordKind int

const (
	RecordMessage RecordKind = iota
	// RecordSkipped holds bytes that were not a known message id
	RecordSkipped
	// RecordUnused holds a message cut short by the end of the data
	RecordUnused
)

func (k RecordKind) String() string {
	switch k {
	case RecordMessage:
		return "message"
	case RecordSkipped:
		return "skipped"
	case RecordUnused:
		return "unused"
	}
	return fmt.Sprintf("RecordKind(%d)", int(k))
}

// Record is one line of decoded LWL output.
type Record struct {
	Kind RecordKind
	// Index is the ring index of the first byte of the record
	Index    int
	ID       uint8
	Args     []format.Arg
	Text     string
	Mismatch bool
	Bytes    []byte
}

// HexBytes formats bytes the way the device console does: "0a ff 01".
func HexBytes(b []byte) string {
	parts := make([]string, len(b))
	for i, c := range b {
		parts[i] = fmt.Sprintf("%02x", c)
	}
	return strings.Join(parts, " ")
}

func (r Record) String() string {
	switch r.Kind {
	case RecordSkipped:
		return "Skipped data (hex): " + HexBytes(r.Bytes)
	case RecordUnused:
		return "Unused data (hex): " + HexBytes(r.Bytes)
	}
	if r.Mismatch {
		return r.Text + " [fmt/args mismatch]"
	}
	return r.Text
}

// Resync is the outcome of the boundary search.
type Resync struct {
	// Start is the ring index decoding starts at
	Start int
	// Offset is Start relative to the put index
	Offset int
	// Invalid is the number of unknown ids seen walking from Start
	Invalid int
	// Counts holds the number of unknown ids for every offset tried
	Counts []int
}

// Result is a decoded LWL buffer.
type Result struct {
	BufLen   int
	PutIndex int
	Resync
	Records []Record
}

// Messages returns the text of the formatted messages only.
func (r *Result) Messages() []string {
	var result []string
	for _, rec := range r.Records {
		if rec.Kind == RecordMessage {
			result = append(result, rec.Text)
		}
	}
	return result
}

// Decoder decodes LWL buffers with a message catalog. The catalog is only
// read, so one Decoder can be shared.
type Decoder struct {
	messages *catalog.MessageCatalog
}

func NewDecoder(messages *catalog.MessageCatalog) *Decoder {
	return &Decoder{messages: messages}
}

func (d *Decoder) lookup(id byte) (*catalog.MessageDescriptor, bool) {
	return d.messages.Lookup(uint32(id))
}

// CountInvalid walks the ring from start and counts the bytes that had to be
// read as message ids but are not in the catalog. The walk stops when the
// data is exhausted, including in the middle of a message's arguments.
func (d *Decoder) CountInvalid(r *Ring, start int) int {
	c := r.Cursor(start)
	invalid := 0
	for {
		id, st := c.Next()
		if st != ReadOK {
			return invalid
		}
		desc, ok := d.lookup(id)
		if !ok {
			invalid++
			continue
		}
		if n, _ := c.Skip(desc.NumArgBytes()); n < desc.NumArgBytes() {
			log.Debug("Insufficient data for arguments of ID %d", id)
			return invalid
		}
	}
}

// Resync tries every start from the put index up to the longest message
// length past it and picks the one with the fewest unknown ids. Ties go to
// the first one tried. This is a heuristic: it is likely, not guaranteed,
// to find the real boundary.
func (d *Decoder) Resync(r *Ring) Resync {
	window := d.messages.MaxMessageLen()
	log.Debug("Resync: put_idx=%d max_msg_len=%d", r.put, window)
	res := Resync{Start: r.put, Invalid: -1, Counts: make([]int, 0, window+1)}
	for offset := 0; offset <= window; offset++ {
		start := r.wrap(r.put + offset)
		invalid := d.CountInvalid(r, start)
		res.Counts = append(res.Counts, invalid)
		log.Debug("Resync: offset=%d start_idx=%d invalid_ids=%d", offset, start, invalid)
		if res.Invalid < 0 || invalid < res.Invalid {
			res.Start = start
			res.Offset = offset
			res.Invalid = invalid
		}
	}
	return res
}

// Decode resyncs and then streams all messages out of the ring.
func (d *Decoder) Decode(r *Ring) *Result {
	result := &Result{
		BufLen:   r.Len(),
		PutIndex: r.put,
		Resync:   d.Resync(r),
	}
	result.Records = d.stream(r, result.Start)
	return result
}

func (d *Decoder) stream(r *Ring, start int) []Record {
	var records []Record
	var skipped []byte
	skippedAt := 0
	flushSkipped := func() {
		if len(skipped) > 0 {
			records = append(records, Record{Kind: RecordSkipped, Index: skippedAt, Bytes: skipped})
			skipped = nil
		}
	}

	c := r.Cursor(start)
	for {
		idIdx := c.Index()
		id, st := c.Next()
		if st != ReadOK {
			break
		}
		desc, ok := d.lookup(id)
		if !ok {
			if len(skipped) == 0 {
				skippedAt = idIdx
			}
			skipped = append(skipped, id)
			continue
		}
		flushSkipped()

		consumed := []byte{id}
		args := make([]format.Arg, 0, len(desc.ArgWidths))
		for _, width := range desc.ArgWidths {
			var v uint64
			v, consumed, st = c.ReadBE(width, consumed)
			if st != ReadOK {
				break
			}
			args = append(args, format.Arg{Value: v, Width: width})
		}
		if st != ReadOK {
			// ran out of data in the middle of a message
			records = append(records, Record{Kind: RecordUnused, Index: idIdx, ID: id, Bytes: consumed})
			return records
		}

		text, ok := desc.Render(args)
		log.Debug("id=%d idx=%d args=%v", id, idIdx, args)
		records = append(records, Record{
			Kind:     RecordMessage,
			Index:    idIdx,
			ID:       id,
			Args:     args,
			Text:     text,
			Mismatch: !ok,
		})
	}
	flushSkipped()
	return records
}
