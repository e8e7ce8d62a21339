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

package catalog

import (
	"fmt"
	"sort"
	"sync"

	"jinr.ru/greenlab/go-lwl/pkg/format"
	"jinr.ru/greenlab/go-lwl/pkg/log"
)

// Provenance is where a message or field was defined.
type Provenance struct {
	File      string `json:"file,omitempty" toml:"file,omitempty"`
	Line      int    `json:"line,omitempty" toml:"line,omitempty"`
	Statement string `json:"statement,omitempty" toml:"statement,omitempty"`
}

func (p Provenance) String() string {
	if p.File == "" {
		return "<unknown>"
	}
	return fmt.Sprintf("%s:%d", p.File, p.Line)
}

// MessageDescriptor describes one LWL message: its id, how to display it
// and how many argument bytes follow the id byte on the wire.
type MessageDescriptor struct {
	ID         uint32     `json:"id" toml:"id"`
	Format     string     `json:"format" toml:"format"`
	ArgWidths  []int      `json:"argWidths,omitempty" toml:"argWidths,omitempty"`
	Provenance Provenance `json:"provenance" toml:"provenance"`

	template *format.Template
}

// NumArgBytes is the sum of the argument widths.
func (d *MessageDescriptor) NumArgBytes() int {
	n := 0
	for _, w := range d.ArgWidths {
		n += w
	}
	return n
}

// TotalLen is the message length on the wire including the id byte.
func (d *MessageDescriptor) TotalLen() int {
	return 1 + d.NumArgBytes()
}

// Template returns the parsed display format.
func (d *MessageDescriptor) Template() *format.Template {
	if d.template == nil {
		d.template = format.Parse(d.Format)
	}
	return d.template
}

// Render formats the argument values with the display format.
func (d *MessageDescriptor) Render(args []format.Arg) (string, bool) {
	return d.Template().Render(args)
}

func validArgWidth(w int) bool {
	return w == 1 || w == 2 || w == 4 || w == 8
}

// MessageCatalog maps message ids to descriptors. It is filled once before
// decoding and only read afterwards.
type MessageCatalog struct {
	mu        sync.RWMutex
	messages  map[uint32]*MessageDescriptor
	maxMsgLen int
	warnings  []error
}

func NewMessageCatalog() *MessageCatalog {
	return &MessageCatalog{
		messages: make(map[uint32]*MessageDescriptor),
	}
}

// Insert adds a descriptor. A duplicate id or an invalid argument width is
// rejected with an error. A format whose conversion count differs from the
// number of arguments is accepted and recorded as a warning.
func (c *MessageCatalog) Insert(d *MessageDescriptor) error {
	for _, w := range d.ArgWidths {
		if !validArgWidth(w) {
			return ErrInvalidArgWidth{ID: d.ID, Width: w, Provenance: d.Provenance}
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if prev, ok := c.messages[d.ID]; ok {
		return ErrDuplicateID{ID: d.ID, Existing: prev.Provenance, Rejected: d.Provenance}
	}

	d.template = format.Parse(d.Format)
	if slots := d.template.Slots(); slots != len(d.ArgWidths) {
		w := ErrFormatArgMismatch{
			ID:         d.ID,
			Format:     d.Format,
			Slots:      slots,
			Args:       len(d.ArgWidths),
			Provenance: d.Provenance,
		}
		log.Warning("%s", w)
		c.warnings = append(c.warnings, w)
	}

	c.messages[d.ID] = d
	if l := d.TotalLen(); l > c.maxMsgLen {
		c.maxMsgLen = l
		log.Debug("New max msg len %d for %s", l, d.Provenance)
	}
	log.Debug("Added LWL ID=%d arg widths=%v (%d bytes) for %s", d.ID, d.ArgWidths, d.NumArgBytes(), d.Provenance)
	return nil
}

// Lookup returns the descriptor for a wire id. A miss is a normal outcome.
func (c *MessageCatalog) Lookup(id uint32) (*MessageDescriptor, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	d, ok := c.messages[id]
	return d, ok
}

// MaxMessageLen is the longest message (id plus arguments) in the catalog.
func (c *MessageCatalog) MaxMessageLen() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.maxMsgLen
}

func (c *MessageCatalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.messages)
}

// Warnings returns the format/argument mismatches seen while inserting.
func (c *MessageCatalog) Warnings() []error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]error(nil), c.warnings...)
}

// Descriptors returns all descriptors ordered by id.
func (c *MessageCatalog) Descriptors() []*MessageDescriptor {
	c.mu.RLock()
	defer c.mu.RUnlock()
	result := make([]*MessageDescriptor, 0, len(c.messages))
	for _, d := range c.messages {
		result = append(result, d)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}
