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
	"errors"
	"testing"
)

func TestInsertDuplicateKeepsFirst(t *testing.T) {
	c := NewMessageCatalog()
	first := &MessageDescriptor{ID: 5, Format: "first %d", ArgWidths: []int{1},
		Provenance: Provenance{File: "a.c", Line: 10}}
	second := &MessageDescriptor{ID: 5, Format: "second", Provenance: Provenance{File: "b.c", Line: 20}}

	if err := c.Insert(first); err != nil {
		t.Fatalf("Insert(first) error: %s", err)
	}
	err := c.Insert(second)
	var dup ErrDuplicateID
	if !errors.As(err, &dup) {
		t.Fatalf("Insert(second) error = %v, want ErrDuplicateID", err)
	}
	if dup.Existing.File != "a.c" || dup.Rejected.File != "b.c" {
		t.Errorf("ErrDuplicateID provenance = %s / %s", dup.Existing, dup.Rejected)
	}

	d, ok := c.Lookup(5)
	if !ok || d.Format != "first %d" {
		t.Errorf("Lookup(5) = %+v, %t; want first descriptor", d, ok)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
	if c.MaxMessageLen() != 2 {
		t.Errorf("MaxMessageLen() = %d, want 2", c.MaxMessageLen())
	}
}

func TestInsertArgWidth(t *testing.T) {
	c := NewMessageCatalog()
	for _, w := range []int{1, 2, 4, 8} {
		d := &MessageDescriptor{ID: uint32(w), Format: "%d", ArgWidths: []int{w}}
		if err := c.Insert(d); err != nil {
			t.Errorf("Insert(width %d) error: %s", w, err)
		}
	}
	for _, w := range []int{0, 3, 5, 16} {
		d := &MessageDescriptor{ID: uint32(100 + w), Format: "%d", ArgWidths: []int{w}}
		err := c.Insert(d)
		var invalid ErrInvalidArgWidth
		if !errors.As(err, &invalid) || invalid.Width != w {
			t.Errorf("Insert(width %d) error = %v, want ErrInvalidArgWidth", w, err)
		}
		if _, ok := c.Lookup(uint32(100 + w)); ok {
			t.Errorf("Lookup(%d) found rejected descriptor", 100+w)
		}
	}
	if c.MaxMessageLen() != 9 {
		t.Errorf("MaxMessageLen() = %d, want 9", c.MaxMessageLen())
	}
}

func TestInsertFormatMismatchIsWarning(t *testing.T) {
	c := NewMessageCatalog()
	d := &MessageDescriptor{ID: 1, Format: "a=%d b=%d", ArgWidths: []int{2}}
	if err := c.Insert(d); err != nil {
		t.Fatalf("Insert() error: %s", err)
	}
	warnings := c.Warnings()
	if len(warnings) != 1 {
		t.Fatalf("Warnings() = %v, want one warning", warnings)
	}
	var mismatch ErrFormatArgMismatch
	if !errors.As(warnings[0], &mismatch) || mismatch.Slots != 2 || mismatch.Args != 1 {
		t.Errorf("warning = %v, want ErrFormatArgMismatch 2 vs 1", warnings[0])
	}
	if _, ok := c.Lookup(1); !ok {
		t.Error("Lookup(1) missing, mismatched descriptor must still be inserted")
	}
}

func TestDescriptorsSorted(t *testing.T) {
	c := NewMessageCatalog()
	for _, id := range []uint32{9, 3, 7, 1} {
		c.Insert(&MessageDescriptor{ID: id, Format: "x"})
	}
	var ids []uint32
	for _, d := range c.Descriptors() {
		ids = append(ids, d.ID)
	}
	want := []uint32{1, 3, 7, 9}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("Descriptors() ids = %v, want %v", ids, want)
		}
	}
}

func TestLayout(t *testing.T) {
	l, err := NewFaultRecordLayout(
		FieldSpec{Name: "magic", Width: 4},
		FieldSpec{Name: "num_section_bytes", Width: 4},
		FieldSpec{Name: "code", Width: 4},
		FieldSpec{Name: "tick_ms", Width: 8},
		FieldSpec{Name: "pad1", Width: 2},
		FieldSpec{Name: "flags", Width: 1},
	)
	if err != nil {
		t.Fatalf("NewFaultRecordLayout() error: %s", err)
	}
	wantOffsets := map[string]int{
		"magic": 0, "num_section_bytes": 4, "code": 8, "tick_ms": 12, "pad1": 20, "flags": 22,
	}
	for _, f := range l.Fields() {
		if f.Offset != wantOffsets[f.Name] {
			t.Errorf("%s offset = %d, want %d", f.Name, f.Offset, wantOffsets[f.Name])
		}
	}
	var visible []string
	for _, f := range l.Visible() {
		visible = append(visible, f.Name)
	}
	if len(visible) != 3 || visible[0] != "code" || visible[1] != "tick_ms" || visible[2] != "flags" {
		t.Errorf("Visible() = %v, want [code tick_ms flags]", visible)
	}
	if l.NameWidth() != len("tick_ms") {
		t.Errorf("NameWidth() = %d, want %d", l.NameWidth(), len("tick_ms"))
	}
	if l.Size() != 23 {
		t.Errorf("Size() = %d, want 23", l.Size())
	}
}

func TestLayoutFieldWidth(t *testing.T) {
	for _, w := range []int{0, 9, -1} {
		_, err := NewFaultRecordLayout(FieldSpec{Name: "x", Width: w})
		var invalid ErrInvalidFieldWidth
		if !errors.As(err, &invalid) {
			t.Errorf("width %d: error = %v, want ErrInvalidFieldWidth", w, err)
		}
	}
}

func TestBuild(t *testing.T) {
	messages := []*MessageDescriptor{
		{ID: 1, Format: "tick"},
		{ID: 2, Format: "val=%d", ArgWidths: []int{1}},
		{ID: 2, Format: "dup"},
	}
	fields := []FieldSpec{{Name: "code", Width: 4}, {Name: "bad", Width: 12}}
	cat, errs := Build(messages, fields)
	if len(errs) != 2 {
		t.Fatalf("Build() errors = %v, want 2", errs)
	}
	if cat.Messages.Len() != 2 {
		t.Errorf("Messages.Len() = %d, want 2", cat.Messages.Len())
	}
	if len(cat.Layout.Fields()) != 1 {
		t.Errorf("Layout fields = %d, want 1", len(cat.Layout.Fields()))
	}
}
