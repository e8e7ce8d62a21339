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
	"strings"
)

const (
	ReservedPrefix = "pad"
	MaxFieldWidth  = 8
)

var reservedNames = map[string]bool{
	"magic":             true,
	"num_section_bytes": true,
}

// FieldSpec is a fault field as found in the sources: name and width only.
type FieldSpec struct {
	Name       string     `json:"name" toml:"name"`
	Width      int        `json:"width" toml:"width"`
	Provenance Provenance `json:"provenance,omitempty" toml:"provenance,omitempty"`
}

// FaultFieldDescriptor is a field of the fault record with its offset from
// the start of the fault section.
type FaultFieldDescriptor struct {
	Name   string
	Offset int
	Width  int
}

// Suppressed reports whether the field is kept out of the output.
func (f *FaultFieldDescriptor) Suppressed() bool {
	return reservedNames[f.Name] || strings.HasPrefix(f.Name, ReservedPrefix)
}

// FaultRecordLayout is the ordered list of fault record fields.
type FaultRecordLayout struct {
	fields []FaultFieldDescriptor
	size   int
}

// NewFaultRecordLayout computes field offsets as the running sum of widths.
func NewFaultRecordLayout(specs ...FieldSpec) (*FaultRecordLayout, error) {
	l := &FaultRecordLayout{}
	for _, s := range specs {
		if err := l.Append(s.Name, s.Width); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// Append adds a field right after the last one.
func (l *FaultRecordLayout) Append(name string, width int) error {
	if width < 1 || width > MaxFieldWidth {
		return ErrInvalidFieldWidth{Name: name, Width: width}
	}
	l.fields = append(l.fields, FaultFieldDescriptor{Name: name, Offset: l.size, Width: width})
	l.size += width
	return nil
}

// Fields returns all fields, suppressed ones included.
func (l *FaultRecordLayout) Fields() []FaultFieldDescriptor {
	return append([]FaultFieldDescriptor(nil), l.fields...)
}

// Visible returns the fields that are printed.
func (l *FaultRecordLayout) Visible() []FaultFieldDescriptor {
	var result []FaultFieldDescriptor
	for _, f := range l.fields {
		if !f.Suppressed() {
			result = append(result, f)
		}
	}
	return result
}

// NameWidth is the length of the longest visible field name.
func (l *FaultRecordLayout) NameWidth() int {
	width := 0
	for _, f := range l.Visible() {
		if len(f.Name) > width {
			width = len(f.Name)
		}
	}
	return width
}

// Size is the number of bytes covered by the layout.
func (l *FaultRecordLayout) Size() int {
	return l.size
}

// Specs returns the layout back as name/width pairs.
func (l *FaultRecordLayout) Specs() []FieldSpec {
	specs := make([]FieldSpec, 0, len(l.fields))
	for _, f := range l.fields {
		specs = append(specs, FieldSpec{Name: f.Name, Width: f.Width})
	}
	return specs
}
