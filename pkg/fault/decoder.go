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

package fault

import (
	"fmt"

	"jinr.ru/greenlab/go-lwl/pkg/catalog"
	"jinr.ru/greenlab/go-lwl/pkg/layers"
	"jinr.ru/greenlab/go-lwl/pkg/log"
)

// FieldValue is a decoded fault field
type FieldValue struct {
	Name  string
	Width int
	Value uint64
}

// String formats the field as "name: 0x0000002a (42)", name right-aligned
// to nameWidth.
func (f FieldValue) String(nameWidth int) string {
	digits := f.Width * 2
	if digits < 8 {
		digits = 8
	}
	return fmt.Sprintf("%*s: 0x%0*x (%d)", nameWidth, f.Name, digits, f.Value, f.Value)
}

// Result is a decoded fault section
type Result struct {
	NameWidth int
	Fields    []FieldValue
	// Err is set when a field did not fit in the section. Fields before it
	// are kept.
	Err error
}

type Decoder struct {
	layout *catalog.FaultRecordLayout
}

func NewDecoder(layout *catalog.FaultRecordLayout) *Decoder {
	return &Decoder{layout: layout}
}

// Decode reads every visible field of the layout at its fixed offset, in
// the byte order of the section.
func (d *Decoder) Decode(section *layers.FaultLayer) *Result {
	result := &Result{NameWidth: d.layout.NameWidth()}
	if section.Len() < d.layout.Size() {
		log.Warning("Fault section has %d bytes, layout needs %d", section.Len(), d.layout.Size())
	}
	for _, field := range d.layout.Visible() {
		value, err := section.Uint(field.Offset, field.Width)
		if err != nil {
			log.Error("Fault field %s: %s", field.Name, err)
			result.Err = fmt.Errorf("fault field %s: %w", field.Name, err)
			return result
		}
		log.Debug("Fault field %s offset=%d width=%d value=0x%x", field.Name, field.Offset, field.Width, value)
		result.Fields = append(result.Fields, FieldValue{Name: field.Name, Width: field.Width, Value: value})
	}
	return result
}
