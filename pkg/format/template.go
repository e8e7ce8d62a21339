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

// Package format renders LWL display formats. Formats are written for the
// device's C printf, arguments come off the wire as unsigned integers of a
// declared byte width.
package format

import (
	"fmt"
	"strings"
)

// Arg is a single argument value as read from the wire.
type Arg struct {
	Value uint64
	Width int // bytes, one of 1, 2, 4, 8
}

// Signed returns the value sign-extended from its declared width.
func (a Arg) Signed() int64 {
	switch a.Width {
	case 1:
		return int64(int8(a.Value))
	case 2:
		return int64(int16(a.Value))
	case 4:
		return int64(int32(a.Value))
	default:
		return int64(a.Value)
	}
}

type segment struct {
	literal string
	// directive is the Go verb prefix (flags, width, precision) and verb is the
	// C conversion character. verb == 0 for literal segments.
	directive string
	verb      byte
}

// Template is a parsed display format.
type Template struct {
	source   string
	segments []segment
	slots    int
}

const (
	cFlags   = "-+ #0"
	cLengths = "hljztLq"
)

// Parse splits a C style format into literals and conversion slots.
// Parse never fails: anything that does not look like a conversion is kept
// as literal text.
func Parse(source string) *Template {
	t := &Template{source: source}
	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			t.segments = append(t.segments, segment{literal: lit.String()})
			lit.Reset()
		}
	}
	i := 0
	for i < len(source) {
		c := source[i]
		if c != '%' {
			lit.WriteByte(c)
			i++
			continue
		}
		if i+1 < len(source) && source[i+1] == '%' {
			lit.WriteByte('%')
			i += 2
			continue
		}
		j := i + 1
		var directive strings.Builder
		for j < len(source) && strings.IndexByte(cFlags, source[j]) >= 0 {
			directive.WriteByte(source[j])
			j++
		}
		for j < len(source) && (isDigit(source[j]) || source[j] == '.') {
			directive.WriteByte(source[j])
			j++
		}
		for j < len(source) && strings.IndexByte(cLengths, source[j]) >= 0 {
			j++
		}
		if j >= len(source) {
			// dangling '%': literal
			lit.WriteString(source[i:])
			break
		}
		flush()
		t.segments = append(t.segments, segment{directive: directive.String(), verb: source[j]})
		t.slots++
		i = j + 1
	}
	flush()
	return t
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// Source returns the format the template was parsed from.
func (t *Template) Source() string {
	return t.source
}

// Slots returns the number of conversions in the format.
func (t *Template) Slots() int {
	return t.slots
}

// Render substitutes args positionally. When the number of args does not
// match the number of slots it still renders: missing slots are shown as
// %!v(MISSING) and surplus args are appended in hex. ok is false in that
// case.
func (t *Template) Render(args []Arg) (text string, ok bool) {
	var b strings.Builder
	next := 0
	for _, seg := range t.segments {
		if seg.verb == 0 {
			b.WriteString(seg.literal)
			continue
		}
		if next >= len(args) {
			fmt.Fprintf(&b, "%%!%c(MISSING)", seg.verb)
			continue
		}
		b.WriteString(formatArg(seg, args[next]))
		next++
	}
	if next < len(args) {
		b.WriteString(" [extra:")
		for _, a := range args[next:] {
			fmt.Fprintf(&b, " 0x%x", a.Value)
		}
		b.WriteString("]")
	}
	return b.String(), len(args) == t.slots
}

func formatArg(seg segment, a Arg) string {
	switch seg.verb {
	case 'd', 'i':
		return fmt.Sprintf("%"+seg.directive+"d", a.Signed())
	case 'u':
		return fmt.Sprintf("%"+seg.directive+"d", a.Value)
	case 'x', 'X', 'o':
		return fmt.Sprintf("%"+seg.directive+string(seg.verb), a.Value)
	case 'c':
		return fmt.Sprintf("%"+seg.directive+"c", rune(a.Value))
	case 'p':
		return fmt.Sprintf("0x%0*x", a.Width*2, a.Value)
	default:
		// strings, floats and anything else cannot be rebuilt from the wire value
		return fmt.Sprintf("0x%x", a.Value)
	}
}
