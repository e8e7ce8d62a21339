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

package decode

import (
	"fmt"
)

// ErrUnknownSectionMagic returned when the section type can not be
// determined with either byte order. Nothing after Offset can be located.
type ErrUnknownSectionMagic struct {
	Offset int
	Magic  uint32
}

func (e ErrUnknownSectionMagic) Error() string {
	return fmt.Sprintf("Can not determine section type at idx %d (magic 0x%08x)", e.Offset, e.Magic)
}

// ErrTruncatedSection returned when a section header or its declared length
// does not fit in the rest of the data.
type ErrTruncatedSection struct {
	Offset    int
	Length    uint32
	Remaining int
	// Header is set when not even the 8 header bytes are left
	Header bool
}

func (e ErrTruncatedSection) Error() string {
	if e.Header {
		return fmt.Sprintf("Insufficient bytes for a section header idx=%d remaining=%d", e.Offset, e.Remaining)
	}
	return fmt.Sprintf("Invalid section length idx=%d section_len=%d remaining=%d", e.Offset, e.Length, e.Remaining)
}

// ErrUnknownByteOrder returned for a byte order name other than little or big
type ErrUnknownByteOrder struct {
	Name string
}

func (e ErrUnknownByteOrder) Error() string {
	return fmt.Sprintf("Unknown byte order %q. Must be little or big.", e.Name)
}
