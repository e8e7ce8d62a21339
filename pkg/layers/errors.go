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

package layers

import (
	"fmt"
)

// ErrShortSection returned when there are fewer bytes than the section needs
type ErrShortSection struct {
	Need int
	Have int
}

func (e ErrShortSection) Error() string {
	return fmt.Sprintf("Section too short: need %d bytes, have %d", e.Need, e.Have)
}

// ErrWrongMagic returned when a layer is asked to decode a section of another type
type ErrWrongMagic struct {
	Want uint32
	Got  uint32
}

func (e ErrWrongMagic) Error() string {
	return fmt.Sprintf("Wrong section magic 0x%08x, must be 0x%08x", e.Got, e.Want)
}

// ErrInvalidLogHeader returned when buf_len or put_idx of the LWL section are inconsistent
type ErrInvalidLogHeader struct {
	BufLen     uint32
	PutIndex   uint32
	PayloadLen int
	What       string
}

func (e ErrInvalidLogHeader) Error() string {
	return fmt.Sprintf("Invalid LWL header: %s (buf_len=%d put_idx=%d payload=%d bytes)",
		e.What, e.BufLen, e.PutIndex, e.PayloadLen)
}

// ErrFieldOutOfRange returned when a fault field does not fit in the section
type ErrFieldOutOfRange struct {
	Offset     int
	Width      int
	SectionLen int
}

func (e ErrFieldOutOfRange) Error() string {
	return fmt.Sprintf("Field at offset %d (%d bytes) is beyond the section end (%d bytes)",
		e.Offset, e.Width, e.SectionLen)
}
