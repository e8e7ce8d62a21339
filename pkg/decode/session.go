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
	"encoding/binary"
)

// Session is the per-blob decoding state. The byte order of a blob is not
// known up front: decoding starts with an assumed order and may switch to
// the other one once, the first time a section magic is not recognized.
// Every numeric read of the blob after that uses the switched order.
type Session struct {
	order   binary.ByteOrder
	flipped bool
}

func NewSession(initial binary.ByteOrder) *Session {
	if initial == nil {
		initial = binary.LittleEndian
	}
	return &Session{order: initial}
}

func (s *Session) Order() binary.ByteOrder {
	return s.order
}

// Flipped reports whether the byte order was switched.
func (s *Session) Flipped() bool {
	return s.flipped
}

// Flip switches the byte order. It returns false, and changes nothing, if
// the order was already switched for this blob.
func (s *Session) Flip() bool {
	if s.flipped {
		return false
	}
	s.order = Opposite(s.order)
	s.flipped = true
	return true
}

// Opposite returns the other byte order.
func Opposite(order binary.ByteOrder) binary.ByteOrder {
	if order == binary.ByteOrder(binary.BigEndian) {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

// OrderName is "little" or "big".
func OrderName(order binary.ByteOrder) string {
	if order == binary.ByteOrder(binary.BigEndian) {
		return "big"
	}
	return "little"
}

// ParseOrder converts "little"/"big" (or "le"/"be") to a byte order.
func ParseOrder(name string) (binary.ByteOrder, bool) {
	switch name {
	case "", "little", "le":
		return binary.LittleEndian, true
	case "big", "be":
		return binary.BigEndian, true
	}
	return nil, false
}
