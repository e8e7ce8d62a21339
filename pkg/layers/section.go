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
	"encoding/binary"
	"fmt"

	"github.com/google/gopacket"
)

const (
	// FaultLayerNum identifies the fault section layer
	FaultLayerNum = 2001
	// LwlLayerNum identifies the LWL section layer
	LwlLayerNum = 2002
	// TrailerLayerNum identifies the trailer section layer
	TrailerLayerNum = 2003
)

const (
	// SectionHeaderLen is magic (4 bytes) plus number of section bytes (4 bytes)
	SectionHeaderLen = 8

	// Section magics, see module.h on the device side
	FaultMagic   uint32 = 0xdead0001
	LwlMagic     uint32 = 0xf00d0001
	TrailerMagic uint32 = 0xc0da0001
)

type SectionType uint8

const (
	SectionTypeFault SectionType = iota
	SectionTypeLwl
	SectionTypeTrailer
	numSectionTypes
)

type sectionMetadata struct {
	Magic     uint32
	Name      string
	LayerType gopacket.LayerType
}

var (
	FaultLayerType = gopacket.RegisterLayerType(FaultLayerNum,
		gopacket.LayerTypeMetadata{Name: "FaultLayerType"})
	LwlLayerType = gopacket.RegisterLayerType(LwlLayerNum,
		gopacket.LayerTypeMetadata{Name: "LwlLayerType"})
	TrailerLayerType = gopacket.RegisterLayerType(TrailerLayerNum,
		gopacket.LayerTypeMetadata{Name: "TrailerLayerType"})
)

var SectionMetadata = [numSectionTypes]sectionMetadata{
	SectionTypeFault:   {Magic: FaultMagic, Name: "Fault", LayerType: FaultLayerType},
	SectionTypeLwl:     {Magic: LwlMagic, Name: "LWL", LayerType: LwlLayerType},
	SectionTypeTrailer: {Magic: TrailerMagic, Name: "Trailer", LayerType: TrailerLayerType},
}

// SectionTypeForMagic maps a magic to its section type
func SectionTypeForMagic(magic uint32) (SectionType, bool) {
	for t, m := range SectionMetadata {
		if m.Magic == magic {
			return SectionType(t), true
		}
	}
	return 0, false
}

func (t SectionType) Magic() uint32 {
	return SectionMetadata[t].Magic
}

func (t SectionType) LayerType() gopacket.LayerType {
	return SectionMetadata[t].LayerType
}

func (t SectionType) String() string {
	if t >= numSectionTypes {
		return fmt.Sprintf("Unknown(%d)", uint8(t))
	}
	return SectionMetadata[t].Name
}

// SectionHeader ... 8 bytes
type SectionHeader struct {
	Magic  uint32
	Length uint32 // number of section bytes including this header
}

// Serialize SectionHeader
func (h *SectionHeader) Serialize(buf []byte, order binary.ByteOrder) {
	order.PutUint32(buf[0:4], h.Magic)
	order.PutUint32(buf[4:8], h.Length)
}

// DecodeSectionHeader reads magic and length at the beginning of data
func DecodeSectionHeader(data []byte, order binary.ByteOrder) (SectionHeader, error) {
	if len(data) < SectionHeaderLen {
		return SectionHeader{}, ErrShortSection{Need: SectionHeaderLen, Have: len(data)}
	}
	return SectionHeader{
		Magic:  order.Uint32(data[0:4]),
		Length: order.Uint32(data[4:8]),
	}, nil
}

// decodeSection checks the header and splits data into header and payload.
// data must hold exactly one section.
func decodeSection(data []byte, order binary.ByteOrder, want SectionType, df gopacket.DecodeFeedback) (SectionHeader, error) {
	h, err := DecodeSectionHeader(data, order)
	if err != nil {
		df.SetTruncated()
		return h, err
	}
	if h.Magic != want.Magic() {
		return h, ErrWrongMagic{Want: want.Magic(), Got: h.Magic}
	}
	if int64(h.Length) != int64(len(data)) {
		df.SetTruncated()
		return h, ErrShortSection{Need: int(h.Length), Have: len(data)}
	}
	return h, nil
}

func orDefault(order binary.ByteOrder) binary.ByteOrder {
	if order == nil {
		return binary.LittleEndian
	}
	return order
}

// Uint reads an unsigned value of len(b) bytes, len(b) <= 8.
func Uint(order binary.ByteOrder, b []byte) uint64 {
	var v uint64
	if orDefault(order) == binary.ByteOrder(binary.BigEndian) {
		for _, c := range b {
			v = v<<8 | uint64(c)
		}
		return v
	}
	for i, c := range b {
		v |= uint64(c) << (8 * i)
	}
	return v
}

// PutUint writes v into len(b) bytes, len(b) <= 8.
func PutUint(order binary.ByteOrder, b []byte, v uint64) {
	n := len(b)
	if orDefault(order) == binary.ByteOrder(binary.BigEndian) {
		for i := 0; i < n; i++ {
			b[n-1-i] = byte(v >> (8 * i))
		}
		return
	}
	for i := 0; i < n; i++ {
		b[i] = byte(v >> (8 * i))
	}
}

// SerializeSections serializes every section into its own buffer and
// concatenates them into one blob.
func SerializeSections(opts gopacket.SerializeOptions, sections ...gopacket.SerializableLayer) ([]byte, error) {
	var blob []byte
	for _, s := range sections {
		buf := gopacket.NewSerializeBuffer()
		if err := s.SerializeTo(buf, opts); err != nil {
			return nil, err
		}
		blob = append(blob, buf.Bytes()...)
	}
	return blob, nil
}

func serializeSection(b gopacket.SerializeBuffer, opts gopacket.SerializeOptions, order binary.ByteOrder, h *SectionHeader, payload []byte) error {
	if opts.FixLengths {
		h.Length = uint32(SectionHeaderLen + len(payload))
	}
	bytes, err := b.AppendBytes(SectionHeaderLen + len(payload))
	if err != nil {
		return err
	}
	h.Serialize(bytes, orDefault(order))
	copy(bytes[SectionHeaderLen:], payload)
	return nil
}
