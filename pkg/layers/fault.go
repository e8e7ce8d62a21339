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

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
)

// FaultLayer is the fault record section. Field offsets of the record are
// counted from the beginning of the section, i.e. the section header itself
// holds the first two fields (magic and num_section_bytes).
type FaultLayer struct {
	layers.BaseLayer
	SectionHeader
	Order binary.ByteOrder
	raw   []byte
}

// LayerType returns the type of the Fault layer in the layer catalog
func (f *FaultLayer) LayerType() gopacket.LayerType {
	return FaultLayerType
}

func (f *FaultLayer) CanDecode() gopacket.LayerClass {
	return FaultLayerType
}

func (f *FaultLayer) NextLayerType() gopacket.LayerType {
	return gopacket.LayerTypeZero
}

// DecodeFromBytes decodes one whole fault section using f.Order
func (f *FaultLayer) DecodeFromBytes(data []byte, df gopacket.DecodeFeedback) error {
	h, err := decodeSection(data, orDefault(f.Order), SectionTypeFault, df)
	if err != nil {
		return err
	}
	f.SectionHeader = h
	f.BaseLayer = layers.BaseLayer{
		Contents: data[:SectionHeaderLen],
		Payload:  data[SectionHeaderLen:],
	}
	f.raw = data
	return nil
}

// Len is the number of bytes in the section including the header
func (f *FaultLayer) Len() int {
	return len(f.raw)
}

// Uint reads a field of width bytes at offset from the section start
func (f *FaultLayer) Uint(offset, width int) (uint64, error) {
	if offset < 0 || width < 1 || width > 8 || offset+width > len(f.raw) {
		return 0, ErrFieldOutOfRange{Offset: offset, Width: width, SectionLen: len(f.raw)}
	}
	return Uint(orDefault(f.Order), f.raw[offset:offset+width]), nil
}

// SerializeTo writes the header followed by f.Payload
func (f *FaultLayer) SerializeTo(b gopacket.SerializeBuffer, opts gopacket.SerializeOptions) error {
	f.Magic = FaultMagic
	return serializeSection(b, opts, f.Order, &f.SectionHeader, f.Payload)
}

// TrailerLayer marks the end of the fault data. Nothing past its header is
// interpreted.
type TrailerLayer struct {
	layers.BaseLayer
	SectionHeader
	Order binary.ByteOrder
}

func (t *TrailerLayer) LayerType() gopacket.LayerType {
	return TrailerLayerType
}

func (t *TrailerLayer) CanDecode() gopacket.LayerClass {
	return TrailerLayerType
}

func (t *TrailerLayer) NextLayerType() gopacket.LayerType {
	return gopacket.LayerTypeZero
}

func (t *TrailerLayer) DecodeFromBytes(data []byte, df gopacket.DecodeFeedback) error {
	h, err := decodeSection(data, orDefault(t.Order), SectionTypeTrailer, df)
	if err != nil {
		return err
	}
	t.SectionHeader = h
	t.BaseLayer = layers.BaseLayer{
		Contents: data[:SectionHeaderLen],
		Payload:  data[SectionHeaderLen:],
	}
	return nil
}

func (t *TrailerLayer) SerializeTo(b gopacket.SerializeBuffer, opts gopacket.SerializeOptions) error {
	t.Magic = TrailerMagic
	return serializeSection(b, opts, t.Order, &t.SectionHeader, t.Payload)
}
