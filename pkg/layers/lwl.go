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
	"encoding/hex"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"

	"jinr.ru/greenlab/go-lwl/pkg/log"
)

// LwlHeaderLen is buf_len (4 bytes) plus put_idx (4 bytes)
const LwlHeaderLen = 8

// The section layout is as follows:
//
// Offset size name
// ------ ---- ----
//    0     4  magic
//    4     4  num_section_bytes
//    8     4  buf_len
//   12     4  put_idx
//   16     N  buf

// LwlHeader ... 8 bytes, in the byte order of the section header
type LwlHeader struct {
	BufLen   uint32
	PutIndex uint32 // next byte to be written, i.e. the oldest byte
}

// Serialize LwlHeader
func (h *LwlHeader) Serialize(buf []byte, order binary.ByteOrder) {
	order.PutUint32(buf[0:4], h.BufLen)
	order.PutUint32(buf[4:8], h.PutIndex)
}

// LwlLayer is the LWL circular buffer section.
type LwlLayer struct {
	layers.BaseLayer
	SectionHeader
	LwlHeader
	Buf   []byte
	Order binary.ByteOrder
}

func (l *LwlLayer) LayerType() gopacket.LayerType {
	return LwlLayerType
}

func (l *LwlLayer) CanDecode() gopacket.LayerClass {
	return LwlLayerType
}

func (l *LwlLayer) NextLayerType() gopacket.LayerType {
	return gopacket.LayerTypeZero
}

// DecodeFromBytes decodes one whole LWL section using l.Order. The buffer
// header is validated: buf_len must account for the rest of the section
// and put_idx must be inside the buffer.
func (l *LwlLayer) DecodeFromBytes(data []byte, df gopacket.DecodeFeedback) error {
	order := orDefault(l.Order)
	h, err := decodeSection(data, order, SectionTypeLwl, df)
	if err != nil {
		return err
	}
	l.SectionHeader = h
	payload := data[SectionHeaderLen:]
	l.BaseLayer = layers.BaseLayer{
		Contents: data[:SectionHeaderLen],
		Payload:  payload,
	}
	if len(payload) < LwlHeaderLen {
		df.SetTruncated()
		return ErrInvalidLogHeader{PayloadLen: len(payload), What: "payload shorter than buffer header"}
	}
	l.BufLen = order.Uint32(payload[0:4])
	l.PutIndex = order.Uint32(payload[4:8])
	log.Debug("LwlLayer: buf_len=%d put_idx=%d", l.BufLen, l.PutIndex)

	if int64(l.BufLen)+LwlHeaderLen != int64(len(payload)) {
		return ErrInvalidLogHeader{
			BufLen: l.BufLen, PutIndex: l.PutIndex, PayloadLen: len(payload),
			What: "invalid buf_len",
		}
	}
	if l.PutIndex >= l.BufLen {
		return ErrInvalidLogHeader{
			BufLen: l.BufLen, PutIndex: l.PutIndex, PayloadLen: len(payload),
			What: "invalid put_idx",
		}
	}
	l.Buf = payload[LwlHeaderLen:]
	log.Debug("LwlLayer: buf:\n%s", hex.Dump(l.Buf))
	return nil
}

// SerializeTo writes the section. With FixLengths BufLen is taken from Buf.
func (l *LwlLayer) SerializeTo(b gopacket.SerializeBuffer, opts gopacket.SerializeOptions) error {
	if opts.FixLengths {
		l.BufLen = uint32(len(l.Buf))
	}
	payload := make([]byte, LwlHeaderLen+len(l.Buf))
	l.LwlHeader.Serialize(payload, orDefault(l.Order))
	copy(payload[LwlHeaderLen:], l.Buf)
	l.Magic = LwlMagic
	return serializeSection(b, opts, l.Order, &l.SectionHeader, payload)
}
