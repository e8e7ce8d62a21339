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

// Package decode splits fault data into sections and decodes each of them.
//
// The fault data consists of one or more sections, which have this format:
//   - magic number (4 bytes)
//   - number of section bytes, starting with the magic number (4 bytes)
//   - section data bytes
//
// The length of a section is the only way to find the next one, so a bad
// magic or length ends decoding of the whole blob. Sections decoded before
// that are kept in the report.
package decode

import (
	"encoding/binary"

	"github.com/google/gopacket"

	"jinr.ru/greenlab/go-lwl/pkg/catalog"
	"jinr.ru/greenlab/go-lwl/pkg/fault"
	"jinr.ru/greenlab/go-lwl/pkg/layers"
	"jinr.ru/greenlab/go-lwl/pkg/log"
	"jinr.ru/greenlab/go-lwl/pkg/lwl"
)

// Decoder decodes blobs with a fixed catalog. It keeps no per-blob state,
// so independent blobs can be decoded concurrently.
type Decoder struct {
	catalog *catalog.Catalog
	lwl     *lwl.Decoder
	fault   *fault.Decoder
	order   binary.ByteOrder
}

type Option func(*Decoder)

// WithByteOrder sets the byte order assumed before detection, little-endian
// by default.
func WithByteOrder(order binary.ByteOrder) Option {
	return func(d *Decoder) {
		d.order = order
	}
}

func NewDecoder(cat *catalog.Catalog, opts ...Option) *Decoder {
	d := &Decoder{
		catalog: cat,
		lwl:     lwl.NewDecoder(cat.Messages),
		fault:   fault.NewDecoder(cat.Layout),
		order:   binary.LittleEndian,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Decode walks the blob section by section. The returned report is never
// nil; the error is the fatal framing error, if any, and is also kept in
// the report.
func (d *Decoder) Decode(blob []byte) (*Report, error) {
	s := NewSession(d.order)
	report := &Report{BlobLen: len(blob)}
	defer func() {
		report.ByteOrder = s.Order()
		report.Flipped = s.Flipped()
	}()

	offset := 0
	for offset < len(blob) {
		section, err := d.frame(s, blob, offset)
		if err != nil {
			log.Error("%s", err)
			report.Err = err
			return report, err
		}
		d.decodeSection(s, section, blob[offset:offset+section.Length])
		report.Sections = append(report.Sections, section)
		offset += section.Length
		report.Consumed = offset
	}
	return report, nil
}

// frame reads and validates the header of the section at offset,
// switching the session byte order if needed.
func (d *Decoder) frame(s *Session, blob []byte, offset int) (*SectionResult, error) {
	remaining := len(blob) - offset
	if remaining < layers.SectionHeaderLen {
		return nil, ErrTruncatedSection{Offset: offset, Remaining: remaining, Header: true}
	}

	h, _ := layers.DecodeSectionHeader(blob[offset:], s.Order())
	sectionType, ok := layers.SectionTypeForMagic(h.Magic)
	if !ok {
		if !s.Flip() {
			return nil, ErrUnknownSectionMagic{Offset: offset, Magic: h.Magic}
		}
		log.Info("Unknown magic 0x%08x at idx %d, switching to %s-endian", h.Magic, offset, OrderName(s.Order()))
		h, _ = layers.DecodeSectionHeader(blob[offset:], s.Order())
		sectionType, ok = layers.SectionTypeForMagic(h.Magic)
		if !ok {
			return nil, ErrUnknownSectionMagic{Offset: offset, Magic: h.Magic}
		}
	}
	log.Debug("Got section magic=0x%08x type=%s len=%d", h.Magic, sectionType, h.Length)

	if h.Length < layers.SectionHeaderLen || int64(h.Length) > int64(remaining) {
		return nil, ErrTruncatedSection{Offset: offset, Length: h.Length, Remaining: remaining}
	}
	return &SectionResult{Offset: offset, Type: sectionType, Length: int(h.Length)}, nil
}

func (d *Decoder) decodeSection(s *Session, section *SectionResult, data []byte) {
	switch section.Type {
	case layers.SectionTypeFault:
		l := &layers.FaultLayer{Order: s.Order()}
		if err := l.DecodeFromBytes(data, gopacket.NilDecodeFeedback); err != nil {
			section.Err = err
			return
		}
		section.Fault = d.fault.Decode(l)
		section.Err = section.Fault.Err
	case layers.SectionTypeLwl:
		l := &layers.LwlLayer{Order: s.Order()}
		if err := l.DecodeFromBytes(data, gopacket.NilDecodeFeedback); err != nil {
			log.Error("Section at idx %d: %s", section.Offset, err)
			section.Err = err
			return
		}
		section.Lwl = d.decodeBuffer(l.Buf, int(l.PutIndex))
		if section.Lwl == nil {
			section.Err = layers.ErrInvalidLogHeader{BufLen: l.BufLen, PutIndex: l.PutIndex, What: "invalid put_idx"}
		}
	case layers.SectionTypeTrailer:
		log.Debug("End of fault data at idx %d", section.Offset)
	}
}

func (d *Decoder) decodeBuffer(buf []byte, put int) *lwl.Result {
	ring, err := lwl.NewRing(buf, put)
	if err != nil {
		log.Error("%s", err)
		return nil
	}
	return d.lwl.Decode(ring)
}

// DecodeBuffer decodes a bare LWL buffer, as printed by the "lwl dump"
// console command, into a report with a single LWL section.
func (d *Decoder) DecodeBuffer(buf []byte, put int) (*Report, error) {
	ring, err := lwl.NewRing(buf, put)
	if err != nil {
		return nil, err
	}
	return &Report{
		ByteOrder: d.order,
		BlobLen:   len(buf),
		Consumed:  len(buf),
		Sections: []*SectionResult{{
			Type:   layers.SectionTypeLwl,
			Length: len(buf),
			Lwl:    d.lwl.Decode(ring),
		}},
	}, nil
}
