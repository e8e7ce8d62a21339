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

	"jinr.ru/greenlab/go-lwl/pkg/fault"
	"jinr.ru/greenlab/go-lwl/pkg/layers"
	"jinr.ru/greenlab/go-lwl/pkg/lwl"
)

// SectionResult is one decoded section. Err is a section-local failure,
// framing went on past it.
type SectionResult struct {
	Offset int
	Type   layers.SectionType
	Length int
	Fault  *fault.Result
	Lwl    *lwl.Result
	Err    error
}

// Report is everything decoded from one blob, in blob order.
type Report struct {
	ByteOrder binary.ByteOrder
	Flipped   bool
	BlobLen   int
	Consumed  int
	Sections  []*SectionResult
	// Err is the error that stopped framing
	Err error
}

// ReportView is the serializable form of a Report. It is what the API
// returns and what the renderers print.
type ReportView struct {
	ID        string        `json:"id,omitempty"`
	ByteOrder string        `json:"byteOrder"`
	Flipped   bool          `json:"flipped"`
	BlobLen   int           `json:"blobLen"`
	Consumed  int           `json:"consumed"`
	Sections  []SectionView `json:"sections"`
	Error     string        `json:"error,omitempty"`
}

type SectionView struct {
	Offset    int         `json:"offset"`
	Type      string      `json:"type"`
	Length    int         `json:"length"`
	NameWidth int         `json:"nameWidth,omitempty"`
	Fields    []FieldView `json:"fields,omitempty"`
	Lwl       *LwlView    `json:"lwl,omitempty"`
	Error     string      `json:"error,omitempty"`
}

type FieldView struct {
	Name  string `json:"name"`
	Width int    `json:"width"`
	Value uint64 `json:"value"`
}

type LwlView struct {
	BufLen     int          `json:"bufLen"`
	PutIndex   int          `json:"putIndex"`
	StartIndex int          `json:"startIndex"`
	InvalidIDs int          `json:"invalidIds"`
	Records    []RecordView `json:"records"`
}

type RecordView struct {
	Kind     string `json:"kind"`
	Index    int    `json:"index"`
	ID       uint8  `json:"id,omitempty"`
	Text     string `json:"text,omitempty"`
	Mismatch bool   `json:"mismatch,omitempty"`
	Bytes    string `json:"bytes,omitempty"`
}

// Line is the text output line of the record.
func (r RecordView) Line() string {
	switch r.Kind {
	case lwl.RecordSkipped.String():
		return "Skipped data (hex): " + r.Bytes
	case lwl.RecordUnused.String():
		return "Unused data (hex): " + r.Bytes
	}
	if r.Mismatch {
		return r.Text + " [fmt/args mismatch]"
	}
	return r.Text
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func (r *Report) View() *ReportView {
	v := &ReportView{
		ByteOrder: OrderName(r.ByteOrder),
		Flipped:   r.Flipped,
		BlobLen:   r.BlobLen,
		Consumed:  r.Consumed,
		Sections:  make([]SectionView, 0, len(r.Sections)),
		Error:     errString(r.Err),
	}
	for _, s := range r.Sections {
		sv := SectionView{
			Offset: s.Offset,
			Type:   s.Type.String(),
			Length: s.Length,
			Error:  errString(s.Err),
		}
		if s.Fault != nil {
			sv.NameWidth = s.Fault.NameWidth
			for _, f := range s.Fault.Fields {
				sv.Fields = append(sv.Fields, FieldView{Name: f.Name, Width: f.Width, Value: f.Value})
			}
		}
		if s.Lwl != nil {
			lv := &LwlView{
				BufLen:     s.Lwl.BufLen,
				PutIndex:   s.Lwl.PutIndex,
				StartIndex: s.Lwl.Start,
				InvalidIDs: s.Lwl.Invalid,
				Records:    make([]RecordView, 0, len(s.Lwl.Records)),
			}
			for _, rec := range s.Lwl.Records {
				lv.Records = append(lv.Records, RecordView{
					Kind:     rec.Kind.String(),
					Index:    rec.Index,
					ID:       rec.ID,
					Text:     rec.Text,
					Mismatch: rec.Mismatch,
					Bytes:    lwl.HexBytes(rec.Bytes),
				})
			}
			sv.Lwl = lv
		}
		v.Sections = append(v.Sections, sv)
	}
	return v
}
