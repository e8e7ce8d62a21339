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

// Package state keeps the scanned catalog and decoded reports in a bbolt
// database so decoding does not need the firmware sources at hand.
package state

import (
	"context"
	"encoding/binary"

	"github.com/goccy/go-json"
	"go.etcd.io/bbolt"
	"sigs.k8s.io/yaml"

	"jinr.ru/greenlab/go-lwl/pkg/catalog"
	"jinr.ru/greenlab/go-lwl/pkg/decode"
	"jinr.ru/greenlab/go-lwl/pkg/log"
)

const (
	MessagesBucket = "lwl_messages"
	FieldsBucket   = "fault_fields"
	ReportsBucket  = "reports"
)

var buckets = []string{MessagesBucket, FieldsBucket, ReportsBucket}

type State struct {
	context.Context
	DB   *bbolt.DB
	path string
}

// NewState opens (or creates) the database at path and makes sure all the
// buckets exist.
func NewState(ctx context.Context, path string) (*State, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, err
	}
	s := &State{
		Context: ctx,
		DB:      db,
		path:    path,
	}
	for _, name := range buckets {
		if err := s.CreateBucket(name); err != nil {
			db.Close()
			return nil, err
		}
	}
	return s, nil
}

// Close ...
func (s *State) Close() error {
	return s.DB.Close()
}

// CreateBucket ...
func (s *State) CreateBucket(name string) error {
	return s.DB.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(name))
		return err
	})
}

func uint32ToByte(v uint32) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, v)
	return b
}

// recreate empties a bucket inside tx
func recreate(tx *bbolt.Tx, name string) (*bbolt.Bucket, error) {
	if tx.Bucket([]byte(name)) != nil {
		if err := tx.DeleteBucket([]byte(name)); err != nil {
			return nil, err
		}
	}
	return tx.CreateBucket([]byte(name))
}

// SaveCatalog replaces the stored catalog with the given one.
func (s *State) SaveCatalog(cat *catalog.Catalog) error {
	log.Debug("Saving catalog: %d messages, %d fault fields", cat.Messages.Len(), len(cat.Layout.Fields()))
	return s.DB.Update(func(tx *bbolt.Tx) error {
		mb, err := recreate(tx, MessagesBucket)
		if err != nil {
			return err
		}
		for _, d := range cat.Messages.Descriptors() {
			dBytes, err := yaml.Marshal(d)
			if err != nil {
				return err
			}
			if err := mb.Put(uint32ToByte(d.ID), dBytes); err != nil {
				return err
			}
		}

		fb, err := recreate(tx, FieldsBucket)
		if err != nil {
			return err
		}
		for i, f := range cat.Layout.Specs() {
			fBytes, err := yaml.Marshal(f)
			if err != nil {
				return err
			}
			if err := fb.Put(uint32ToByte(uint32(i)), fBytes); err != nil {
				return err
			}
		}
		return nil
	})
}

// LoadCatalog rebuilds the catalog saved with SaveCatalog. Fields come back
// in the order they were saved, so offsets are the same.
func (s *State) LoadCatalog() (*catalog.Catalog, error) {
	log.Debug("Loading catalog from %s", s.path)
	var messages []*catalog.MessageDescriptor
	var fields []catalog.FieldSpec
	if err := s.DB.View(func(tx *bbolt.Tx) error {
		mb := tx.Bucket([]byte(MessagesBucket))
		if mb == nil {
			return ErrBucketNotFound{Bucket: MessagesBucket}
		}
		if err := mb.ForEach(func(_, v []byte) error {
			d := &catalog.MessageDescriptor{}
			if err := yaml.Unmarshal(v, d); err != nil {
				log.Error("Error while unmarshalling MessageDescriptor %s", err)
				return err
			}
			messages = append(messages, d)
			return nil
		}); err != nil {
			return err
		}

		fb := tx.Bucket([]byte(FieldsBucket))
		if fb == nil {
			return ErrBucketNotFound{Bucket: FieldsBucket}
		}
		return fb.ForEach(func(_, v []byte) error {
			var f catalog.FieldSpec
			if err := yaml.Unmarshal(v, &f); err != nil {
				log.Error("Error while unmarshalling FieldSpec %s", err)
				return err
			}
			fields = append(fields, f)
			return nil
		})
	}); err != nil {
		return nil, err
	}
	if len(messages) == 0 && len(fields) == 0 {
		return nil, ErrEmptyCatalog{Path: s.path}
	}

	cat, errs := catalog.Build(messages, fields)
	if len(errs) > 0 {
		return nil, errs[0]
	}
	return cat, nil
}

// PutReport stores a report under its id.
func (s *State) PutReport(v *decode.ReportView) error {
	log.Debug("Storing report %s", v.ID)
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.DB.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(ReportsBucket))
		if b == nil {
			return ErrBucketNotFound{Bucket: ReportsBucket}
		}
		return b.Put([]byte(v.ID), data)
	})
}

// GetReport ...
func (s *State) GetReport(id string) (*decode.ReportView, error) {
	log.Debug("Getting report %s", id)
	v := &decode.ReportView{}
	if err := s.DB.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(ReportsBucket))
		if b == nil {
			return ErrBucketNotFound{Bucket: ReportsBucket}
		}
		data := b.Get([]byte(id))
		if data == nil {
			return ErrReportNotFound{ID: id}
		}
		return json.Unmarshal(data, v)
	}); err != nil {
		return nil, err
	}
	return v, nil
}

// ReportIDs lists the stored reports.
func (s *State) ReportIDs() ([]string, error) {
	var ids []string
	if err := s.DB.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(ReportsBucket))
		if b == nil {
			return ErrBucketNotFound{Bucket: ReportsBucket}
		}
		return b.ForEach(func(k, _ []byte) error {
			ids = append(ids, string(k))
			return nil
		})
	}); err != nil {
		return nil, err
	}
	return ids, nil
}
