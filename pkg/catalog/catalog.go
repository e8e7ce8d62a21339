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

// Package catalog holds the lookup tables used while decoding: the LWL
// message catalog and the fault record layout. Both are built once from
// scanned sources (or the store) and are read-only during decoding.
package catalog

import (
	"jinr.ru/greenlab/go-lwl/pkg/log"
)

// Catalog bundles the message catalog and the fault record layout.
type Catalog struct {
	Messages *MessageCatalog
	Layout   *FaultRecordLayout
}

func New() *Catalog {
	return &Catalog{
		Messages: NewMessageCatalog(),
		Layout:   &FaultRecordLayout{},
	}
}

// Build inserts messages and appends fault fields in the given order.
// Rejected entries do not stop the build, they are returned as errors.
func Build(messages []*MessageDescriptor, fields []FieldSpec) (*Catalog, []error) {
	c := New()
	var errs []error
	for _, m := range messages {
		if err := c.Messages.Insert(m); err != nil {
			log.Error("%s", err)
			errs = append(errs, err)
		}
	}
	for _, f := range fields {
		if err := c.Layout.Append(f.Name, f.Width); err != nil {
			log.Error("%s: %s", f.Provenance, err)
			errs = append(errs, err)
		}
	}
	return c, errs
}
