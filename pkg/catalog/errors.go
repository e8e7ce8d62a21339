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

package catalog

import (
	"fmt"
)

// ErrDuplicateID returned when a message id is already in the catalog.
// The descriptor already present is kept.
type ErrDuplicateID struct {
	ID       uint32
	Existing Provenance
	Rejected Provenance
}

func (e ErrDuplicateID) Error() string {
	return fmt.Sprintf("%s: Duplicate LWL ID %d: %s, previously at %s: %s",
		e.Rejected, e.ID, e.Rejected.Statement, e.Existing, e.Existing.Statement)
}

// ErrInvalidArgWidth returned when a message argument is not 1, 2, 4 or 8 bytes wide
type ErrInvalidArgWidth struct {
	ID         uint32
	Width      int
	Provenance Provenance
}

func (e ErrInvalidArgWidth) Error() string {
	return fmt.Sprintf("%s: Invalid argument width %d for LWL ID %d", e.Provenance, e.Width, e.ID)
}

// ErrFormatArgMismatch is a warning: the format has a different number of
// conversions than the message has arguments. The message is still added.
type ErrFormatArgMismatch struct {
	ID         uint32
	Format     string
	Slots      int
	Args       int
	Provenance Provenance
}

func (e ErrFormatArgMismatch) Error() string {
	return fmt.Sprintf("%s: Inconsistent fmt and arg lengths for LWL ID %d: %q has %d conversions, %d args",
		e.Provenance, e.ID, e.Format, e.Slots, e.Args)
}

// ErrInvalidFieldWidth returned when a fault field is not 1 to 8 bytes wide
type ErrInvalidFieldWidth struct {
	Name  string
	Width int
}

func (e ErrInvalidFieldWidth) Error() string {
	return fmt.Sprintf("Invalid width %d for fault field %s", e.Width, e.Name)
}
