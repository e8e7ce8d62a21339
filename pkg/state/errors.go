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

package state

import (
	"fmt"
)

// ErrBucketNotFound returned when the database was not initialized
type ErrBucketNotFound struct {
	Bucket string
}

func (e ErrBucketNotFound) Error() string {
	return fmt.Sprintf("Bucket not found: %s", e.Bucket)
}

// ErrReportNotFound returned when there is no report with the given id
type ErrReportNotFound struct {
	ID string
}

func (e ErrReportNotFound) Error() string {
	return fmt.Sprintf("Report not found: %s", e.ID)
}

// ErrEmptyCatalog returned when loading from a store no catalog was saved to
type ErrEmptyCatalog struct {
	Path string
}

func (e ErrEmptyCatalog) Error() string {
	return fmt.Sprintf("No catalog in %s. Run 'catalog scan' first.", e.Path)
}
