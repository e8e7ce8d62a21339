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

package srv

import (
	"fmt"
)

// ErrApiDocument returned when the embedded API document does not validate
type ErrApiDocument struct {
	Err error
}

func (e ErrApiDocument) Error() string {
	return fmt.Sprintf("Invalid API document: %s", e.Err)
}

func (e ErrApiDocument) Unwrap() error {
	return e.Err
}

// ErrNoStore returned when reports are requested from a server without a store
type ErrNoStore struct{}

func (e ErrNoStore) Error() string {
	return "Reports are not stored by this server"
}
