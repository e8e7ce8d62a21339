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

package lwl

import (
	"fmt"
)

// ErrInvalidRing returned when the put index is not inside the buffer
type ErrInvalidRing struct {
	BufLen   int
	PutIndex int
}

func (e ErrInvalidRing) Error() string {
	return fmt.Sprintf("Invalid LWL put_idx %d for buf_len %d", e.PutIndex, e.BufLen)
}
