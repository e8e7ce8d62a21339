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

package scan

import (
	"fmt"
)

// ErrSource is a problem found in a source file. Scanning goes on past it.
type ErrSource struct {
	File string
	Line int
	What string
}

func (e ErrSource) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.What)
}

// ErrUnknownExtension returned when an extension does not start with a dot
type ErrUnknownExtension struct {
	Extension string
}

func (e ErrUnknownExtension) Error() string {
	return fmt.Sprintf("Wrong extension %q. Must start with a dot, e.g. .c", e.Extension)
}
