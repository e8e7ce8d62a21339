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

// ErrNoSourceDirs returned when there is nothing to scan
type ErrNoSourceDirs struct{}

func (e ErrNoSourceDirs) Error() string {
	return "No source dirs. Use --dir or set sourceDirs in the config."
}

// ErrUnknownFormat returned for an export format other than yaml, json or toml
type ErrUnknownFormat struct {
	Format string
}

func (e ErrUnknownFormat) Error() string {
	return "Unknown export format " + e.Format + ". Must be one of: yaml, json, toml."
}
