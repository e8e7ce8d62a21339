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

// Package capture reads fault data captured as text, either cut from the
// console at crash time or printed by the "fault data" command.
//
// The loader is picky on purpose: if the capture is corrupted it should be
// fixed by hand and loaded again rather than guessed at.
package capture

import (
	"bufio"
	"encoding/hex"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"jinr.ru/greenlab/go-lwl/pkg/log"
)

// <offset>: <raw-data>, both hexadecimal
var linePattern = regexp.MustCompile(`([0-9a-fA-F]+):\s*([0-9a-fA-F]+)`)

// Load reads "<offset>: <hex>" lines. Offsets must follow each other
// without gaps. Lines that do not match are ignored.
func Load(r io.Reader, name string) ([]byte, error) {
	var data []byte
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		m := linePattern.FindStringSubmatch(strings.TrimSpace(scanner.Text()))
		if m == nil {
			continue
		}
		offsetHex, dataHex := m[1], m[2]
		if len(offsetHex)%2 != 0 {
			return nil, ErrMalformedInput{File: name, Line: lineNum,
				What: "odd number of hex chars in offset field (" + strconv.Itoa(len(offsetHex)) + ")"}
		}
		if len(dataHex)%2 != 0 {
			return nil, ErrMalformedInput{File: name, Line: lineNum,
				What: "odd number of hex chars in data field (" + strconv.Itoa(len(dataHex)) + ")"}
		}
		offset, err := strconv.ParseUint(offsetHex, 16, 64)
		if err != nil {
			return nil, ErrMalformedInput{File: name, Line: lineNum, What: err.Error()}
		}
		if offset != uint64(len(data)) {
			return nil, ErrMalformedInput{File: name, Line: lineNum,
				What: "expected offset of 0x" + strconv.FormatInt(int64(len(data)), 16) + " but got 0x" + offsetHex}
		}
		chunk, err := hex.DecodeString(dataHex)
		if err != nil {
			return nil, ErrMalformedInput{File: name, Line: lineNum, What: err.Error()}
		}
		log.Debug("Got fault data at offset 0x%08x", offset)
		data = append(data, chunk...)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return data, nil
}

// LoadFile is Load on a file.
func LoadFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f, path)
}

var (
	sizePattern = regexp.MustCompile(`^size:(\d+)`)
	putPattern  = regexp.MustCompile(`^put:(\d+)`)
)

// Dump is the output of the "lwl dump" console command: the bare circular
// buffer with its size and put index.
type Dump struct {
	Size int
	Put  int
	Data []byte
}

// LoadDump reads an lwl dump:
//
//	size:<buffer-size>
//	put:<put-index>
//	<hex data lines>
func LoadDump(r io.Reader, name string) (*Dump, error) {
	var hexData strings.Builder
	size, put := -1, -1
	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if m := sizePattern.FindStringSubmatch(line); m != nil {
			size, _ = strconv.Atoi(m[1])
			continue
		}
		if m := putPattern.FindStringSubmatch(line); m != nil {
			put, _ = strconv.Atoi(m[1])
			continue
		}
		line = strings.Join(strings.Fields(line), "")
		if line == "" || !isHex(line) {
			continue
		}
		hexData.WriteString(line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if size < 0 || put < 0 {
		return nil, ErrMalformedInput{File: name, What: "missing size and/or put line"}
	}
	if put >= size {
		return nil, ErrMalformedInput{File: name,
			What: "invalid put " + strconv.Itoa(put) + " for size " + strconv.Itoa(size)}
	}
	if hexData.Len()%2 != 0 {
		return nil, ErrMalformedInput{File: name,
			What: "odd number of hex chars (" + strconv.Itoa(hexData.Len()) + ")"}
	}
	data, err := hex.DecodeString(hexData.String())
	if err != nil {
		return nil, ErrMalformedInput{File: name, What: err.Error()}
	}
	if len(data) != size {
		return nil, ErrMalformedInput{File: name,
			What: "size " + strconv.Itoa(size) + " does not match " + strconv.Itoa(len(data)) + " data bytes"}
	}
	return &Dump{Size: size, Put: put, Data: data}, nil
}

// LoadDumpFile is LoadDump on a file.
func LoadDumpFile(path string) (*Dump, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadDump(f, path)
}

func isHex(s string) bool {
	for _, c := range s {
		if !strings.ContainsRune("0123456789abcdefABCDEF", c) {
			return false
		}
	}
	return true
}
