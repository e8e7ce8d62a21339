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
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

const lwlSource = `#include "lwl.h"

#define LWL_BASE_ID 1
#define LWL_NUM 4

void test(void)
{
    LWL("test 1", 0);
    LWL("test 2 %d", 1, LWL_1(10));
    LWL("test 3 %d %d", 3,
        LWL_1(10),
        LWL_2(1000));
}
`

const faultSource = `struct fault_data
{
    uint32_t magic;              //@fault_data,magic,4
    uint32_t num_section_bytes;  //@fault_data,num_section_bytes,4
    uint32_t fault_type;         //@fault_data,fault_type,4
    uint64_t tick_ms;            //@fault_data,tick_ms,8
};
`

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestScan(t *testing.T) {
	result := &Result{}
	if err := Scan(strings.NewReader(lwlSource), "lwl.c", result); err != nil {
		t.Fatalf("Scan() error: %s", err)
	}
	if len(result.Errors) != 0 {
		t.Fatalf("Errors = %v", result.Errors)
	}
	if len(result.Messages) != 3 {
		t.Fatalf("Messages = %+v, want 3", result.Messages)
	}
	tests := []struct {
		id     uint32
		format string
		widths []int
		line   int
	}{
		{1, "test 1", nil, 8},
		{2, "test 2 %d", []int{1}, 9},
		{3, "test 3 %d %d", []int{1, 2}, 10},
	}
	for i, tt := range tests {
		m := result.Messages[i]
		if m.ID != tt.id || m.Format != tt.format || !reflect.DeepEqual(m.ArgWidths, tt.widths) {
			t.Errorf("message %d = %+v, want id %d %q %v", i, m, tt.id, tt.format, tt.widths)
		}
		if m.Provenance.File != "lwl.c" || m.Provenance.Line != tt.line {
			t.Errorf("message %d provenance = %s, want lwl.c:%d", i, m.Provenance, tt.line)
		}
	}
	if stmt := result.Messages[2].Provenance.Statement; stmt != `LWL("test 3 %d %d", 3,LWL_1(10),LWL_2(1000));` {
		t.Errorf("multi-line statement = %q", stmt)
	}
}

func TestScanFaultFields(t *testing.T) {
	result := &Result{}
	if err := Scan(strings.NewReader(faultSource), "fault.c", result); err != nil {
		t.Fatalf("Scan() error: %s", err)
	}
	var names []string
	var widths []int
	for _, f := range result.Fields {
		names = append(names, f.Name)
		widths = append(widths, f.Width)
	}
	if !reflect.DeepEqual(names, []string{"magic", "num_section_bytes", "fault_type", "tick_ms"}) {
		t.Errorf("field names = %v", names)
	}
	if !reflect.DeepEqual(widths, []int{4, 4, 4, 8}) {
		t.Errorf("field widths = %v", widths)
	}
}

func TestScanErrors(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		messages int
		what     string
	}{
		{"no base id", `LWL("x", 0);`, 0, "No #define LWL_BASE_ID"},
		{"zero base id", "#define LWL_BASE_ID 0\n", 0, "Invalid LWL base ID"},
		{"bad ending", "#define LWL_BASE_ID 5\nLWL(\"x\", 0)\n", 0, "Invalid LWL line ending"},
		{"bad continuation", "#define LWL_BASE_ID 5\nLWL(\"x %d\", 1,\n  LWL_1(a)\n", 0, "Invalid LWL continuation line"},
		{"no fmt", "#define LWL_BASE_ID 5\nLWL(fmt, 0);\n", 0, "Cannot parse LWL fmt"},
		{"no num args", "#define LWL_BASE_ID 5\nLWL(\"x\", n);\n", 0, "Cannot parse LWL num arg bytes"},
		{"inconsistent", "#define LWL_BASE_ID 5\nLWL(\"x %d\", 2, LWL_1(a));\n", 1, "Inconsistent num arg bytes (1 vs 2)"},
		{"beyond num", "#define LWL_BASE_ID 5\n#define LWL_NUM 1\nLWL(\"a\", 0);\nLWL(\"b\", 0);\n", 2, "exceeds LWL_NUM"},
		{"id too big", "#define LWL_BASE_ID 255\nLWL(\"a\", 0);\nLWL(\"b\", 0);\n", 1, "does not fit"},
		{"unterminated", "#define LWL_BASE_ID 5\nLWL(\"x %d\", 1,\n", 0, "Unterminated"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := &Result{}
			if err := Scan(strings.NewReader(tt.source), "x.c", result); err != nil {
				t.Fatalf("Scan() error: %s", err)
			}
			if len(result.Messages) != tt.messages {
				t.Errorf("%d messages, want %d", len(result.Messages), tt.messages)
			}
			if len(result.Errors) != 1 {
				t.Fatalf("Errors = %v, want one error", result.Errors)
			}
			var src ErrSource
			if !errors.As(result.Errors[0], &src) || !strings.Contains(src.What, tt.what) {
				t.Errorf("error = %v, want %q", result.Errors[0], tt.what)
			}
		})
	}
}

func TestScanDirs(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"a/lwl.c":     lwlSource,
		"b/fault.c":   faultSource,
		"b/other.c":   "#define LWL_BASE_ID 10\nLWL(\"other %u\", 4, LWL_4(x));\n//@fault_data,pad0,4\n",
		"b/notes.txt": "LWL(\"ignored\", 0);\n",
		"b/lwl.h":     "#define LWL_BASE_ID 20\nLWL(\"header\", 0);\n",
	})
	result, err := (&Scanner{}).ScanDirs(dir)
	if err != nil {
		t.Fatalf("ScanDirs() error: %s", err)
	}
	if len(result.Errors) != 0 {
		t.Fatalf("Errors = %v", result.Errors)
	}
	var ids []uint32
	for _, m := range result.Messages {
		ids = append(ids, m.ID)
	}
	if !reflect.DeepEqual(ids, []uint32{1, 2, 3, 10}) {
		t.Errorf("ids = %v, want [1 2 3 10]", ids)
	}

	cat := result.Catalog()
	if len(result.Errors) != 0 {
		t.Fatalf("Catalog() errors = %v", result.Errors)
	}
	var offsets []int
	for _, f := range cat.Layout.Fields() {
		offsets = append(offsets, f.Offset)
	}
	// fields of b/fault.c come before b/other.c
	if !reflect.DeepEqual(offsets, []int{0, 4, 8, 12, 20}) {
		t.Errorf("offsets = %v", offsets)
	}
	if cat.Messages.MaxMessageLen() != 5 {
		t.Errorf("MaxMessageLen() = %d, want 5", cat.Messages.MaxMessageLen())
	}

	scanner, err := New(".c", ".h")
	if err != nil {
		t.Fatalf("New() error: %s", err)
	}
	result, err = scanner.ScanDirs(dir)
	if err != nil {
		t.Fatalf("ScanDirs() error: %s", err)
	}
	if len(result.Messages) != 5 {
		t.Errorf("%d messages with .h files, want 5", len(result.Messages))
	}
}

func TestScanDuplicateIDs(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"a.c": "#define LWL_BASE_ID 1\nLWL(\"a\", 0);\n",
		"b.c": "#define LWL_BASE_ID 1\nLWL(\"b\", 0);\n",
	})
	result, err := (&Scanner{}).ScanDirs(dir)
	if err != nil {
		t.Fatalf("ScanDirs() error: %s", err)
	}
	cat := result.Catalog()
	if len(result.Errors) != 1 {
		t.Errorf("Errors = %v, want the duplicate id", result.Errors)
	}
	if d, _ := cat.Messages.Lookup(1); d.Format != "a" {
		t.Errorf("Lookup(1) = %q, want the first definition", d.Format)
	}
}

func TestNewBadExtension(t *testing.T) {
	var bad ErrUnknownExtension
	if _, err := New("c"); !errors.As(err, &bad) {
		t.Errorf("New(c) error = %v, want ErrUnknownExtension", err)
	}
}

func TestScanMissingDir(t *testing.T) {
	if _, err := (&Scanner{}).ScanDirs(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("ScanDirs(missing) did not fail")
	}
}
