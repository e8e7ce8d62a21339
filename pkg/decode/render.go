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

package decode

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/goccy/go-json"
	"sigs.k8s.io/yaml"

	"jinr.ru/greenlab/go-lwl/pkg/fault"
	"jinr.ru/greenlab/go-lwl/pkg/layers"
)

const (
	OutputText = "text"
	OutputJSON = "json"
	OutputYAML = "yaml"

	bannerWidth = 80
)

// ErrUnknownOutput returned for an output format other than text, json or yaml
type ErrUnknownOutput struct {
	Output string
}

func (e ErrUnknownOutput) Error() string {
	return fmt.Sprintf("Unknown output format %q. Must be one of: text, json, yaml.", e.Output)
}

type TextOptions struct {
	// Color styles banners and errors
	Color bool
}

var (
	bannerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	errorStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
)

// Render writes the report in the given output format.
func Render(w io.Writer, v *ReportView, output string, opts TextOptions) error {
	switch output {
	case "", OutputText:
		return WriteText(w, v, opts)
	case OutputJSON:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case OutputYAML:
		data, err := yaml.Marshal(v)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	}
	return ErrUnknownOutput{Output: output}
}

// WriteText prints the report the way the console tool always did: a banner
// per section followed by its lines.
func WriteText(w io.Writer, v *ReportView, opts TextOptions) error {
	tw := &textWriter{w: w, opts: opts}
	for _, s := range v.Sections {
		switch s.Type {
		case layers.SectionTypeFault.String():
			tw.banner("Fault data")
			for _, f := range s.Fields {
				fv := fault.FieldValue{Name: f.Name, Width: f.Width, Value: f.Value}
				tw.line(fv.String(s.NameWidth))
			}
		case layers.SectionTypeLwl.String():
			tw.banner("LWL")
			if s.Lwl != nil {
				for _, r := range s.Lwl.Records {
					tw.line(r.Line())
				}
			}
		case layers.SectionTypeTrailer.String():
			tw.banner("End of fault data")
		}
		if s.Error != "" {
			tw.errorLine(s.Error)
		}
	}
	if v.Error != "" {
		tw.errorLine(v.Error)
	}
	return tw.err
}

type textWriter struct {
	w    io.Writer
	opts TextOptions
	err  error
}

func (tw *textWriter) line(s string) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintln(tw.w, s)
}

func (tw *textWriter) banner(title string) {
	rule := strings.Repeat("=", bannerWidth)
	if tw.opts.Color {
		title = bannerStyle.Render(title)
	}
	tw.line(rule)
	tw.line(title)
	tw.line(rule)
}

func (tw *textWriter) errorLine(msg string) {
	msg = "ERROR: " + msg
	if tw.opts.Color {
		msg = errorStyle.Render(msg)
	}
	tw.line(msg)
}
