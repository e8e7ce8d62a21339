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

	"github.com/spf13/cobra"

	"jinr.ru/greenlab/go-lwl/pkg/capture"
	lwlcmd "jinr.ru/greenlab/go-lwl/pkg/cmd"
	"jinr.ru/greenlab/go-lwl/pkg/config"
	"jinr.ru/greenlab/go-lwl/pkg/decode"
)

const (
	FileOptionName      = "file"
	DumpOptionName      = "dump"
	DirOptionName       = "dir"
	ExtOptionName       = "ext"
	OutputOptionName    = "output"
	ColorOptionName     = "color"
	ByteOrderOptionName = "byte-order"

	decodeExample = `
Decode a fault data capture with the catalog saved by "catalog scan"
# go-lwl decode -f fault.txt

Scan the sources instead of using the saved catalog
# go-lwl decode -f fault.txt -d firmware/modules -d firmware/app

Decode the output of the "lwl dump" console command
# go-lwl decode --dump -f lwl.txt
`
)

func NewCommand(cfg *config.Config) *cobra.Command {
	var file, output, byteOrder string
	var dirs, exts []string
	var dump, color bool
	cmd := &cobra.Command{
		Use:     "decode",
		Short:   "Decode fault data",
		Example: decodeExample,
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				output = cfg.Output
			}
			if byteOrder != "" {
				cfg.ByteOrder = byteOrder
			}
			cat, err := lwlcmd.Catalog(cmd.Context(), cfg, dirs, exts)
			if err != nil {
				return err
			}
			decoder, err := lwlcmd.Decoder(cfg, cat)
			if err != nil {
				return err
			}

			var report *decode.Report
			var decodeErr error
			if dump {
				d, err := capture.LoadDumpFile(file)
				if err != nil {
					return err
				}
				report, decodeErr = decoder.DecodeBuffer(d.Data, d.Put)
				if decodeErr != nil {
					return decodeErr
				}
			} else {
				blob, err := capture.LoadFile(file)
				if err != nil {
					return err
				}
				report, decodeErr = decoder.Decode(blob)
			}

			opts := decode.TextOptions{Color: color}
			if err := decode.Render(cmd.OutOrStdout(), report.View(), output, opts); err != nil {
				return err
			}
			return decodeErr
		},
	}
	cmd.Flags().StringVarP(&file, FileOptionName, "f", "", "Fault data capture file")
	cmd.Flags().BoolVar(&dump, DumpOptionName, false, "The file is an lwl dump instead of a fault data capture")
	cmd.Flags().StringArrayVarP(&dirs, DirOptionName, "d", nil, "Source dir to scan for LWL statements and fault data fields. Can be repeated")
	cmd.Flags().StringSliceVarP(&exts, ExtOptionName, "e", nil, "Source file extensions to scan. Default is .c")
	cmd.Flags().StringVarP(&output, OutputOptionName, "o", "", fmt.Sprintf("Output format: %s, %s or %s", decode.OutputText, decode.OutputJSON, decode.OutputYAML))
	cmd.Flags().BoolVar(&color, ColorOptionName, false, "Colorize text output")
	cmd.Flags().StringVar(&byteOrder, ByteOrderOptionName, "", "Byte order to try first: little or big")
	cmd.MarkFlagRequired(FileOptionName)
	return cmd
}
