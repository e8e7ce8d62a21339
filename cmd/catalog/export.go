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
	"io"

	"github.com/goccy/go-json"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	pkgcatalog "jinr.ru/greenlab/go-lwl/pkg/catalog"
	lwlcmd "jinr.ru/greenlab/go-lwl/pkg/cmd"
	"jinr.ru/greenlab/go-lwl/pkg/config"
)

// Export is the exported catalog document.
type Export struct {
	Messages    []*pkgcatalog.MessageDescriptor `json:"messages" toml:"messages"`
	FaultFields []pkgcatalog.FieldSpec          `json:"faultFields" toml:"faultFields"`
}

func NewExport(cat *pkgcatalog.Catalog) *Export {
	return &Export{
		Messages:    cat.Messages.Descriptors(),
		FaultFields: cat.Layout.Specs(),
	}
}

func (e *Export) Write(out io.Writer, format string) error {
	var data []byte
	var err error
	switch format {
	case "", "yaml":
		data, err = yaml.Marshal(e)
	case "json":
		data, err = json.MarshalIndent(e, "", "  ")
		data = append(data, '\n')
	case "toml":
		data, err = toml.Marshal(e)
	default:
		return ErrUnknownFormat{Format: format}
	}
	if err != nil {
		return err
	}
	_, err = out.Write(data)
	return err
}

func NewExportCommand(cfg *config.Config) *cobra.Command {
	var dirs, exts []string
	var format string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Dump the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := lwlcmd.Catalog(cmd.Context(), cfg, dirs, exts)
			if err != nil {
				return err
			}
			return NewExport(cat).Write(cmd.OutOrStdout(), format)
		},
	}
	cmd.Flags().StringArrayVarP(&dirs, DirOptionName, "d", nil, "Scan this source dir instead of using the saved catalog. Can be repeated")
	cmd.Flags().StringSliceVarP(&exts, ExtOptionName, "e", nil, "Source file extensions to scan. Default is .c")
	cmd.Flags().StringVar(&format, FormatOptionName, "yaml", "Export format: yaml, json or toml")
	return cmd
}
