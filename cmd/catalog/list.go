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
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	pkgcatalog "jinr.ru/greenlab/go-lwl/pkg/catalog"
	lwlcmd "jinr.ru/greenlab/go-lwl/pkg/cmd"
	"jinr.ru/greenlab/go-lwl/pkg/config"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Underline(true)

func NewListCommand(cfg *config.Config) *cobra.Command {
	var dirs, exts []string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the LWL messages and the fault data fields",
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := lwlcmd.Catalog(cmd.Context(), cfg, dirs, exts)
			if err != nil {
				return err
			}
			printCatalog(cmd.OutOrStdout(), cat)
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&dirs, DirOptionName, "d", nil, "Scan this source dir instead of using the saved catalog. Can be repeated")
	cmd.Flags().StringSliceVarP(&exts, ExtOptionName, "e", nil, "Source file extensions to scan. Default is .c")
	return cmd
}

func widths(w []int) string {
	s := make([]string, 0, len(w))
	for _, v := range w {
		s = append(s, fmt.Sprint(v))
	}
	return strings.Join(s, ",")
}

func printCatalog(out io.Writer, cat *pkgcatalog.Catalog) {
	fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("%5s  %-8s  %-40s  %s", "ID", "ARGS", "FORMAT", "SOURCE")))
	for _, d := range cat.Messages.Descriptors() {
		fmt.Fprintf(out, "%5d  %-8s  %-40q  %s\n", d.ID, widths(d.ArgWidths), d.Format, d.Provenance)
	}
	fmt.Fprintf(out, "Max message length: %d\n\n", cat.Messages.MaxMessageLen())

	fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("%6s  %5s  %s", "OFFSET", "WIDTH", "FIELD")))
	for _, f := range cat.Layout.Fields() {
		name := f.Name
		if f.Suppressed() {
			name += " (hidden)"
		}
		fmt.Fprintf(out, "%6d  %5d  %s\n", f.Offset, f.Width, name)
	}
	fmt.Fprintf(out, "Record size: %d\n", cat.Layout.Size())
}
