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

	"github.com/spf13/cobra"

	lwlcmd "jinr.ru/greenlab/go-lwl/pkg/cmd"
	"jinr.ru/greenlab/go-lwl/pkg/config"
	"jinr.ru/greenlab/go-lwl/pkg/state"
)

func NewScanCommand(cfg *config.Config) *cobra.Command {
	var dirs, exts []string
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan sources and save the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(dirs) == 0 {
				dirs = cfg.SourceDirs
			}
			if len(dirs) == 0 {
				return ErrNoSourceDirs{}
			}
			result, err := lwlcmd.Scan(cfg, dirs, exts)
			if err != nil {
				return err
			}
			cat := result.Catalog()

			st, err := state.NewState(cmd.Context(), cfg.DBPath)
			if err != nil {
				return err
			}
			defer st.Close()
			if err := st.SaveCatalog(cat); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, e := range result.Errors {
				fmt.Fprintf(out, "ERROR: %s\n", e)
			}
			fmt.Fprintf(out, "Saved %d LWL messages and %d fault fields to %s, %d errors\n",
				cat.Messages.Len(), len(cat.Layout.Fields()), cfg.DBPath, len(result.Errors))
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&dirs, DirOptionName, "d", nil, "Source dir to scan. Can be repeated. Default is sourceDirs from the config")
	cmd.Flags().StringSliceVarP(&exts, ExtOptionName, "e", nil, "Source file extensions to scan. Default is .c")
	return cmd
}
