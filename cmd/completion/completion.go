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

package completion

import (
	"fmt"

	"github.com/spf13/cobra"
)

const (
	completionExample = `
Save bash completion to a file
# go-lwl completion > $HOME/.go-lwl_completions

Apply completions to the current bash instance
# source <(go-lwl completion)

Zsh completion
# go-lwl completion zsh > "${fpath[1]}/_go-lwl"
`
)

var shells = []string{"bash", "zsh", "fish", "powershell"}

// ErrUnknownShell returned for a shell cobra can not generate completion for
type ErrUnknownShell struct {
	Shell string
}

func (e ErrUnknownShell) Error() string {
	return fmt.Sprintf("Unknown shell %q. Must be one of: %v", e.Shell, shells)
}

// NewCommand creates a cobra command object for generating shell completion
// scripts. Bash is the default.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "completion [bash|zsh|fish|powershell]",
		Short:     "Generate shell completion script",
		Example:   completionExample,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: shells,
		RunE: func(cmd *cobra.Command, args []string) error {
			shell := "bash"
			if len(args) == 1 {
				shell = args[0]
			}
			out := cmd.OutOrStdout()
			switch shell {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletion(out)
			}
			return ErrUnknownShell{Shell: shell}
		},
	}
	return cmd
}
