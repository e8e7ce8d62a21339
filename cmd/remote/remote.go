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

package remote

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"jinr.ru/greenlab/go-lwl/pkg/command"
	"jinr.ru/greenlab/go-lwl/pkg/config"
	"jinr.ru/greenlab/go-lwl/pkg/decode"
)

const (
	FileOptionName   = "file"
	DumpOptionName   = "dump"
	OutputOptionName = "output"
	ColorOptionName  = "color"
)

type renderFlags struct {
	output string
	color  bool
}

func (f *renderFlags) add(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.output, OutputOptionName, "o", "", fmt.Sprintf("Output format: %s, %s or %s", decode.OutputText, decode.OutputJSON, decode.OutputYAML))
	cmd.Flags().BoolVar(&f.color, ColorOptionName, false, "Colorize text output")
}

func (f *renderFlags) render(cmd *cobra.Command, cfg *config.Config, v *decode.ReportView) error {
	output := f.output
	if output == "" {
		output = cfg.Output
	}
	if output == "" || output == decode.OutputText {
		fmt.Fprintf(cmd.OutOrStdout(), "Report %s\n", v.ID)
	}
	return decode.Render(cmd.OutOrStdout(), v, output, decode.TextOptions{Color: f.color})
}

func NewCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remote",
		Short: "Talk to a running API server",
	}
	cmd.AddCommand(NewDecodeCommand(cfg))
	cmd.AddCommand(NewReportCommand(cfg))
	cmd.AddCommand(NewMessagesCommand(cfg))
	return cmd
}

func NewDecodeCommand(cfg *config.Config) *cobra.Command {
	var file string
	var dump bool
	var rf renderFlags
	cmd := &cobra.Command{
		Use:   "decode",
		Short: "Send a capture to the API server to decode",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(file)
			if err != nil {
				return err
			}
			client := command.NewApiClient(cfg)
			v, err := client.Decode(string(data), dump)
			if err != nil {
				return err
			}
			return rf.render(cmd, cfg, v)
		},
	}
	cmd.Flags().StringVarP(&file, FileOptionName, "f", "", "Fault data capture file")
	cmd.Flags().BoolVar(&dump, DumpOptionName, false, "The file is an lwl dump instead of a fault data capture")
	rf.add(cmd)
	cmd.MarkFlagRequired(FileOptionName)
	return cmd
}

func NewReportCommand(cfg *config.Config) *cobra.Command {
	var rf renderFlags
	cmd := &cobra.Command{
		Use:   "report ID",
		Short: "Get a report stored by the API server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := command.NewApiClient(cfg)
			v, err := client.Report(args[0])
			if err != nil {
				return err
			}
			return rf.render(cmd, cfg, v)
		},
	}
	rf.add(cmd)
	return cmd
}

func NewMessagesCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "messages",
		Short: "List the LWL messages the API server decodes with",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := command.NewApiClient(cfg)
			messages, err := client.Messages()
			if err != nil {
				return err
			}
			for _, d := range messages {
				fmt.Fprintf(cmd.OutOrStdout(), "%5d  %q  %s\n", d.ID, d.Format, d.Provenance)
			}
			return nil
		},
	}
	return cmd
}
