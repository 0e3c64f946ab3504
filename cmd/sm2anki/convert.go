// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/sm2anki/internal/convert"
	"github.com/pdiddy/sm2anki/pkg/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert <source> <media_directory> <target>",
	Short: "Convert a SuperMemo export into an Anki import file",
	Long: `Convert reads a SuperMemo text export and writes every item as one line of
an Anki tab-separated import file: question, answer, and tags. Topics are not
exported; their titles become the tags of the items below them.

Arguments:
  source           full path to the SuperMemo export file
  media_directory  full path to the media directory of the collection,
                   including the trailing slash (e.g. D:/SM/SYSTEMS/Math/elements/)
  target           full path to the output file; it is overwritten`,
	Args: cobra.ExactArgs(3),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().Int("workers", 0, "number of elements exported concurrently (default 1)")

	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg := types.ConversionConfig{
		ExportConfig: types.ExportConfig{
			MediaDir: args[1],
			Workers:  workersFlag(cmd),
		},
		Source:   args[0],
		Target:   args[2],
		Encoding: viper.GetString("encoding"),
	}

	_, err := convert.Run(cmd.Context(), cfg, os.Stdout)
	return err
}

// workersFlag returns --workers when given, else the configured value.
func workersFlag(cmd *cobra.Command) int {
	if cmd.Flags().Changed("workers") {
		n, _ := cmd.Flags().GetInt("workers")
		return n
	}
	return viper.GetInt("workers")
}
