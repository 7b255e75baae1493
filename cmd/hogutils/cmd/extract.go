package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var extractOutput string

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract files' content into the output directory",
	Long: `Extract every entry of the merged inputs into the directory
given with --output, creating it if needed. Later inputs override
earlier ones for duplicate names, matching create semantics.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if extractOutput == "" {
			return fmt.Errorf("you must specify an output directory")
		}

		inputs, err := inputList()
		if err != nil {
			return err
		}

		m, failed, err := loadMerger(inputs, true)
		if err != nil {
			return err
		}
		defer m.Close()

		count, err := m.Extract(extractOutput)
		if err != nil {
			return err
		}
		fmt.Printf("Extracted %d files to %s\n", count, extractOutput)

		return failedInputsError(failed)
	},
}

func init() {
	extractCmd.Flags().StringVarP(&extractOutput, "output", "o", "", "Output directory")
	rootCmd.AddCommand(extractCmd)
}
