package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/drevan/d3utils/utils"
)

var showOutput string

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Display the content of the input HOG file(s)",
	Long: `Display the merged listing of all inputs to standard output,
or to a file when --output is given. Duplicate names across inputs
are resolved last-wins before listing.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		inputs, err := inputList()
		if err != nil {
			return err
		}

		m, failed, err := loadMerger(inputs, true)
		if err != nil {
			return err
		}
		defer m.Close()

		var out io.Writer = os.Stdout
		if showOutput != "" {
			f, err := os.Create(showOutput)
			if err != nil {
				return err
			}
			defer f.Close()
			out = f
		}

		entries := m.Entries()
		if flagDebug {
			utils.Dump(entries)
		}

		fmt.Fprintf(out, "Found %d entries\n", len(entries))
		fmt.Fprintf(out, "%-36s%-10s%-10s%-12s%s\n", "Name", "Size", "Flags", "Timestamp", "From")
		for _, e := range entries {
			fmt.Fprintf(out, "%-36s%-10s%-10d%-12d%s\n",
				e.Name, utils.FormatSize(int64(e.Size)), e.Flags, e.Timestamp, e.HogFile)
		}

		return failedInputsError(failed)
	},
}

func init() {
	showCmd.Flags().StringVarP(&showOutput, "output", "o", "", "Write the listing to a file instead of stdout")
	rootCmd.AddCommand(showCmd)
}
