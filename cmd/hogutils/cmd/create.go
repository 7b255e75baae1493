package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/drevan/d3utils/hog"
)

var (
	createOutput   string
	createManifest string
)

var createCmd = &cobra.Command{
	Use:     "create",
	Aliases: []string{"combine"},
	Short:   "Create a new HOG file from all input files, HOG or not",
	Long: `Build one new archive from the inputs in the order given.
Inputs come from --input/--file-input or from a YAML manifest:

  output: full.hog
  inputs:
    - d3.hog
    - patch.hog
    - extra/readme.txt

Any unreadable source aborts the whole operation; a partially written
archive is never left behind.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		inputs := flagInputs
		output := createOutput

		if createManifest != "" {
			man, err := hog.LoadManifest(createManifest)
			if err != nil {
				return err
			}
			inputs = append(man.Inputs, inputs...)
			if output == "" {
				output = man.Output
			}
		} else {
			var err error
			if inputs, err = inputList(); err != nil {
				return err
			}
		}
		if output == "" {
			return fmt.Errorf("you must specify an output file")
		}
		if len(inputs) == 0 {
			return hog.ErrEmptyInput
		}

		m, _, err := loadMerger(inputs, false)
		if err != nil {
			return err
		}
		defer m.Close()

		if flagDebug {
			for _, a := range m.SortedArchives() {
				fmt.Printf("source archive %s: %d entries\n", a.Path(), len(a.Entries()))
			}
		}

		return m.Create(output)
	},
}

func init() {
	createCmd.Flags().StringVarP(&createOutput, "output", "o", "", "Output HOG file")
	createCmd.Flags().StringVar(&createManifest, "manifest", "", "YAML manifest describing the create job")
	rootCmd.AddCommand(createCmd)
}
