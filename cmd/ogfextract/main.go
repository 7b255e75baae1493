package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/drevan/d3utils/config"
	"github.com/drevan/d3utils/ogf"
)

var (
	flagInputs   []string
	flagOutput   string
	flagWorkers  int
	flagEncoding string
)

var rootCmd = &cobra.Command{
	Use:   "ogfextract",
	Short: "Export Descent 3 OGF texture files to PNG",
	Long: `Decode every input OGF texture (files or directories of .ogf
files) and write the base mip level as PNG into the output directory,
named <stem>_<width>_<height>.png. A texture that fails to decode is
reported and skipped; the rest of the batch continues.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(flagInputs) == 0 {
			return fmt.Errorf("you must specify at least one --input file or directory")
		}
		if flagOutput == "" {
			return fmt.Errorf("you must specify the output directory")
		}
		if flagEncoding != "" {
			if err := config.SetEncoding(flagEncoding); err != nil {
				return err
			}
		}

		files, err := ogf.DiscoverInputs(flagInputs)
		if err != nil {
			return err
		}
		if len(files) == 0 {
			return fmt.Errorf("no .ogf files found in inputs")
		}

		converted, failed := ogf.ConvertAll(files, flagOutput, flagWorkers)
		fmt.Printf("Converted %d of %d textures\n", converted, len(files))
		if len(failed) > 0 {
			return fmt.Errorf("%d texture(s) failed", len(failed))
		}
		return nil
	},
}

func init() {
	rootCmd.Flags().StringArrayVarP(&flagInputs, "input", "i", nil, "Input OGF file or directory containing OGF files (repeatable)")
	rootCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "Output directory")
	rootCmd.Flags().IntVarP(&flagWorkers, "workers", "w", 4, "Number of parallel conversions")
	rootCmd.Flags().StringVar(&flagEncoding, "encoding", "", "Charmap for texture names")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
