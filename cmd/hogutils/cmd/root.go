package cmd

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/drevan/d3utils/config"
	"github.com/drevan/d3utils/hog"
)

var (
	flagInputs        []string
	flagFileInput     string
	flagDebug         bool
	flagEncoding      string
	flagListEncodings bool
)

var rootCmd = &cobra.Command{
	Use:   "hogutils",
	Short: "Display & edit Descent 3 HOG files",
	Long: `hogutils reads, extracts and builds Descent 3 HOG2 archives.

Inputs may be HOG archives or loose files; each input is auto-detected
by its magic. When several inputs carry the same entry name, the later
input wins, so patch archives listed after the base archive override
its files.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if flagListEncodings {
			for _, name := range config.ListEncodings() {
				fmt.Println(name)
			}
			os.Exit(0)
		}
		if flagEncoding != "" {
			return config.SetEncoding(flagEncoding)
		}
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringArrayVarP(&flagInputs, "input", "i", nil, "Input file to read (repeatable)")
	rootCmd.PersistentFlags().StringVarP(&flagFileInput, "file-input", "f", "", "Read input file names from a file, one per line")
	rootCmd.PersistentFlags().BoolVarP(&flagDebug, "debug", "d", false, "Dump parsed structures")
	rootCmd.PersistentFlags().StringVar(&flagEncoding, "encoding", "", "Charmap for entry names (see --list-encodings)")
	rootCmd.PersistentFlags().BoolVar(&flagListEncodings, "list-encodings", false, "List supported charmap names and exit")
}

// inputList merges -i arguments with the optional -f list file,
// keeping command-line inputs first. List-file names that do not
// exist as written are retried lowercased, since HOG tables keep the
// original case but files on disk are often renamed.
func inputList() ([]string, error) {
	inputs := append([]string(nil), flagInputs...)

	if flagFileInput != "" {
		f, err := os.Open(flagFileInput)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			if _, err := os.Stat(line); err == nil {
				inputs = append(inputs, line)
				continue
			}
			lower := filepath.Join(filepath.Dir(line), strings.ToLower(filepath.Base(line)))
			if _, err := os.Stat(lower); err == nil {
				inputs = append(inputs, lower)
				continue
			}
			log.Printf("[hog] Skipping file '%s': not found", line)
		}
		if err := scanner.Err(); err != nil {
			return nil, err
		}
	}

	if len(inputs) == 0 {
		return nil, fmt.Errorf("you must specify either --input or --file-input")
	}
	return inputs, nil
}

// loadMerger reads all inputs. In tolerant mode (show/extract) a bad
// input is reported and skipped; in strict mode (create) the first
// failure aborts, since a partially sourced archive is worse than no
// output.
func loadMerger(inputs []string, tolerant bool) (*hog.Merger, []string, error) {
	m := hog.NewMerger()
	var failed []string
	for _, in := range inputs {
		if err := m.AddInput(in); err != nil {
			if !tolerant {
				m.Close()
				return nil, nil, err
			}
			fmt.Fprintf(os.Stderr, "Error reading '%s': %v\n", in, err)
			failed = append(failed, in)
		}
	}
	return m, failed, nil
}

func failedInputsError(failed []string) error {
	if len(failed) == 0 {
		return nil
	}
	return fmt.Errorf("%d input(s) could not be read: %s", len(failed), strings.Join(failed, ", "))
}
