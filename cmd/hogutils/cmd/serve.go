package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/drevan/d3utils/hog"
	"github.com/drevan/d3utils/web"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Browse the input HOG file(s) over HTTP",
	Long: `Serve JSON listings, entry downloads and OGF texture previews
for the input archives:

  GET /json/hogs                   archive names
  GET /json/hog/{hog}              file table
  GET /dump/hog/{hog}/{entry}      raw payload
  GET /png/hog/{hog}/{entry}       .ogf entry rendered as PNG`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		inputs, err := inputList()
		if err != nil {
			return err
		}

		archives := make([]*hog.Archive, 0, len(inputs))
		for _, in := range inputs {
			a, err := hog.Open(in)
			if err != nil {
				return err
			}
			defer a.Close()
			archives = append(archives, a)
		}
		if len(archives) == 0 {
			return fmt.Errorf("no archives to serve")
		}

		return web.StartServer(serveAddr, archives)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8000", "Address of server")
	rootCmd.AddCommand(serveCmd)
}
