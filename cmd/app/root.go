// bootcheck runs a single verification from photos on disk and writes the PDF report.
//
// Usage:
//
//	bootcheck verify --brand Nike --model "Phantom GX Elite" --tier Elite --weight 215 \
//	    --side side.jpg --sole sole.jpg --tag tag.jpg [--heel heel.jpg] [--stitching st.jpg] [-o report.pdf]
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "bootcheck",
	Short: "Product photo verification with a generative engine",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
	rootCmd.Version = version
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
