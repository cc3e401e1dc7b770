package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "sdvext-cli",
	Short: "sdvext-cli lists batches and extracts course content from the supported platforms.",
}

var platform *string
var credential *string

func init() {
	platform = rootCmd.PersistentFlags().String("platform", "", "The platform to talk to: kgs or pw.")
	credential = rootCmd.PersistentFlags().String("credential", "", "A bearer token, or phone*password for kgs.")
	rootCmd.MarkPersistentFlagRequired("platform")
	rootCmd.MarkPersistentFlagRequired("credential")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
