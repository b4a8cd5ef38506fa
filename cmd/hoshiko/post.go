// ABOUTME: The post command: executes a single posting cycle and reports the outcome.
// ABOUTME: Useful for trying out prompts and credentials without the long-running loop.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var postCmd = &cobra.Command{
	Use:   "post",
	Short: "Run a single posting cycle",
	Long:  "Execute one gate-generate-filter-publish-persist cycle and exit.",
	RunE:  runPost,
}

func init() {
	rootCmd.AddCommand(postCmd)
}

func runPost(cmd *cobra.Command, args []string) error {
	controller, _, err := buildController(globalConfig)
	if err != nil {
		return err
	}

	outcome := controller.RunOnce(cmd.Context())
	if outcome.Posted {
		fmt.Printf("posted (%s): %s\n", outcome.Category, outcome.Text)
		fmt.Printf("post id: %s\n", outcome.PostID)
		return nil
	}
	fmt.Printf("nothing posted: %s\n", outcome.Skip)
	return nil
}
