package main

import (
	"fmt"
	"os"

	"github.com/arthur-debert/recent-work/internal/cli"
	"github.com/arthur-debert/recent-work/pkg/ui/styles"
)

func main() {
	rootCmd := cli.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, styles.Default().Render("Error", fmt.Sprintf("Error: %v", err)))
		os.Exit(1)
	}
}
