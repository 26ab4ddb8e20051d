package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/crimson-sun/stepwise/internal/source"

	// Register source implementations.
	_ "github.com/crimson-sun/stepwise/internal/source/dir"
	_ "github.com/crimson-sun/stepwise/internal/source/file"
)

var version = "dev"

// newRootCmd wires the cobra root command.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "stepwise",
		Short: "Extract normalized command info from device test session logs",
		Long: "Stepwise converts raw session logs from automated network-device test runs\n" +
			"into step-ordered, normalized command info for script regeneration and audit.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newExtractCmd())
	root.AddCommand(newSourcesCmd())
	root.AddCommand(newVersionCmd())
	return root
}

func newSourcesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sources",
		Short: "List registered session log source providers",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range source.Providers() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the stepwise version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "stepwise", version)
		},
	}
}
