package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"doiproxy/src/internal/config"
)

// Version is set at build time via ldflags.
var Version = "dev"

var configPath string

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "doiproxy",
		Short:         "DOI metadata proxy for the CrossRef registry",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", getEnv("DOIPROXY_CONFIG", config.DefaultFile), "YAML config file (optional)")
	root.AddCommand(newServeCmd())
	root.AddCommand(newLookupCmd())
	root.AddCommand(newNormalizeCmd())
	root.AddCommand(newVersionCmd())
	return root
}

func execute() error {
	return newRootCmd().Execute()
}

func main() {
	if err := execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
