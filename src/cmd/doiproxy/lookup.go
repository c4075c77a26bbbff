package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"doiproxy/src/internal/crossref"
	"doiproxy/src/internal/logger"
)

func newLookupCmd() *cobra.Command {
	var format, pdfPath string
	cmd := &cobra.Command{
		Use:   "lookup [doi]",
		Short: "Fetch metadata for one DOI and print it",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "json" && format != "yaml" {
				return fmt.Errorf("unknown format %q (want json or yaml)", format)
			}
			var raw string
			switch {
			case pdfPath != "" && len(args) > 0:
				return errors.New("give either a DOI or --pdf, not both")
			case pdfPath != "":
				d, err := findPDFDOI(pdfPath, 0)
				if err != nil {
					return err
				}
				raw = d
			case len(args) == 1:
				raw = args[0]
			default:
				return errors.New("a DOI or --pdf is required")
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			// CLI output is the record itself; diagnostics only on request
			log := logger.Discard()
			if logger.ParseLevel(cfg.LogLevel) == logger.LevelDebug {
				log = newLogger(cfg)
			}
			meta, err := newFetcher(cfg, log).FetchMetadata(cmd.Context(), raw)
			if err != nil {
				return err
			}
			return writeMetadata(cmd, format, meta)
		},
	}
	cmd.Flags().StringVar(&format, "format", "json", "output format: json or yaml")
	cmd.Flags().StringVar(&pdfPath, "pdf", "", "read the DOI from the first pages of a PDF")
	return cmd
}

func writeMetadata(cmd *cobra.Command, format string, meta crossref.Metadata) error {
	out := cmd.OutOrStdout()
	if format == "yaml" {
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(meta); err != nil {
			return err
		}
		return enc.Close()
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}
