package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/tutor-engine/internal/ingest"
	"github.com/rcliao/tutor-engine/internal/session"
)

func init() {
	var files []string
	var jsonlFiles []string

	cmd := &cobra.Command{
		Use:   "init [project]",
		Short: "Create a project and build its evidence index",
		Long:  "Creates a project and indexes the given study material. Plain text and markdown are parsed directly; other formats must be pre-parsed into passage JSONL.",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if len(files) == 0 && len(jsonlFiles) == 0 {
				exitErr("init", fmt.Errorf("no input files (use --file or --jsonl)"))
			}

			cfg := loadConfig()
			s, err := session.Open(cfg, args[0])
			if err != nil {
				exitErr("create project", err)
			}
			defer s.Close()

			ing := &ingest.Ingestor{Store: s.Store, Embedder: s.Embedder}
			total := 0
			for _, f := range files {
				n, err := ing.File(cmd.Context(), f)
				if err != nil {
					exitErr("ingest "+f, err)
				}
				fmt.Printf("%s: %d passages\n", f, n)
				total += n
			}
			for _, f := range jsonlFiles {
				n, err := ing.JSONL(cmd.Context(), f)
				if err != nil {
					exitErr("import "+f, err)
				}
				fmt.Printf("%s: %d passages\n", f, n)
				total += n
			}
			fmt.Printf("project %s ready (%d passages indexed)\n", args[0], total)
		},
	}

	cmd.Flags().StringArrayVar(&files, "file", nil, "Study material file (.txt or .md), repeatable")
	cmd.Flags().StringArrayVar(&jsonlFiles, "jsonl", nil, "Pre-parsed passage JSONL file, repeatable")

	RootCmd.AddCommand(cmd)
}
