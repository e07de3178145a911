package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

func init() {
	var outDir string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export chat and review logs as JSONL",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			s := openSession()
			defer s.Close()
			ctx := cmd.Context()

			if err := os.MkdirAll(outDir, 0o755); err != nil {
				exitErr("create output dir", err)
			}

			turns, err := s.Store.Turns(ctx, 0)
			if err != nil {
				exitErr("load chats", err)
			}
			chatPath := filepath.Join(outDir, s.Project+"_chats.jsonl")
			if err := writeJSONL(chatPath, len(turns), func(i int) any { return turns[i] }); err != nil {
				exitErr("write chats", err)
			}
			fmt.Printf("%s: %d turns\n", chatPath, len(turns))

			items, err := s.Store.AllWrong(ctx)
			if err != nil {
				exitErr("load review log", err)
			}
			wrongPath := filepath.Join(outDir, s.Project+"_wrong.jsonl")
			if err := writeJSONL(wrongPath, len(items), func(i int) any { return items[i] }); err != nil {
				exitErr("write review log", err)
			}
			fmt.Printf("%s: %d items\n", wrongPath, len(items))
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "Output directory")

	RootCmd.AddCommand(cmd)
}

func writeJSONL(path string, n int, at func(int) any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	for i := 0; i < n; i++ {
		if err := enc.Encode(at(i)); err != nil {
			return err
		}
	}
	return nil
}
