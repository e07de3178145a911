package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List projects in the data directory",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		entries, err := os.ReadDir(cfg.DataDir)
		if err != nil {
			if os.IsNotExist(err) {
				fmt.Println("No projects yet. Create one with: tutor init <name> --file notes.md")
				return
			}
			exitErr("read data dir", err)
		}
		var names []string
		for _, e := range entries {
			if !e.IsDir() {
				continue
			}
			if _, err := os.Stat(filepath.Join(cfg.DataDir, e.Name(), "tutor.db")); err == nil {
				names = append(names, e.Name())
			}
		}
		if len(names) == 0 {
			fmt.Println("No projects yet. Create one with: tutor init <name> --file notes.md")
			return
		}
		sort.Strings(names)
		for _, n := range names {
			fmt.Println(n)
		}
	},
}

func init() {
	RootCmd.AddCommand(projectsCmd)
}
