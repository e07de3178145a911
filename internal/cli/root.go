// Package cli implements the tutor CLI commands.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rcliao/tutor-engine/internal/config"
	"github.com/rcliao/tutor-engine/internal/session"
)

var (
	configPath  string
	projectFlag string
	formatFlag  string
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "tutor",
	Short: "Retrieval-augmented study assistant",
	Long:  "A study assistant that answers questions grounded in your own material and generates quizzes, study cards, and mind maps, with spaced repetition for missed questions.",
}

func init() {
	RootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file path (default: ~/.tutor-engine/config.yaml)")
	RootCmd.PersistentFlags().StringVarP(&projectFlag, "project", "p", "", "Project name (or $TUTOR_PROJECT)")
	RootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "text", "Output format: text or json")
}

func loadConfig() config.Config {
	cfg, err := config.Load(configPath)
	if err != nil {
		exitErr("load config", err)
	}
	return cfg
}

func projectName() string {
	if projectFlag != "" {
		return projectFlag
	}
	if env := os.Getenv("TUTOR_PROJECT"); env != "" {
		return env
	}
	exitErr("project", fmt.Errorf("no project selected (use --project or $TUTOR_PROJECT)"))
	return ""
}

// openSession opens the selected project, requiring it to exist.
func openSession() *session.Session {
	cfg := loadConfig()
	name := projectName()
	if !session.Exists(cfg, name) {
		exitErr("open project", fmt.Errorf("project %q not found (create it with: tutor init %s --file notes.md)", name, name))
	}
	s, err := session.Open(cfg, name)
	if err != nil {
		exitErr("open project", err)
	}
	return s
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
