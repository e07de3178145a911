package cli

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rcliao/tutor-engine/internal/devlog"
	"github.com/rcliao/tutor-engine/internal/model"
)

// printTurns renders produced turn records to stdout, honoring --format.
func printTurns(turns []model.ChatTurn) {
	if formatFlag == "json" {
		b, _ := json.MarshalIndent(turns, "", "  ")
		fmt.Println(string(b))
		return
	}

	for _, t := range turns {
		printTurn(t)
	}
}

func printTurn(t model.ChatTurn) {
	switch t.Kind {
	case model.KindMCQ:
		fmt.Printf("── quiz [%s] ──\n", t.ID)
		if t.Quiz == nil {
			return
		}
		fmt.Println(t.Quiz.Question)
		for _, o := range t.Quiz.Options {
			fmt.Println("  " + o)
		}
		fmt.Printf("(answer with: tutor quiz-answer %s <letter>)\n\n", t.ID)
	case model.KindCard:
		fmt.Println("── study card ──")
		fmt.Println(t.Text)
		fmt.Println()
	case model.KindMindmap:
		fmt.Println("── mind map ──")
		fmt.Println(t.Text)
		fmt.Println()
	default:
		fmt.Println(t.Text)
		if len(t.Passages) > 0 {
			var tags []string
			for _, p := range t.Passages {
				tag := filepath.Base(p.Source)
				if p.Page > 0 {
					tag += fmt.Sprintf(" P%d", p.Page)
				} else if p.Slide > 0 {
					tag += fmt.Sprintf(" S%d", p.Slide)
				}
				tags = append(tags, tag)
			}
			fmt.Println("sources: " + strings.Join(tags, ", "))
		}
		fmt.Println()
	}
}

func printDevlog(dev *devlog.Log) {
	entries := dev.Entries()
	if len(entries) == 0 {
		return
	}
	fmt.Println("── diagnostics ──")
	for _, e := range entries {
		fmt.Printf("[%s]\n%s\n\n", e.Key, e.Value)
	}
}
