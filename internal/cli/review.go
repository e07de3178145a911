package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rcliao/tutor-engine/internal/model"
	"github.com/rcliao/tutor-engine/internal/review"
)

func init() {
	var masteredID, stillWrongID, rmID string

	cmd := &cobra.Command{
		Use:   "review",
		Short: "Review missed quiz questions",
		Long:  "Lists wrong answers due for review (Leitner boxes 1-3), and applies review decisions: --mastered promotes an item, --still-wrong resets it to box 1, --rm removes it.",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			s := openSession()
			defer s.Close()
			ctx := cmd.Context()
			now := time.Now().Unix()

			items, err := s.Store.AllWrong(ctx)
			if err != nil {
				exitErr("load review log", err)
			}

			if masteredID != "" || stillWrongID != "" || rmID != "" {
				updated := make([]model.WrongItem, 0, len(items))
				found := false
				for _, it := range items {
					switch it.ID {
					case rmID:
						found = true
						continue // dropped on overwrite
					case masteredID:
						found = true
						it = review.Mastered(it, now)
					case stillWrongID:
						found = true
						it = review.StillWrong(it, now)
					}
					updated = append(updated, it)
				}
				if !found {
					exitErr("review", fmt.Errorf("item not found"))
				}
				if err := s.Store.OverwriteWrong(ctx, updated); err != nil {
					exitErr("update review log", err)
				}
				fmt.Println("ok")
				return
			}

			due := review.Due(items, now)
			if formatFlag == "json" {
				if due == nil {
					due = []model.WrongItem{}
				}
				b, _ := json.MarshalIndent(due, "", "  ")
				fmt.Println(string(b))
				return
			}

			fmt.Printf("wrong answers: %d, due for review: %d\n", len(items), len(due))
			for i, it := range due {
				fmt.Printf("\n%d. [%s] (box %d) %s\n", i+1, it.ID, it.Box, it.Question)
				for _, o := range it.Options {
					fmt.Println("   " + o)
				}
				fmt.Printf("   correct: %s, yours was: %s\n", it.Answer, it.UserAnswer)
				if it.Rationale != "" {
					fmt.Println("   " + it.Rationale)
				}
			}
			if len(due) > 0 {
				fmt.Println("\nmark items with: tutor review --mastered <id> | --still-wrong <id> | --rm <id>")
			}
		},
	}

	cmd.Flags().StringVar(&masteredID, "mastered", "", "Mark an item mastered (moves up a box)")
	cmd.Flags().StringVar(&stillWrongID, "still-wrong", "", "Mark an item still wrong (back to box 1)")
	cmd.Flags().StringVar(&rmID, "rm", "", "Remove an item from the review log")

	RootCmd.AddCommand(cmd)
}
