package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rcliao/tutor-engine/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "quiz-answer [turn-id] [letter]",
		Short: "Answer a generated quiz question",
		Long:  "Grades your answer to a stored quiz question. Incorrect answers are added to the review log for spaced repetition.",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			s := openSession()
			defer s.Close()
			ctx := cmd.Context()

			turn, err := s.Store.Turn(ctx, args[0])
			if err != nil {
				exitErr("load quiz", err)
			}
			if turn.Kind != model.KindMCQ || turn.Quiz == nil {
				exitErr("load quiz", fmt.Errorf("turn %s is not a quiz question", args[0]))
			}

			q := turn.Quiz
			yours := firstLetter(args[1])
			correct := firstLetter(q.Answer)

			if yours == correct && correct != "" {
				fmt.Println("correct")
				if q.Rationale != "" {
					fmt.Println(q.Rationale)
				}
				return
			}

			fmt.Printf("wrong. correct answer: %s\n", correct)
			if q.Rationale != "" {
				fmt.Println(q.Rationale)
			}

			now := time.Now().Unix()
			err = s.Store.AppendWrong(ctx, model.WrongItem{
				TS:         now,
				Question:   q.Question,
				Options:    q.Options,
				Answer:     correct,
				UserAnswer: yours,
				Rationale:  q.Rationale,
				Box:        1,
				Last:       now,
			})
			if err != nil {
				exitErr("record wrong answer", err)
			}
			fmt.Println("added to the review log")
		},
	}

	RootCmd.AddCommand(cmd)
}

func firstLetter(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1])
}
