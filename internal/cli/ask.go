package cli

import (
	"context"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/spf13/cobra"

	"github.com/rcliao/tutor-engine/internal/model"
	"github.com/rcliao/tutor-engine/internal/plan"
	"github.com/rcliao/tutor-engine/internal/router"
	"github.com/rcliao/tutor-engine/internal/session"
)

func init() {
	var devMode bool

	cmd := &cobra.Command{
		Use:   "ask [message]",
		Short: "Ask a question or request an artifact",
		Long:  "Answers a question grounded in the project material. Supports /quiz, /card, /map markers and /plan (or review-session phrasing) for a multi-step lesson.",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			message := strings.Join(args, " ")
			s := openSession()
			defer s.Close()

			runTurn(cmd.Context(), s, message, router.WantsPlan(message), devMode)
		},
	}

	cmd.Flags().BoolVar(&devMode, "dev", false, "Print prompts and raw model output after the reply")

	RootCmd.AddCommand(cmd)
}

// runTurn drives one user turn end to end: log the user message, run the
// single-shot or multi-step path, persist and render the produced records.
func runTurn(ctx context.Context, s *session.Session, message string, usePlan, devMode bool) {
	history, err := s.Store.Turns(ctx, 200)
	if err != nil {
		exitErr("load history", err)
	}

	userTurn := model.ChatTurn{
		ID:   ulid.Make().String(),
		TS:   time.Now().Unix(),
		Role: "user",
		Kind: model.KindMsg,
		Text: message,
	}
	if err := s.Store.AppendTurn(ctx, userTurn); err != nil {
		exitErr("append turn", err)
	}

	client, err := s.Model()
	if err != nil {
		exitErr("model client", err)
	}

	runner := &plan.Runner{
		Evidence: s.Evidence,
		LLM:      client,
		Dev:      s.Dev,
		Log:      s.Log,
		History:  history,
	}

	var turns []model.ChatTurn
	if usePlan {
		p := plan.Build(ctx, client, message, history, s.Dev)
		turns, err = runner.Execute(ctx, p, message)
	} else {
		tool, topic := router.Route(ctx, client, message, s.Dev)
		turns, err = runner.RunTool(ctx, tool, topic)
	}
	if err != nil {
		exitErr("run", err)
	}

	for _, t := range turns {
		if err := s.Store.AppendTurn(ctx, t); err != nil {
			exitErr("append turn", err)
		}
	}

	printTurns(turns)
	if devMode {
		printDevlog(s.Dev)
	}
}
