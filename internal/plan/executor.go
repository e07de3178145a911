package plan

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/rcliao/tutor-engine/internal/devlog"
	"github.com/rcliao/tutor-engine/internal/evidence"
	"github.com/rcliao/tutor-engine/internal/generate"
	"github.com/rcliao/tutor-engine/internal/llm"
	"github.com/rcliao/tutor-engine/internal/model"
	"github.com/rcliao/tutor-engine/internal/rewrite"
	"github.com/rcliao/tutor-engine/internal/router"
)

// Retrieval depth per tool, matching the single-shot defaults.
const (
	kAnswer  = 4
	kQuiz    = 8
	kCardMap = 10
)

// blackboardContextBudget caps the concatenated prior-step context handed to
// a generator; per-tool budgets inside generate may trim further.
const blackboardContextBudget = 1200

// Runner executes plans and single tool calls against one project session.
// One Runner owns its blackboard state per Execute call; Runners are not
// shared across concurrent turns.
type Runner struct {
	Evidence *evidence.Store
	LLM      llm.Client
	Dev      *devlog.Log
	Log      *zap.Logger
	History  []model.ChatTurn

	// Now is the clock used for turn timestamps. Defaults to time.Now.
	Now func() time.Time
}

func (r *Runner) now() int64 {
	if r.Now != nil {
		return r.Now().Unix()
	}
	return time.Now().Unix()
}

func (r *Runner) logger() *zap.Logger {
	if r.Log == nil {
		return zap.NewNop()
	}
	return r.Log
}

func newTurnID() string {
	return ulid.Make().String()
}

// Execute runs a validated plan strictly in order, single-threaded, carrying
// step outputs on a blackboard. One failed step never aborts the plan; only
// an unavailable evidence index aborts the whole turn. An empty plan falls
// back to routing the raw message through the tool router.
func (r *Runner) Execute(ctx context.Context, p Plan, message string) ([]model.ChatTurn, error) {
	if len(p.Steps) == 0 {
		tool, topic := router.Route(ctx, r.LLM, message, r.Dev)
		return r.RunTool(ctx, tool, topic)
	}

	board := NewBlackboard()
	var turns []model.ChatTurn

	for _, step := range p.Steps {
		extra := r.resolveContext(board, step.ReadKeys)

		stepTurns, artifact, err := r.runStep(ctx, step, extra)
		if err != nil {
			if errors.Is(err, evidence.ErrIndexUnavailable) {
				return turns, err
			}
			r.Dev.Setf(fmt.Sprintf("step_%d_error", step.ID), "%v", err)
			r.logger().Warn("plan step failed",
				zap.Int("step", step.ID),
				zap.String("tool", step.Tool),
				zap.Error(err))
			turns = append(turns, model.ChatTurn{
				ID:   newTurnID(),
				TS:   r.now(),
				Role: "assistant",
				Kind: model.KindMsg,
				Text: fmt.Sprintf("Step %d (%s) failed: %v", step.ID, step.Tool, err),
			})
			continue
		}

		turns = append(turns, stepTurns...)
		if step.WriteKey != "" && artifact != "" {
			board.Write(step.WriteKey, artifact, step.ID)
		}
	}

	return turns, nil
}

// resolveContext concatenates blackboard artifacts for the step's read keys.
// Keys missing from the board (the producing step yielded nothing usable)
// are silently skipped.
func (r *Runner) resolveContext(board *Blackboard, readKeys []string) string {
	var parts []string
	for _, k := range readKeys {
		if v, ok := board.Read(k); ok {
			parts = append(parts, v)
		}
	}
	joined := strings.Join(parts, "\n\n")
	if len(joined) > blackboardContextBudget {
		joined = joined[:blackboardContextBudget]
	}
	return joined
}

// runStep retrieves evidence for one step, invokes its generator, and
// returns the produced turn records plus the textual artifact for the
// blackboard.
func (r *Runner) runStep(ctx context.Context, step Step, extra string) ([]model.ChatTurn, string, error) {
	req := generate.Request{
		Topic:        step.Topic,
		Strictness:   step.Strictness,
		Role:         step.Role,
		Instruction:  step.Instruction,
		ExtraContext: extra,
	}

	switch step.Tool {
	case model.ToolQuiz:
		passages, err := r.Evidence.Search(ctx, step.Topic, kQuiz)
		if err != nil {
			return nil, "", err
		}
		req.Evidence = evidence.Format(passages)

		var turns []model.ChatTurn
		var artifacts []string
		n := step.NQuestions
		if n < 1 {
			n = 1
		}
		for i := 0; i < n; i++ {
			q, err := generate.Quiz(ctx, r.LLM, req, r.Dev)
			if err != nil {
				return turns, strings.Join(artifacts, "\n"), err
			}
			turns = append(turns, model.ChatTurn{
				ID:   newTurnID(),
				TS:   r.now(),
				Role: "assistant",
				Kind: model.KindMCQ,
				Quiz: &q,
			})
			if b, err := json.Marshal(q); err == nil {
				artifacts = append(artifacts, string(b))
			}
		}
		return turns, strings.Join(artifacts, "\n"), nil

	case model.ToolCard, model.ToolMap:
		passages, err := r.Evidence.Search(ctx, step.Topic, kCardMap)
		if err != nil {
			return nil, "", err
		}
		req.Evidence = evidence.Format(passages)

		var out string
		if step.Tool == model.ToolCard {
			out, err = generate.Card(ctx, r.LLM, req, r.Dev)
		} else {
			out, err = generate.Map(ctx, r.LLM, req, r.Dev)
		}
		if err != nil {
			return nil, "", err
		}
		kind := model.KindCard
		if step.Tool == model.ToolMap {
			kind = model.KindMindmap
		}
		return []model.ChatTurn{{
			ID:   newTurnID(),
			TS:   r.now(),
			Role: "assistant",
			Kind: kind,
			Text: out,
		}}, out, nil

	default: // answer
		passages, err := r.Evidence.Search(ctx, step.Topic, kAnswer)
		if err != nil {
			return nil, "", err
		}
		req.Evidence = evidence.Format(passages)

		out, err := generate.Answer(ctx, r.LLM, req, r.Dev)
		if err != nil {
			return nil, "", err
		}
		return []model.ChatTurn{{
			ID:       newTurnID(),
			TS:       r.now(),
			Role:     "assistant",
			Kind:     model.KindAnswer,
			Text:     out,
			Passages: passages,
		}}, out, nil
	}
}

// RunTool handles the single-shot path: rewrite the topic against recent
// history, retrieve, and run one generator. Generation failures degrade to
// tool-specific sentinel records instead of propagating; only an unavailable
// index errors out.
func (r *Runner) RunTool(ctx context.Context, tool, topic string) ([]model.ChatTurn, error) {
	topic = rewrite.Rewrite(ctx, r.LLM, topic, r.History, r.Dev)

	step := Step{
		ID:          1,
		Tool:        tool,
		Topic:       topic,
		Strictness:  model.StrictnessStrict,
		Instruction: defaultInstruction(tool),
		NQuestions:  1,
	}
	turns, _, err := r.runStep(ctx, step, "")
	if err == nil {
		return turns, nil
	}
	if errors.Is(err, evidence.ErrIndexUnavailable) {
		return nil, err
	}

	r.Dev.Setf("error_"+tool, "%v", err)
	r.logger().Warn("tool call failed", zap.String("tool", tool), zap.Error(err))

	if tool == model.ToolQuiz {
		// Quiz degrades to an empty sentinel the renderer can still show.
		q := model.Quiz{Question: "generation failed", Options: []string{}, Answer: "", Rationale: ""}
		return []model.ChatTurn{{
			ID:   newTurnID(),
			TS:   r.now(),
			Role: "assistant",
			Kind: model.KindMCQ,
			Quiz: &q,
		}}, nil
	}
	return []model.ChatTurn{{
		ID:   newTurnID(),
		TS:   r.now(),
		Role: "assistant",
		Kind: model.KindMsg,
		Text: fmt.Sprintf("Generation failed: %v", err),
	}}, nil
}
