package plan

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/rcliao/tutor-engine/internal/devlog"
	"github.com/rcliao/tutor-engine/internal/llm"
	"github.com/rcliao/tutor-engine/internal/model"
	"github.com/rcliao/tutor-engine/internal/rewrite"
)

const buildPrompt = `You are the lesson planner of a study assistant. Several
teacher tools are available; you sequence them into a short lesson:
- answer: explains a topic in free text.
- quiz: writes single-choice questions (structured output). Supports n_questions (1-10).
- card: writes a compact study card in Markdown.
- map: writes a hierarchical mind-map outline in Markdown.

Design 1 to 6 ordered steps forming a coherent lesson arc, such as
introduce -> practice -> explain -> summarize. A step may save its output
under a short write_key, and later steps may list earlier write_keys in
read_keys to build on that output. read_keys may only name keys written by
earlier steps.

Return strictly JSON of the form:
{"steps":[
  {"id":1,"tool":"answer","topic":"...","instruction":"...","strictness":"strict","role":"introductory","write_key":"intro"},
  {"id":2,"tool":"quiz","topic":"...","instruction":"...","n_questions":2,"read_keys":["intro"]},
  {"id":3,"tool":"card","topic":"...","instruction":"...","read_keys":["intro"],"role":"summary"}
]}
Output nothing else.

The student's request is: %s`

// Build asks the model for a lesson plan for message and validates it.
// An unusable response degrades to a single answer step over the message;
// Build never returns an empty plan and never fails.
func Build(ctx context.Context, client llm.Client, message string, history []model.ChatTurn, dev *devlog.Log) Plan {
	request := rewrite.Rewrite(ctx, client, message, history, dev)

	prompt := strings.Replace(buildPrompt, "%s", request, 1)
	out, err := client.Invoke(ctx, prompt)
	if err != nil {
		dev.Setf("plan_error", "%v", err)
		return fallbackPlan(message)
	}
	dev.Set("plan_raw", out)

	raw, ok := parsePlan(out)
	if !ok {
		return fallbackPlan(message)
	}
	p := Normalize(raw, message)
	if len(p.Steps) == 0 {
		return fallbackPlan(message)
	}
	return p
}

// parsePlan runs the two-stage parse: strict JSON, then first-to-last-brace
// extraction.
func parsePlan(text string) (rawPlan, bool) {
	var rp rawPlan
	if err := json.Unmarshal([]byte(text), &rp); err == nil && len(rp.Steps) > 0 {
		return rp, true
	}
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return rawPlan{}, false
	}
	if err := json.Unmarshal([]byte(text[start:end+1]), &rp); err != nil || len(rp.Steps) == 0 {
		return rawPlan{}, false
	}
	return rp, true
}

// fallbackPlan is the degraded single-step plan used when the model response
// is unusable.
func fallbackPlan(message string) Plan {
	return Plan{Steps: []Step{{
		ID:           1,
		Tool:         model.ToolAnswer,
		Topic:        message,
		Instruction:  defaultInstruction(model.ToolAnswer),
		Strictness:   model.StrictnessStrict,
		Role:         defaultRole(model.ToolAnswer),
		OutputFormat: model.FormatText,
	}}}
}

// Normalize validates and repairs every candidate step. The key integrity
// rule: a read_key not produced by an earlier step's write_key is silently
// dropped, so no step can read a key that could not exist yet.
func Normalize(raw rawPlan, message string) Plan {
	steps := raw.Steps
	if len(steps) > MaxSteps {
		steps = steps[:MaxSteps]
	}

	written := make(map[string]bool)
	var out []Step
	for i, rs := range steps {
		s := Step{
			ID:           i + 1,
			Tool:         strings.ToLower(strings.TrimSpace(rs.Tool)),
			Topic:        strings.TrimSpace(rs.Topic),
			Instruction:  strings.TrimSpace(rs.Instruction),
			Strictness:   strings.ToLower(strings.TrimSpace(rs.Strictness)),
			Role:         strings.ToLower(strings.TrimSpace(rs.Role)),
			NQuestions:   rs.NQuestions,
			WriteKey:     strings.TrimSpace(rs.WriteKey),
			OutputFormat: strings.ToLower(strings.TrimSpace(rs.OutputFormat)),
			Extra:        rs.extra,
		}

		if !model.ValidTools[s.Tool] {
			s.Tool = model.ToolAnswer
		}
		if s.Topic == "" {
			s.Topic = message
		}
		if s.Instruction == "" {
			s.Instruction = defaultInstruction(s.Tool)
		}
		if !model.ValidStrictness[s.Strictness] {
			s.Strictness = model.StrictnessStrict
		}
		if s.Role != "" && !model.ValidRoles[s.Role] {
			s.Role = defaultRole(s.Tool)
		}
		if s.Tool == model.ToolQuiz {
			if s.NQuestions < 1 {
				s.NQuestions = 1
			} else if s.NQuestions > 10 {
				s.NQuestions = 10
			}
		} else {
			s.NQuestions = 0
		}
		if !model.ValidFormats[s.OutputFormat] {
			s.OutputFormat = model.DefaultFormat(s.Tool)
		}

		// Keep only read_keys already produced by an earlier step.
		for _, k := range rs.ReadKeys {
			k = strings.TrimSpace(k)
			if k != "" && written[k] {
				s.ReadKeys = append(s.ReadKeys, k)
			}
		}

		if s.WriteKey != "" {
			written[s.WriteKey] = true
		}
		out = append(out, s)
	}

	return Plan{Steps: out}
}
