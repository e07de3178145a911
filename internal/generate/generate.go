// Package generate composes retrieved evidence and step modifiers into
// grounded generation requests, one function per tool.
package generate

import (
	"context"
	"strings"

	"github.com/rcliao/tutor-engine/internal/devlog"
	"github.com/rcliao/tutor-engine/internal/llm"
	"github.com/rcliao/tutor-engine/internal/model"
)

// Request carries everything a generator needs for one call. Constructed
// fresh per call, never persisted.
type Request struct {
	Topic        string
	Strictness   string
	Role         string
	Instruction  string
	ExtraContext string
	Evidence     string
}

// Character budgets for optional prompt sections.
const (
	extraContextBudget     = 1200
	quizExtraContextBudget = 800
	instructionBudget      = 400
	quizInstructionBudget  = 300
)

func truncate(s string, max int) string {
	s = strings.TrimSpace(s)
	if len(s) > max {
		return s[:max]
	}
	return s
}

// strictHint returns the lesson-material constraint for the given strictness.
// Anything other than "soft" is treated as strict.
func strictHint(strictness string) (hint, normalized string) {
	if strings.ToLower(strictness) == model.StrictnessSoft {
		return "Use the lesson material as a reference; you may elaborate freely to carry out your instructions, but never fabricate facts specific to the material.", model.StrictnessSoft
	}
	return "Base your output primarily on the lesson material. If the material is insufficient you may add brief supporting context, but nothing may conflict with the material; when the material is empty or irrelevant, say the evidence is insufficient.", model.StrictnessStrict
}

func roleLine(role string) string {
	switch role {
	case model.RoleIntroductory:
		return "Your role in the lesson is the introduction: assume this is the student's first contact with the topic.\n"
	case model.RoleComprehension:
		return "Your role in the lesson is the comprehension check: probe whether the student followed the preceding material.\n"
	case model.RoleSummary:
		return "Your role in the lesson is the summary: consolidate what was covered.\n"
	case model.RoleExplanatory:
		return "Your role in the lesson is the main explanation.\n"
	default:
		return ""
	}
}

// priorPart formats the blackboard-sourced context block, empty when there
// is none.
func priorPart(extra string, budget int) string {
	extra = truncate(extra, budget)
	if extra == "" {
		return ""
	}
	return "You may need to refer to what the previous teachers already covered:\n" + extra + "\n"
}

func instructionPart(instruction string, budget int) string {
	return truncate(instruction, budget)
}

// Answer generates a grounded explanation for the topic.
func Answer(ctx context.Context, client llm.Client, req Request, dev *devlog.Log) (string, error) {
	hint, normalized := strictHint(req.Strictness)

	var b strings.Builder
	b.WriteString("You are a tutoring teacher working together with several other teachers to help one student learn. ")
	b.WriteString("The topic you must teach this time is: " + req.Topic + ".\n")
	b.WriteString("You must stay strictly on this topic; do not answer more or less than it asks.\n")
	b.WriteString(roleLine(req.Role))
	if inst := instructionPart(req.Instruction, instructionBudget); inst != "" {
		b.WriteString("While teaching, follow the lesson planner's instruction: " + inst + ".\n")
	}
	b.WriteString(priorPart(req.ExtraContext, extraContextBudget))
	b.WriteString("You have lesson material. " + hint + "\n")
	b.WriteString("The lesson material is:\n" + req.Evidence + "\n")
	b.WriteString("You may begin.")

	prompt := b.String()
	dev.Set("prompt_answer", prompt)
	dev.Set("answer_strictness", normalized)

	out, err := client.Invoke(ctx, prompt)
	if err != nil {
		return "", err
	}
	dev.Set("raw_answer", out)
	return out, nil
}

// Quiz generates one single-choice question as structured data. Model output
// that cannot be parsed degrades to the deterministic sentinel; Quiz itself
// only fails when the model call fails.
func Quiz(ctx context.Context, client llm.Client, req Request, dev *devlog.Log) (model.Quiz, error) {
	hint, normalized := strictHint(req.Strictness)

	var b strings.Builder
	b.WriteString("You are a teacher writing single-choice questions, working together with several other teachers to help one student learn. ")
	b.WriteString("The topic you must write a question on this time is: " + req.Topic + ".\n")
	b.WriteString("You must write exactly one single-choice question strictly on this topic.\n")
	b.WriteString(roleLine(req.Role))
	if inst := instructionPart(req.Instruction, quizInstructionBudget); inst != "" {
		b.WriteString("While writing, follow the lesson planner's instruction: " + inst + ".\n")
	}
	b.WriteString(`Your reply must be JSON of the form: {"question":"...","options":["A. ...","B. ...","C. ...","D. ..."],"answer":"A","rationale":"..."}` + "\n")
	b.WriteString("In rationale, explain the question in one sentence and name the correct letter.\n")
	b.WriteString(priorPart(req.ExtraContext, quizExtraContextBudget))
	b.WriteString("You have lesson material. " + hint + "\n")
	b.WriteString("The lesson material is:\n" + req.Evidence + "\n")
	b.WriteString("You may begin.")

	prompt := b.String()
	dev.Set("prompt_mcq", prompt)
	dev.Set("mcq_strictness", normalized)

	text, err := client.Invoke(ctx, prompt)
	if err != nil {
		return model.Quiz{}, err
	}
	dev.Set("raw_mcq", text)
	return ParseQuiz(text), nil
}

const noCodeblockHint = `Important requirements:
- Do not use code block syntax (` + "```" + `) anywhere in the output.
- Write grammar productions, formulas, and similar notation as plain lines or list items, for example:
  - S -> bAb
  - A -> (B | a
rather than wrapping them in fenced code blocks.
`

// Card generates a compact markdown study card for the topic.
func Card(ctx context.Context, client llm.Client, req Request, dev *devlog.Log) (string, error) {
	return cardOrMap(ctx, client, req, dev, model.KindCard)
}

// Map generates a hierarchical markdown outline for the topic, at most four
// levels deep.
func Map(ctx context.Context, client llm.Client, req Request, dev *devlog.Log) (string, error) {
	return cardOrMap(ctx, client, req, dev, model.KindMindmap)
}

func cardOrMap(ctx context.Context, client llm.Client, req Request, dev *devlog.Log, kind string) (string, error) {
	hint, normalized := strictHint(req.Strictness)

	var b strings.Builder
	if kind == model.KindCard {
		b.WriteString("You are a teacher making study cards, working together with several other teachers to help one student learn. ")
		b.WriteString("Keep the card short and distilled: core definitions, formulas, steps, common mistakes. ")
		b.WriteString("Your output must be Markdown. ")
		b.WriteString("The topic of the study card this time is: " + req.Topic + ".\n")
	} else {
		b.WriteString("You are a teacher making mind maps, working together with several other teachers to help one student learn. ")
		b.WriteString("Your output must be a hierarchical Markdown outline, nested at most four levels deep. ")
		b.WriteString("The topic of the mind map this time is: " + req.Topic + ".\n")
	}
	b.WriteString("You must cover strictly this topic; write neither more nor less.\n")
	b.WriteString(roleLine(req.Role))
	if inst := instructionPart(req.Instruction, instructionBudget); inst != "" {
		b.WriteString("While working, follow the lesson planner's instruction: " + inst + ".\n")
	}
	b.WriteString(priorPart(req.ExtraContext, extraContextBudget))
	b.WriteString("You have lesson material. " + hint + "\n")
	b.WriteString("The lesson material is:\n" + req.Evidence + "\n")
	b.WriteString("You may begin.\n")
	b.WriteString(noCodeblockHint)

	prompt := b.String()
	dev.Set("prompt_"+kind, prompt)
	dev.Set(kind+"_strictness", normalized)

	out, err := client.Invoke(ctx, prompt)
	if err != nil {
		return "", err
	}
	dev.Set("raw_"+kind, out)
	return out, nil
}
