// Package router decides which generation tool handles a user message, and
// with what retrieval topic.
package router

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/rcliao/tutor-engine/internal/devlog"
	"github.com/rcliao/tutor-engine/internal/llm"
	"github.com/rcliao/tutor-engine/internal/model"
)

// Marker commands select a tool without a model call.
var markerRes = map[string]*regexp.Regexp{
	model.ToolQuiz: regexp.MustCompile(`(?s)^.*?/quiz`),
	model.ToolCard: regexp.MustCompile(`(?s)^.*?/card`),
	model.ToolMap:  regexp.MustCompile(`(?s)^.*?/map`),
}

// Keyword phrases that unambiguously select a tool.
var keywordSets = map[string][]string{
	model.ToolQuiz: {"quiz me", "test me", "give me a question", "practice question"},
	model.ToolCard: {"study card", "flash card", "knowledge card"},
	model.ToolMap:  {"mind map", "mindmap", "concept map"},
}

// Detect applies the rule-based fast path. ok is false when no marker or
// keyword matches and the model should decide.
func Detect(message string) (tool, topic string, ok bool) {
	lower := strings.ToLower(message)

	for _, t := range []string{model.ToolQuiz, model.ToolCard, model.ToolMap} {
		marker := "/" + t
		if strings.Contains(lower, marker) {
			after := strings.TrimSpace(markerRes[t].ReplaceAllString(lower, ""))
			if after == "" {
				after = message
			}
			return t, after, true
		}
		for _, kw := range keywordSets[t] {
			if strings.Contains(lower, kw) {
				return t, message, true
			}
		}
	}
	return "", "", false
}

const routePrompt = `You are the router of a study assistant.
The user asks a question and you must choose the single best tool to handle it:
- answer: ordinary Q&A, suited to explanations, understanding, derivations.
- quiz: generate a single-choice question, suited to "test me", "give me some questions".
- card: generate a study card, suited to "condense this into key points", "make a card".
- map: generate a mind map, suited to "lay out the structure", "draw a mind map".

You only decide; you do not answer the content yourself.
Return strictly JSON of the form:
{"tool": "answer|quiz|card|map", "topic": "<retrieval topic string>"}
Output nothing else.

The user input is: %s
Decide the tool and give a suitable retrieval topic.`

type routeDecision struct {
	Tool  string `json:"tool"`
	Topic string `json:"topic"`
}

// Route picks the tool and retrieval topic for message. Rule markers bypass
// the model entirely; otherwise one model call decides. Routing never fails:
// unparseable or out-of-enum decisions fall back to answer over the original
// message.
func Route(ctx context.Context, client llm.Client, message string, dev *devlog.Log) (tool, topic string) {
	if t, tp, ok := Detect(message); ok {
		dev.Setf("route", "rule path: %s", t)
		return t, tp
	}

	prompt := strings.Replace(routePrompt, "%s", message, 1)
	out, err := client.Invoke(ctx, prompt)
	if err != nil {
		dev.Setf("route_error", "%v", err)
		return model.ToolAnswer, message
	}
	dev.Set("route_raw", out)

	var d routeDecision
	if err := json.Unmarshal([]byte(strings.TrimSpace(out)), &d); err != nil {
		// Models occasionally wrap the object in prose or fences.
		start := strings.Index(out, "{")
		end := strings.LastIndex(out, "}")
		if start < 0 || end <= start || json.Unmarshal([]byte(out[start:end+1]), &d) != nil {
			return model.ToolAnswer, message
		}
	}

	t := strings.ToLower(strings.TrimSpace(d.Tool))
	if !model.ValidTools[t] {
		return model.ToolAnswer, message
	}
	tp := strings.TrimSpace(d.Topic)
	if tp == "" {
		tp = message
	}
	dev.Setf("route", "model path: %s", t)
	return t, tp
}

// Plan-trigger phrases. A message containing any of these runs the multi-step
// lesson planner instead of a single tool call.
var planTriggers = []string{
	"/plan",
	"full review",
	"complete review",
	"comprehensive review",
	"study session",
	"set of exercises",
	"practice set",
}

// WantsPlan reports whether message should be handled by the multi-step
// lesson planner.
func WantsPlan(message string) bool {
	lower := strings.ToLower(message)
	for _, t := range planTriggers {
		if strings.Contains(lower, t) {
			return true
		}
	}
	return false
}
