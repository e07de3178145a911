// Package rewrite resolves coreference in follow-up questions so retrieval
// queries are self-contained.
package rewrite

import (
	"context"
	"strings"

	"github.com/rcliao/tutor-engine/internal/devlog"
	"github.com/rcliao/tutor-engine/internal/llm"
	"github.com/rcliao/tutor-engine/internal/model"
)

const prompt = `You are a query rewriting assistant.
If the current question contains references like "it", "this method", or
"those", use the most recent conversational turn to rewrite it into a single
self-contained, specific question.
If the current question is already clear on its own, output it verbatim.
Output only the final question text, with no explanation, prefix, or suffix.

[Most recent turn]
%s

[Current question]
%s`

// Rewrite returns a self-contained version of question. With no prior turn
// it returns the question unchanged without a model call. It never returns
// an empty string and never fails the caller: any error degrades to the
// original question.
func Rewrite(ctx context.Context, client llm.Client, question string, history []model.ChatTurn, dev *devlog.Log) string {
	lastTurn := buildLastTurn(history)
	if lastTurn == "" {
		return question
	}

	p := strings.Replace(prompt, "%s", lastTurn, 1)
	p = strings.Replace(p, "%s", question, 1)

	out, err := client.Invoke(ctx, p)
	if err != nil {
		dev.Setf("rewrite_error", "%v", err)
		return question
	}
	out = strings.TrimSpace(out)
	dev.Set("q_rewritten", out)
	if out == "" {
		return question
	}
	return out
}

// buildLastTurn extracts the most recent user and assistant texts from
// history, formatted for the rewrite prompt. Empty when no usable turn exists.
func buildLastTurn(history []model.ChatTurn) string {
	var userText, asstText string
	for i := len(history) - 1; i >= 0; i-- {
		rec := history[i]
		text := rec.Text
		if text == "" {
			continue
		}
		if rec.Role == "assistant" && asstText == "" {
			asstText = text
		} else if rec.Role == "user" && userText == "" {
			userText = text
		}
		if userText != "" && asstText != "" {
			break
		}
	}

	var lines []string
	if userText != "" {
		lines = append(lines, "User: "+userText)
	}
	if asstText != "" {
		lines = append(lines, "Assistant: "+asstText)
	}
	return strings.Join(lines, "\n")
}
