package generate

import (
	"encoding/json"
	"strings"

	"github.com/rcliao/tutor-engine/internal/model"
)

// SentinelQuestion marks a quiz whose model output could not be parsed.
const SentinelQuestion = "parse failed"

// ParseQuiz parses model output into a Quiz through a two-stage pipeline:
// strict JSON first, then a bounded first-to-last-brace extraction, then the
// deterministic sentinel carrying the raw text. It never fails.
func ParseQuiz(text string) model.Quiz {
	var q model.Quiz
	if err := json.Unmarshal([]byte(text), &q); err == nil && q.Question != "" {
		return normalizeQuiz(q)
	}

	if inner, ok := extractObject(text); ok {
		if err := json.Unmarshal([]byte(inner), &q); err == nil && q.Question != "" {
			return normalizeQuiz(q)
		}
	}

	return model.Quiz{
		Question:  SentinelQuestion,
		Options:   []string{},
		Answer:    "",
		Rationale: text,
	}
}

// IsSentinel reports whether q is the parse-failure sentinel.
func IsSentinel(q model.Quiz) bool {
	return q.Question == SentinelQuestion && len(q.Options) == 0 && q.Answer == ""
}

func normalizeQuiz(q model.Quiz) model.Quiz {
	if q.Options == nil {
		q.Options = []string{}
	}
	q.Answer = strings.ToUpper(strings.TrimSpace(q.Answer))
	if len(q.Answer) > 1 {
		q.Answer = q.Answer[:1]
	}
	return q
}

// extractObject returns the substring from the first '{' to the last '}',
// the best-effort recovery for JSON wrapped in prose or markdown fences.
func extractObject(text string) (string, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return text[start : end+1], true
}
