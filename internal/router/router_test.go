package router

import (
	"context"
	"errors"
	"testing"

	"github.com/rcliao/tutor-engine/internal/llm"
	"github.com/rcliao/tutor-engine/internal/model"
)

func TestDetect_Markers(t *testing.T) {
	tests := []struct {
		message   string
		wantTool  string
		wantTopic string
	}{
		{"/quiz pumping lemma", model.ToolQuiz, "pumping lemma"},
		{"please /card regular languages", model.ToolCard, "regular languages"},
		{"/map automata theory", model.ToolMap, "automata theory"},
		{"/quiz", model.ToolQuiz, "/quiz"},
	}
	for _, tt := range tests {
		tool, topic, ok := Detect(tt.message)
		if !ok {
			t.Errorf("Detect(%q): expected rule match", tt.message)
			continue
		}
		if tool != tt.wantTool {
			t.Errorf("Detect(%q) tool = %q, want %q", tt.message, tool, tt.wantTool)
		}
		if topic != tt.wantTopic {
			t.Errorf("Detect(%q) topic = %q, want %q", tt.message, topic, tt.wantTopic)
		}
	}
}

func TestDetect_Keywords(t *testing.T) {
	tool, topic, ok := Detect("Quiz me on closure properties")
	if !ok || tool != model.ToolQuiz {
		t.Fatalf("expected quiz keyword match, got tool=%q ok=%v", tool, ok)
	}
	// Keywords keep the full message as topic.
	if topic != "Quiz me on closure properties" {
		t.Errorf("expected full message as topic, got %q", topic)
	}
}

func TestDetect_NoMatch(t *testing.T) {
	if _, _, ok := Detect("what is a context-free grammar?"); ok {
		t.Error("plain question should not match the rule path")
	}
}

func TestRoute_RulePathSkipsModel(t *testing.T) {
	client := llm.Func(func(ctx context.Context, prompt string) (string, error) {
		t.Fatal("model should not be called on the rule path")
		return "", nil
	})
	tool, topic := Route(context.Background(), client, "/quiz DFA minimization", nil)
	if tool != model.ToolQuiz || topic != "dfa minimization" {
		t.Errorf("got tool=%q topic=%q", tool, topic)
	}
}

func TestRoute_ModelDecision(t *testing.T) {
	client := llm.Func(func(ctx context.Context, prompt string) (string, error) {
		return `{"tool": "card", "topic": "Turing machines"}`, nil
	})
	tool, topic := Route(context.Background(), client, "summarize Turing machines for me", nil)
	if tool != model.ToolCard {
		t.Errorf("expected card, got %q", tool)
	}
	if topic != "Turing machines" {
		t.Errorf("expected model topic, got %q", topic)
	}
}

func TestRoute_BraceFallback(t *testing.T) {
	client := llm.Func(func(ctx context.Context, prompt string) (string, error) {
		return "Sure! Here is my decision:\n{\"tool\": \"map\", \"topic\": \"parsing\"}\nHope that helps.", nil
	})
	tool, topic := Route(context.Background(), client, "how do the parsing topics relate?", nil)
	if tool != model.ToolMap || topic != "parsing" {
		t.Errorf("got tool=%q topic=%q", tool, topic)
	}
}

func TestRoute_NeverFails(t *testing.T) {
	msg := "tell me about NFAs"
	cases := []llm.Func{
		func(ctx context.Context, prompt string) (string, error) { return "", errors.New("model down") },
		func(ctx context.Context, prompt string) (string, error) { return "not json at all", nil },
		func(ctx context.Context, prompt string) (string, error) {
			return `{"tool": "essay", "topic": "NFAs"}`, nil
		},
	}
	for i, client := range cases {
		tool, topic := Route(context.Background(), client, msg, nil)
		if tool != model.ToolAnswer {
			t.Errorf("case %d: expected answer fallback, got %q", i, tool)
		}
		if topic != msg {
			t.Errorf("case %d: expected original message as topic, got %q", i, topic)
		}
	}
}

func TestRoute_EmptyModelTopic(t *testing.T) {
	client := llm.Func(func(ctx context.Context, prompt string) (string, error) {
		return `{"tool": "quiz", "topic": ""}`, nil
	})
	msg := "give me something to practice"
	tool, topic := Route(context.Background(), client, msg, nil)
	if tool != model.ToolQuiz {
		t.Errorf("expected quiz, got %q", tool)
	}
	if topic != msg {
		t.Errorf("empty decision topic should fall back to message, got %q", topic)
	}
}

func TestWantsPlan(t *testing.T) {
	tests := []struct {
		message string
		want    bool
	}{
		{"/plan chapter 3", true},
		{"I want a full review of automata", true},
		{"give me a Study Session on grammars", true},
		{"a practice set please", true},
		{"what is a regular language?", false},
		{"/quiz pumping lemma", false},
	}
	for _, tt := range tests {
		if got := WantsPlan(tt.message); got != tt.want {
			t.Errorf("WantsPlan(%q) = %v, want %v", tt.message, got, tt.want)
		}
	}
}
