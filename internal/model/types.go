// Package model defines the core tutoring data types.
package model

// Passage is a retrievable unit of source text with provenance metadata.
// Passages are immutable once produced by ingestion.
type Passage struct {
	Content string `json:"content"`
	Source  string `json:"source"`
	Page    int    `json:"page,omitempty"`
	Slide   int    `json:"slide,omitempty"`
}

// Quiz is one generated single-choice question.
type Quiz struct {
	Question  string   `json:"question"`
	Options   []string `json:"options"`
	Answer    string   `json:"answer"`
	Rationale string   `json:"rationale"`
}

// ChatTurn is one persisted conversational turn. The engine produces these;
// the chat log owns them.
type ChatTurn struct {
	ID       string    `json:"id"`
	TS       int64     `json:"t"`
	Role     string    `json:"role"`
	Kind     string    `json:"kind"`
	Text     string    `json:"text,omitempty"`
	Quiz     *Quiz     `json:"quiz,omitempty"`
	Passages []Passage `json:"passages,omitempty"`
}

// WrongItem is a quiz question the learner answered incorrectly, tracked by
// the Leitner review scheduler. Box is 1..3; Last is the unix time of the
// most recent review decision.
type WrongItem struct {
	ID         string   `json:"id"`
	TS         int64    `json:"t"`
	Question   string   `json:"question"`
	Options    []string `json:"options,omitempty"`
	Answer     string   `json:"answer"`
	UserAnswer string   `json:"user_answer"`
	Rationale  string   `json:"rationale,omitempty"`
	Box        int      `json:"box"`
	Last       int64    `json:"last"`
}

// Turn kinds.
const (
	KindMsg     = "msg"
	KindAnswer  = "answer"
	KindMCQ     = "mcq"
	KindCard    = "card"
	KindMindmap = "mindmap"
)

// Generation tools.
const (
	ToolAnswer = "answer"
	ToolQuiz   = "quiz"
	ToolCard   = "card"
	ToolMap    = "map"
)

// Strictness levels.
const (
	StrictnessStrict = "strict"
	StrictnessSoft   = "soft"
)

// Step roles.
const (
	RoleIntroductory  = "introductory"
	RoleExplanatory   = "explanatory"
	RoleComprehension = "comprehension-check"
	RoleSummary       = "summary"
)

// Output formats.
const (
	FormatText       = "text"
	FormatStructured = "structured"
	FormatMarkdown   = "markdown"
)

// ValidTools are the allowed generation tools.
var ValidTools = map[string]bool{
	ToolAnswer: true,
	ToolQuiz:   true,
	ToolCard:   true,
	ToolMap:    true,
}

// ValidStrictness are the allowed strictness levels.
var ValidStrictness = map[string]bool{
	StrictnessStrict: true,
	StrictnessSoft:   true,
}

// ValidRoles are the allowed step roles.
var ValidRoles = map[string]bool{
	RoleIntroductory:  true,
	RoleExplanatory:   true,
	RoleComprehension: true,
	RoleSummary:       true,
}

// ValidFormats are the allowed output formats.
var ValidFormats = map[string]bool{
	FormatText:       true,
	FormatStructured: true,
	FormatMarkdown:   true,
}

// DefaultFormat returns the output format a tool produces when none is given.
func DefaultFormat(tool string) string {
	switch tool {
	case ToolQuiz:
		return FormatStructured
	case ToolCard, ToolMap:
		return FormatMarkdown
	default:
		return FormatText
	}
}
