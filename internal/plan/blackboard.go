package plan

// Blackboard holds inter-step artifacts during one plan execution. Entries
// are kept as an append-ordered log with a map view for lookups, so the
// no-forward-reference invariant can be checked independently of map
// iteration order. Scoped to a single execution; never persisted.
type Blackboard struct {
	entries []BoardEntry
	byKey   map[string]int
}

// BoardEntry records one written artifact and the step that produced it.
type BoardEntry struct {
	Key    string
	Value  string
	StepID int
}

// NewBlackboard returns an empty blackboard.
func NewBlackboard() *Blackboard {
	return &Blackboard{byKey: make(map[string]int)}
}

// Write appends an artifact under key. Empty keys and empty values are
// ignored. A rewritten key keeps its log entry and updates the map view.
func (b *Blackboard) Write(key, value string, stepID int) {
	if key == "" || value == "" {
		return
	}
	b.entries = append(b.entries, BoardEntry{Key: key, Value: value, StepID: stepID})
	b.byKey[key] = len(b.entries) - 1
}

// Read returns the artifact stored under key.
func (b *Blackboard) Read(key string) (string, bool) {
	i, ok := b.byKey[key]
	if !ok {
		return "", false
	}
	return b.entries[i].Value, true
}

// Entries returns the append-ordered log.
func (b *Blackboard) Entries() []BoardEntry {
	return b.entries
}
