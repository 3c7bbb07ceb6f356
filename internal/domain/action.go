package domain

// ActionType enumerates the feedback-edit variants the oracle may emit.
type ActionType string

const (
	ActionMove   ActionType = "move"
	ActionRemove ActionType = "remove"
	ActionNote   ActionType = "note"
)

// Action is one structured edit parsed from freeform feedback.
// Move and Remove locate the first story in FromSection whose headline
// contains HeadlineContains case-insensitively; Note carries a message only.
type Action struct {
	Type             ActionType `json:"action"`
	HeadlineContains string     `json:"headline_contains,omitempty"`
	FromSection      string     `json:"from_section,omitempty"`
	ToSection        string     `json:"to_section,omitempty"`
	Message          string     `json:"message,omitempty"`
}
