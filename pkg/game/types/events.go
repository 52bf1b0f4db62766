package types

// JoinGameEvent is emitted when a client asks to join the session.
type JoinGameEvent struct {
	ClientID string
	Name     string
}

// SubmitWordEvent is emitted when a client submits a candidate word.
type SubmitWordEvent struct {
	ClientID string
	Word     string
	APIKey   string
}

// DisconnectPlayerEvent is emitted when a client connection closes.
type DisconnectPlayerEvent struct {
	ClientID string
}

// SeedPromptEvent installs a generated starting prompt.
type SeedPromptEvent struct {
	Prompt string
}
