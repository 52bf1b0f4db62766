package game

import "fmt"

// ErrDuplicateConnection indicates a join for a connection ID that is
// already in the player list.
type ErrDuplicateConnection struct {
	ClientID string
}

func (e *ErrDuplicateConnection) Error() string {
	return fmt.Sprintf("connection %s already joined", e.ClientID)
}

func IsDuplicateConnection(err error) bool {
	_, ok := err.(*ErrDuplicateConnection)
	return ok
}

// ErrPlayerNotFound indicates an operation on a connection ID that is not
// in the player list, e.g. a submission resolving after a disconnect.
type ErrPlayerNotFound struct {
	ClientID string
}

func (e *ErrPlayerNotFound) Error() string {
	return fmt.Sprintf("player %s not found", e.ClientID)
}

func IsPlayerNotFound(err error) bool {
	_, ok := err.(*ErrPlayerNotFound)
	return ok
}
