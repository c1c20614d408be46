// README: Common identifier value object used across modules.
package types

import "github.com/google/uuid"

type ID string

func NewID() ID {
	return ID(uuid.NewString())
}

// Valid reports whether v is a well-formed UUID.
func (v ID) Valid() bool {
	_, err := uuid.Parse(string(v))
	return err == nil
}
