package app

import "github.com/google/uuid"

// newSessionID returns a random UUIDv4 string.
func newSessionID() string { return uuid.NewString() }

// validSessionID reports whether id has the shape of a session id.
func validSessionID(id string) bool {
    u, err := uuid.Parse(id)
    return err == nil && u.Version() == 4
}
