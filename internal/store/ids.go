package store

import "github.com/google/uuid"

// NewID returns a random UUIDv4. With 122 random bits the chance of any
// collision among a billion ids is below 1e-18.
func NewID() string {
	return uuid.NewString()
}
