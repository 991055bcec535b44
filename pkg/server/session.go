package server

import (
	"crypto/rand"
	"encoding/hex"
)

// newSessionID returns a 128-bit random token binding a spawned craft to the
// connection that owns it.
func newSessionID() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b[:])
}
