package merge

import (
	"crypto/rand"
	"encoding/hex"
)

// NewToken generates an unguessable merge-request token: mrg-<32 hex chars>.
// The token is the only credential handed to the client; account ids never
// leave the server during the handshake.
func NewToken() string {
	tokenBytes := make([]byte, 16)
	rand.Read(tokenBytes)
	return "mrg-" + hex.EncodeToString(tokenBytes)
}
