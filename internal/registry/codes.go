package registry

import (
	"crypto/rand"
	"encoding/hex"
)

const (
	roomCodeLength = 5
	hostPinLength  = 6
	tokenBytes     = 16
)

// codeAlphabet omits 0/O/1/I to keep codes easy to read off a screen
// and type on a phone.
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// generateCodeLocked produces a room code unique among live rooms.
// Caller holds r.mu.
func (r *Registry) generateCodeLocked() string {
	for {
		buf := make([]byte, roomCodeLength)
		if _, err := rand.Read(buf); err != nil {
			panic(err) // crypto/rand failure is unrecoverable
		}
		for i, b := range buf {
			buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
		}
		code := string(buf)
		if _, taken := r.rooms[code]; !taken {
			return code
		}
	}
}

// generatePin returns the numeric host re-authentication secret.
func generatePin() string {
	buf := make([]byte, hostPinLength)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	for i, b := range buf {
		buf[i] = '0' + b%10
	}
	return string(buf)
}

// generateToken returns an opaque player credential token.
func generateToken() string {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	return hex.EncodeToString(buf)
}
