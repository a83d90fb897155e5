package domain

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

const nonceHintLen = 8

// ComputeCommitment binds an undisclosed bid to its content: the
// digest is SHA-256 over nonce followed by the serialized payload.
// The nonce hides low-entropy payloads from dictionary attacks.
func ComputeCommitment(payload, nonce string) string {
	digest := sha256.Sum256([]byte(nonce + payload))
	return hex.EncodeToString(digest[:])
}

// VerifyCommitment recomputes the digest from the revealed payload and
// nonce and compares it against the stored commitment in constant time.
func VerifyCommitment(commitment, payload, nonce string) bool {
	recomputed := ComputeCommitment(payload, nonce)
	return hmac.Equal([]byte(commitment), []byte(recomputed))
}

// NonceHint is the short prefix stored in clear so a bidder can tell
// their own anonymous submissions apart without revealing the nonce.
func NonceHint(nonce string) string {
	if len(nonce) <= nonceHintLen {
		return nonce
	}
	return nonce[:nonceHintLen]
}
