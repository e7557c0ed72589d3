package integrity

import (
	"crypto/sha256"
	"encoding/hex"
)

// Digest computes the content hash stored alongside every chat turn:
// sha256 over user_message ++ bot_response ++ timestamp, concatenated in
// that order with no separator, encoded as lowercase hex. Deterministic
// across processes, so any copy of a row can be re-verified independently.
func Digest(userMessage, botResponse, timestamp string) string {
	h := sha256.New()
	h.Write([]byte(userMessage))
	h.Write([]byte(botResponse))
	h.Write([]byte(timestamp))
	return hex.EncodeToString(h.Sum(nil))
}
