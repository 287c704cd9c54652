package common

import (
	"crypto/rand"
	"encoding/base64"
)

// MakeRandBase64String generates a base64-encoded string of size random bytes.
// The resulting string is longer than size (base64 expands by 4/3); callers
// that need a fixed entropy budget should pass the byte count, not the target
// string length.
//
// It returns an error if the random number generator fails.
func MakeRandBase64String(size int) (string, error) {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(b), nil
}
