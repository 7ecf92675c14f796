package access

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
)

// CodeLength is the length of generated access tokens and passwords.
const CodeLength = 12

// codeAlphabet leaves out characters that are easy to confuse when typed by
// hand (0/O, 1/I). Its length divides 256 so byte-mod sampling is uniform.
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateCode returns a random code of n characters from codeAlphabet.
func GenerateCode(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	for i, b := range buf {
		buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return string(buf), nil
}

// HashPassword returns the lowercase hex SHA-256 digest of password.
// It is unsalted, so equal passwords hash equally.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// passwordMatches compares the digest of password with storedHash in constant time.
func passwordMatches(password, storedHash string) bool {
	return subtle.ConstantTimeCompare([]byte(HashPassword(password)), []byte(storedHash)) == 1
}
