package groupsession

import (
	"crypto/rand"
	"strings"
)

// codeAlphabet omits 0, O, I and 1 so codes read unambiguously when
// shouted across a training field.
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const codeLength = 8

// GenerateCode returns an 8-character join code from a cryptographically
// strong random source.
func GenerateCode() string {
	buf := make([]byte, codeLength)
	if _, err := rand.Read(buf); err != nil {
		panic("groupsession: crypto/rand unavailable: " + err.Error())
	}
	out := make([]byte, codeLength)
	for i, b := range buf {
		out[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return string(out)
}

// SanitizeCode uppercases the input and strips every character outside
// the code alphabet, truncating to 8 characters.
func SanitizeCode(code string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(code) {
		if strings.ContainsRune(codeAlphabet, r) {
			b.WriteRune(r)
			if b.Len() == codeLength {
				break
			}
		}
	}
	return b.String()
}

// ValidCodeFormat reports whether the code is exactly 8 characters of the
// allowed alphabet.
func ValidCodeFormat(code string) bool {
	if len(code) != codeLength {
		return false
	}
	for _, r := range code {
		if !strings.ContainsRune(codeAlphabet, r) {
			return false
		}
	}
	return true
}
