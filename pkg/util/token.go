package util

import (
	"crypto/rand"
	"encoding/hex"
)

// verificationTokenBytes is the entropy of a verification token.
// 32바이트(256비트)면 토큰 추측/열거는 계산상 불가능하다.
const verificationTokenBytes = 32

// GenerateVerificationToken creates a cryptographically secure random token.
func GenerateVerificationToken() (string, error) {
	bytes := make([]byte, verificationTokenBytes)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
