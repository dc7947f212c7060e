package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"math/big"
)

const (
	otpMin    = 100000
	otpMax    = 999999
	saltBytes = 16
	otpLength = 6
)

// GeneratePasscode returns a uniformly random 6-digit numeric passcode in
// the inclusive range 100000-999999.
func GeneratePasscode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(otpMax-otpMin+1))
	if err != nil {
		return "", fmt.Errorf("generate passcode: %w", err)
	}
	return fmt.Sprintf("%0*d", otpLength, n.Int64()+otpMin), nil
}

// GenerateSalt returns a random hex-encoded salt for passcode hashing.
func GenerateSalt() (string, error) {
	buf := make([]byte, saltBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// HashPasscode computes HMAC-SHA256(key=salt, message=passcode) hex-encoded.
// Only this digest is ever persisted; the plaintext passcode is not.
func HashPasscode(passcode, salt string) string {
	mac := hmac.New(sha256.New, []byte(salt))
	mac.Write([]byte(passcode))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyPasscode recomputes the salted digest for a candidate passcode and
// compares it to the stored hash in constant time.
func VerifyPasscode(candidate, salt, storedHash string) bool {
	computed := HashPasscode(candidate, salt)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(storedHash)) == 1
}
