// Package password implements salted password hashing and verification.
//
// Hashes are stored as "<salt>:<hexdigest>": a fresh random salt joined
// with the hex-encoded argon2id digest of the salted password. The salt
// is carried inside the stored value, so verification needs nothing but
// the candidate password and the stored string.
package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// saltLength is the number of random salt bytes generated per hash.
const saltLength = 16

// argon2id parameters.
const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32
)

// Hash derives a salted hash for the given password. Repeated calls for
// the same password yield different results because the salt is random.
func Hash(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	saltHex := hex.EncodeToString(salt)
	return saltHex + ":" + digest(password, saltHex), nil
}

// Verify reports whether password matches the stored hash. A malformed
// stored value (missing the ":" separator) never matches.
func Verify(password, stored string) bool {
	saltHex, wantHex, ok := strings.Cut(stored, ":")
	if !ok {
		return false
	}
	got := digest(password, saltHex)
	return subtle.ConstantTimeCompare([]byte(got), []byte(wantHex)) == 1
}

// digest computes the hex-encoded argon2id digest of password under the
// text-encoded salt.
func digest(password, saltHex string) string {
	key := argon2.IDKey([]byte(password), []byte(saltHex), argonTime, argonMemory, argonThreads, argonKeyLen)
	return hex.EncodeToString(key)
}
