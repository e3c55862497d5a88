// Package auth implements password hashing and token issuance for the Shelfline server.
package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Argon2id parameters. Tuned for an interactive login path on modest
// hardware; stored per hash, so they can be raised without invalidating
// existing credentials.
const (
	hashMemoryKiB  = 64 * 1024
	hashPasses     = 3
	hashThreads    = 4
	hashSaltBytes  = 16
	hashDigestSize = 32

	// Cap hashing input so oversized passwords cannot burn CPU and memory.
	maxPasswordLength = 1024
)

var b64 = base64.RawStdEncoding

// HashPassword derives an Argon2id digest of the password and returns it
// in PHC string format.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("password cannot be empty")
	}
	if len(password) > maxPasswordLength {
		return "", errors.New("password exceeds maximum length")
	}

	salt := make([]byte, hashSaltBytes)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	digest := argon2.IDKey([]byte(password), salt, hashPasses, hashMemoryKiB, hashThreads, hashDigestSize)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, hashMemoryKiB, hashPasses, hashThreads,
		b64.EncodeToString(salt), b64.EncodeToString(digest)), nil
}

// VerifyPassword checks a password against a stored PHC-format hash.
// Malformed hashes verify as false rather than leaking why.
func VerifyPassword(encodedHash, password string) (bool, error) {
	if len(password) > maxPasswordLength {
		return false, nil
	}

	salt, digest, memory, passes, threads, ok := parseHash(encodedHash)
	if !ok {
		return false, nil
	}

	//nolint:gosec // Digest length is bounded by the decoded hash field.
	candidate := argon2.IDKey([]byte(password), salt, passes, memory, threads, uint32(len(digest)))

	return subtle.ConstantTimeCompare(digest, candidate) == 1, nil
}

// parseHash splits a "$argon2id$v=..$m=..,t=..,p=..$salt$digest" string
// into its components.
func parseHash(encoded string) (salt, digest []byte, memory, passes uint32, threads uint8, ok bool) {
	fields := strings.Split(encoded, "$")
	if len(fields) != 6 || fields[1] != "argon2id" {
		return nil, nil, 0, 0, 0, false
	}

	var version int
	if _, err := fmt.Sscanf(fields[2], "v=%d", &version); err != nil || version != argon2.Version {
		return nil, nil, 0, 0, 0, false
	}
	if _, err := fmt.Sscanf(fields[3], "m=%d,t=%d,p=%d", &memory, &passes, &threads); err != nil {
		return nil, nil, 0, 0, 0, false
	}

	var err error
	if salt, err = b64.DecodeString(fields[4]); err != nil {
		return nil, nil, 0, 0, 0, false
	}
	if digest, err = b64.DecodeString(fields[5]); err != nil {
		return nil, nil, 0, 0, 0, false
	}

	return salt, digest, memory, passes, threads, true
}
