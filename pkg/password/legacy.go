package password

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
)

// VerifyLegacy checks password against the deprecated hash format: a bare
// SHA-256 digest of the UTF-8 password, base64 encoded, no salt or
// iteration count. It exists only so accounts created before the PBKDF2
// rollout can still log in and be migrated; nothing in this package
// produces legacy hashes.
//
// Decoding failures verify as false. Comparison is constant time.
func VerifyLegacy(storedDigest, password string) bool {
	if storedDigest == "" || password == "" {
		return false
	}

	stored, err := base64.StdEncoding.DecodeString(storedDigest)
	if err != nil {
		return false
	}

	actual := sha256.Sum256([]byte(password))
	return subtle.ConstantTimeCompare(actual[:], stored) == 1
}
