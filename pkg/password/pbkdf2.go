package password

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// Prefix tags hashes produced by the current format.
	Prefix = "pbkdf2"

	// DefaultIterations is the PBKDF2 baseline. Stored inside every hash,
	// so raising it later does not break verification of older hashes.
	DefaultIterations = 210_000

	minIterations = 10_000
	saltSize      = 16
	keySize       = 32
)

// Format identifies which of the two supported hash formats a stored
// value uses.
type Format int

const (
	FormatLegacy Format = iota
	FormatCurrent
)

// DetectFormat resolves the stored hash format once per verification call.
// Anything without the current-format tag is treated as legacy.
func DetectFormat(stored string) Format {
	if hasCurrentPrefix(stored) {
		return FormatCurrent
	}
	return FormatLegacy
}

func hasCurrentPrefix(stored string) bool {
	if len(stored) <= len(Prefix) {
		return false
	}
	return strings.EqualFold(stored[:len(Prefix)], Prefix) && stored[len(Prefix)] == '$'
}

// Hasher derives and verifies current-format password hashes
// (PBKDF2-SHA256, per-call random salt, embedded parameters).
// A Hasher is stateless and safe for concurrent use.
type Hasher struct {
	iterations int
}

func NewHasher(iterations int) (*Hasher, error) {
	if iterations < minIterations {
		return nil, fmt.Errorf("pbkdf2 iterations must be >= %d", minIterations)
	}
	return &Hasher{iterations: iterations}, nil
}

// Hash derives a salted PBKDF2-SHA256 digest of password and encodes it as
// pbkdf2$<iterations>$<base64 salt>$<base64 digest>.
func (h *Hasher) Hash(password string) (string, error) {
	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", err
	}

	digest := pbkdf2.Key([]byte(password), salt, h.iterations, keySize, sha256.New)

	return strings.Join([]string{
		Prefix,
		strconv.Itoa(h.iterations),
		base64.StdEncoding.EncodeToString(salt),
		base64.StdEncoding.EncodeToString(digest),
	}, "$"), nil
}

// Verify re-derives the digest from password using the parameters embedded
// in encoded and compares in constant time. Malformed stored values verify
// as false; this function never fails with an error.
func (h *Hasher) Verify(encoded, password string) bool {
	iterations, salt, expected, err := parseEncoded(encoded)
	if err != nil {
		return false
	}

	actual := pbkdf2.Key([]byte(password), salt, iterations, len(expected), sha256.New)
	return subtle.ConstantTimeCompare(actual, expected) == 1
}

func parseEncoded(encoded string) (int, []byte, []byte, error) {
	if !hasCurrentPrefix(encoded) {
		return 0, nil, nil, errors.New("missing format tag")
	}

	parts := strings.SplitN(encoded, "$", 4)
	if len(parts) != 4 {
		return 0, nil, nil, errors.New("wrong field count")
	}

	iterations, err := strconv.Atoi(parts[1])
	if err != nil || iterations <= 0 {
		return 0, nil, nil, errors.New("invalid iteration count")
	}

	salt, err := base64.StdEncoding.DecodeString(parts[2])
	if err != nil {
		return 0, nil, nil, errors.New("invalid salt encoding")
	}

	digest, err := base64.StdEncoding.DecodeString(parts[3])
	if err != nil || len(digest) == 0 {
		return 0, nil, nil, errors.New("invalid digest encoding")
	}

	return iterations, salt, digest, nil
}
