package password

import (
	"strconv"
	"strings"
	"testing"
)

func testHasher(t *testing.T) *Hasher {
	t.Helper()
	h, err := NewHasher(DefaultIterations)
	if err != nil {
		t.Fatalf("NewHasher error: %v", err)
	}
	return h
}

func TestHashAndVerify(t *testing.T) {
	h := testHasher(t)

	encoded, err := h.Hash("S3cure-Passw0rd!")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}

	if !strings.HasPrefix(encoded, "pbkdf2$"+strconv.Itoa(DefaultIterations)+"$") {
		t.Fatalf("unexpected encoding prefix: %s", encoded)
	}

	if !h.Verify(encoded, "S3cure-Passw0rd!") {
		t.Fatal("expected verification to succeed")
	}
}

func TestVerifyWrongPassword(t *testing.T) {
	h := testHasher(t)

	encoded, err := h.Hash("correct-password")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}

	if h.Verify(encoded, "wrong-password") {
		t.Fatal("expected wrong password verification to fail")
	}
}

func TestHashIsSalted(t *testing.T) {
	h := testHasher(t)

	first, err := h.Hash("same-password")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	second, err := h.Hash("same-password")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}

	if first == second {
		t.Fatal("two hashes of the same password must differ")
	}
	if !h.Verify(first, "same-password") || !h.Verify(second, "same-password") {
		t.Fatal("both salted hashes must verify against the original password")
	}
}

func TestVerifyUsesEmbeddedIterations(t *testing.T) {
	slow, err := NewHasher(50_000)
	if err != nil {
		t.Fatalf("NewHasher error: %v", err)
	}
	encoded, err := slow.Hash("migrating-password")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}

	// A hasher configured with a higher baseline must still verify hashes
	// derived with the older, embedded iteration count.
	if !testHasher(t).Verify(encoded, "migrating-password") {
		t.Fatal("expected verification with embedded parameters to succeed")
	}
}

func TestVerifyMalformed(t *testing.T) {
	h := testHasher(t)

	cases := []struct {
		name    string
		encoded string
	}{
		{"empty", ""},
		{"wrong tag", "argon2$210000$c2FsdA==$ZGlnZXN0"},
		{"missing fields", "pbkdf2$210000$c2FsdA=="},
		{"non numeric iterations", "pbkdf2$lots$c2FsdA==$ZGlnZXN0"},
		{"negative iterations", "pbkdf2$-1$c2FsdA==$ZGlnZXN0"},
		{"bad salt encoding", "pbkdf2$210000$not-base64!$ZGlnZXN0"},
		{"bad digest encoding", "pbkdf2$210000$c2FsdA==$not-base64!"},
		{"empty digest", "pbkdf2$210000$c2FsdA==$"},
		{"bare legacy digest", "X7v5ZDUCGeDI8ywDFROh2hWBjQC2sMKwxKjUhUxHrKk="},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if h.Verify(tc.encoded, "anything") {
				t.Fatalf("malformed hash %q must verify false", tc.encoded)
			}
		})
	}
}

func TestNewHasherRejectsWeakIterations(t *testing.T) {
	if _, err := NewHasher(1000); err == nil {
		t.Fatal("expected error for iteration count below the floor")
	}
}

func TestDetectFormat(t *testing.T) {
	h := testHasher(t)

	encoded, err := h.Hash("whatever")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}

	if DetectFormat(encoded) != FormatCurrent {
		t.Fatal("expected current format for pbkdf2 encoding")
	}
	if DetectFormat("PBKDF2$210000$c2FsdA==$ZGlnZXN0") != FormatCurrent {
		t.Fatal("format tag match must be case-insensitive")
	}
	if DetectFormat("X7v5ZDUCGeDI8ywDFROh2hWBjQC2sMKwxKjUhUxHrKk=") != FormatLegacy {
		t.Fatal("expected legacy format for a bare digest")
	}
	if DetectFormat("pbkdf2") != FormatLegacy {
		t.Fatal("tag without delimiter is not the current format")
	}
}
