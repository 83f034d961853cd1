package password

import "testing"

// SHA-256("admin"), base64. Matches what the pre-migration system stored.
const legacyAdminDigest = "jGl25bVBBBW96Qi9Te4V37Fnqchz/Eu4qB9vKrRIqRg="

func TestVerifyLegacy(t *testing.T) {
	if !VerifyLegacy(legacyAdminDigest, "admin") {
		t.Fatal("expected legacy digest to verify against its password")
	}
	if VerifyLegacy(legacyAdminDigest, "Admin") {
		t.Fatal("expected wrong password to fail")
	}
}

func TestVerifyLegacyRejectsBadInput(t *testing.T) {
	cases := []struct {
		name     string
		stored   string
		password string
	}{
		{"empty stored", "", "admin"},
		{"empty password", legacyAdminDigest, ""},
		{"invalid base64", "not;base64@@", "admin"},
		{"truncated digest", legacyAdminDigest[:12], "admin"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if VerifyLegacy(tc.stored, tc.password) {
				t.Fatal("expected verification to fail")
			}
		})
	}
}
