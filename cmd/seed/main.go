package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/erpmodern/auth-service/config"
	"github.com/erpmodern/auth-service/pkg/password"
)

// legacyAdminDigest is base64(SHA-256("admin")), the pre-migration
// storage format. Logging in as legacy-admin/admin upgrades it in place.
const legacyAdminDigest = "jGl25bVBBBW96Qi9Te4V37Fnqchz/Eu4qB9vKrRIqRg="

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	hasher, err := password.NewHasher(cfg.PBKDF2Iterations)
	if err != nil {
		log.Fatalf("failed to init hasher: %v", err)
	}
	adminHash, err := hasher.Hash("admin")
	if err != nil {
		log.Fatalf("failed to hash admin password: %v", err)
	}

	upsert := `
		INSERT INTO users (username, password_hash, email, role, is_active)
		VALUES ($1, $2, $3, $4, true)
		ON CONFLICT (username) DO UPDATE SET
			password_hash = EXCLUDED.password_hash,
			role = EXCLUDED.role,
			is_active = true,
			failed_login_attempts = 0,
			locked_until = NULL,
			updated_at = now()
		RETURNING id
	`

	var adminID string
	if err := db.QueryRow(upsert, "admin", adminHash, "admin@local", "Admin").Scan(&adminID); err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}
	fmt.Printf("seeded user: id=%s username=admin password=admin\n", adminID)

	var legacyID string
	if err := db.QueryRow(upsert, "legacy-admin", legacyAdminDigest, "legacy-admin@local", "Admin").Scan(&legacyID); err != nil {
		log.Fatalf("failed to seed legacy user: %v", err)
	}
	fmt.Printf("seeded user: id=%s username=legacy-admin password=admin (legacy hash)\n", legacyID)
}
