package postgres

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"invoport/internal/core/id"
	"invoport/pkg/logger"
)

// importUserEmail identifies the bootstrap user owning imported invoices.
const importUserEmail = "import@invoport.local"

// EnsureImportUser returns the id of the system user that imported
// invoices are attributed to, creating it on first run. The password is
// random and hashed; the account is not meant for interactive login.
func EnsureImportUser(ctx context.Context, pool *Pool) (id.ID, error) {
	var userID id.ID
	err := pool.QueryRow(ctx,
		`SELECT id FROM users WHERE email = $1`, importUserEmail).Scan(&userID)
	if err == nil {
		return userID, nil
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(id.New().String()), bcrypt.DefaultCost)
	if err != nil {
		return id.Nil(), fmt.Errorf("hash password: %w", err)
	}

	userID = id.New()
	_, err = pool.Exec(ctx, `
		INSERT INTO users (id, email, password_hash, name)
		VALUES ($1, $2, $3, 'Legacy Import')
		ON CONFLICT (email) DO NOTHING
	`, userID, importUserEmail, string(passwordHash))
	if err != nil {
		return id.Nil(), fmt.Errorf("create import user: %w", err)
	}

	// A concurrent bootstrap may have won the insert
	if err := pool.QueryRow(ctx,
		`SELECT id FROM users WHERE email = $1`, importUserEmail).Scan(&userID); err != nil {
		return id.Nil(), fmt.Errorf("load import user: %w", err)
	}

	logger.Info(ctx, "import user ensured", "email", importUserEmail)
	return userID, nil
}
