package auth

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// EnsureAdmin provisions the env-configured admin account once. passHash is
// a bcrypt hash; an empty hash disables bootstrap.
func EnsureAdmin(ctx context.Context, db *sql.DB, username, passHash string) error {
	if username == "" || passHash == "" {
		return nil
	}
	var exists int
	err := db.QueryRowContext(ctx, `SELECT 1 FROM users WHERE username=$1`, username).Scan(&exists)
	if err == nil {
		return nil
	}
	if err != sql.ErrNoRows {
		return err
	}
	_, err = db.ExecContext(ctx,
		`INSERT INTO users (id,username,password_hash,role,created_at) VALUES ($1,$2,$3,'admin',$4)`,
		uuid.NewString(), username, passHash, time.Now().Unix())
	return err
}
