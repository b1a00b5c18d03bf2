package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/authwave/apiserver/types"
)

// attributeColumns maps update attribute names to their columns. Column
// names are quoted in generated SQL so reserved words such as "name"
// stay valid identifiers.
var attributeColumns = map[string]string{
	"name":            "name",
	"phone":           "phone",
	"address":         "address",
	"occupation":      "occupation",
	"profileImageUrl": "profile_image_url",
}

// PostgresStore persists user records in a Postgres users table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func scanUser(row *sql.Row) (types.User, error) {
	var user types.User
	err := row.Scan(
		&user.Email,
		&user.Name,
		&user.Phone,
		&user.Address,
		&user.Occupation,
		&user.PasswordHash,
		&user.ProfileImageURL,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.User{}, ErrNotFound
		}
		return types.User{}, err
	}
	return user, nil
}

// GetByEmail fetches a user record, or ErrNotFound.
func (s *PostgresStore) GetByEmail(ctx context.Context, email string) (types.User, error) {
	const query = `
		SELECT email, "name", phone, address, occupation, password_hash, profile_image_url
		FROM users
		WHERE email = $1`
	return scanUser(s.db.QueryRowContext(ctx, query, email))
}

// Create inserts the record atomically; a conflicting email leaves the
// existing row untouched and returns ErrAlreadyExists.
func (s *PostgresStore) Create(ctx context.Context, user types.User) error {
	const query = `
		INSERT INTO users (email, "name", phone, address, occupation, password_hash, profile_image_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (email) DO NOTHING`
	result, err := s.db.ExecContext(
		ctx,
		query,
		user.Email,
		user.Name,
		user.Phone,
		user.Address,
		user.Occupation,
		user.PasswordHash,
		user.ProfileImageURL,
	)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrAlreadyExists
	}
	return nil
}

// UpdateFields updates exactly the provided columns and reads back the
// full row.
func (s *PostgresStore) UpdateFields(ctx context.Context, email string, update types.UserUpdate) (types.User, error) {
	fields := update.Fields()
	if len(fields) == 0 {
		return s.GetByEmail(ctx, email)
	}

	assignments, args := buildSetClause(fields)
	args = append(args, email)

	query := fmt.Sprintf(`
		UPDATE users
		SET %s
		WHERE email = $%d
		RETURNING email, "name", phone, address, occupation, password_hash, profile_image_url`,
		strings.Join(assignments, ", "), len(args))

	return scanUser(s.db.QueryRowContext(ctx, query, args...))
}

// buildSetClause renders the SET assignments for the provided fields in
// a stable order, with quoted column identifiers.
func buildSetClause(fields map[string]string) ([]string, []any) {
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	assignments := make([]string, 0, len(keys))
	args := make([]any, 0, len(keys))
	for i, key := range keys {
		assignments = append(assignments, fmt.Sprintf(`%q = $%d`, attributeColumns[key], i+1))
		args = append(args, fields[key])
	}
	return assignments, args
}
