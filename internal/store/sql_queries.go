package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/inkwell-dev/sync-core/internal/logger"
	"github.com/inkwell-dev/sync-core/models"
)

const (
	createUser = `
		INSERT INTO users (email, auth_hash)
		VALUES ($1, $2)
		RETURNING user_id, email, auth_hash, created_at;`

	findUserByLogin = `
		SELECT user_id, email, auth_hash, created_at
		FROM users
		WHERE email = $1;`

	findUserByID = `
		SELECT user_id, email, auth_hash, created_at
		FROM users
		WHERE user_id = $1;`
)

// psql is the squirrel statement builder for the server's PostgreSQL store,
// which uses $N placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// sqlite is the squirrel statement builder for the client's SQLite store,
// which uses ? placeholders.
var sqlite = sq.StatementBuilder.PlaceholderFormat(sq.Question)

// buildCreateUserQuery builds INSERT query with RETURNING clause
func buildCreateUserQuery(ctx context.Context, user models.User) (string, []any, error) {
	qb := psql.Insert("users").
		Columns("email", "auth_hash").
		Values(user.Email, user.AuthHash).
		Suffix("RETURNING user_id, email, auth_hash, created_at")

	query, args, err := qb.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("error building create user query: %w", err)
	}

	logger.FromContext(ctx).Debug().Str("query", query).Any("args", args).Msg("built create user query")
	return query, args, nil
}

// buildFindUserByLoginQuery builds SELECT query for finding user by email
func buildFindUserByLoginQuery(ctx context.Context, email string) (string, []any, error) {
	qb := psql.Select("user_id", "email", "auth_hash", "created_at").
		From("users").
		Where(sq.Eq{"email": email})

	query, args, err := qb.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("error building find user by login query: %w", err)
	}

	logger.FromContext(ctx).Debug().Str("query", query).Any("args", args).Msg("built find user by login query")
	return query, args, nil
}
