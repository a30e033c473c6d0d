// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package auditlog records security-relevant events the server observes
// while servicing sync traffic (spec §4.10 step 6, §6 "audit_log"). It is
// exercised exclusively by WSGateway's document-ownership checks: every
// accepted or denied document access is appended here.
package auditlog

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/inkwell-dev/sync-core/internal/logger"
)

// psql is the squirrel statement builder for this package's PostgreSQL
// queries against the "audit_log" table, which uses $N placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// ErrExecutingStatement is returned when appending an audit entry fails.
var ErrExecutingStatement = fmt.Errorf("failed to execute statement")

// Log appends security-relevant events to the audit trail.
type Log interface {
	// Append records event with the given free-form detail, attributed to
	// userID when the event is tied to an authenticated actor.
	Append(ctx context.Context, userID *int64, event, detail string) error
}

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type auditLog struct {
	db     querier
	logger *logger.Logger
}

// NewLog constructs a [Log] backed by the given PostgreSQL connection.
func NewLog(db querier, logger *logger.Logger) Log {
	logger.Debug().Msg("creating audit log")
	return &auditLog{db: db, logger: logger}
}

func (a *auditLog) Append(ctx context.Context, userID *int64, event, detail string) error {
	query, args, err := psql.Insert("audit_log").
		Columns("user_id", "event", "detail").
		Values(userID, event, detail).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building sql query: %w", err)
	}

	if _, err := a.db.ExecContext(ctx, query, args...); err != nil {
		a.logger.Err(err).Str("event", event).Msg("failed to append audit log entry")
		return fmt.Errorf("%w: %v", ErrExecutingStatement, err)
	}
	return nil
}

// Events recorded by WSGateway's document-ownership checks.
const (
	EventDocumentAccessGranted = "document_access_granted"
	EventDocumentAccessDenied  = "document_access_denied"
	EventDocumentCreated       = "document_created"
)
