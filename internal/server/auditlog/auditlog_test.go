// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package auditlog

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-dev/sync-core/internal/logger"
)

func TestAuditLog_Append(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	log := NewLog(db, logger.Nop())

	userID := int64(7)
	mock.ExpectExec("INSERT INTO audit_log").
		WithArgs(&userID, EventDocumentAccessDenied, "uuid=doc-1").
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = log.Append(context.Background(), &userID, EventDocumentAccessDenied, "uuid=doc-1")
	require.NoError(t, err)
}

func TestAuditLog_Append_NilUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	log := NewLog(db, logger.Nop())

	mock.ExpectExec("INSERT INTO audit_log").
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = log.Append(context.Background(), nil, "rate_limit_rejected", "")
	require.NoError(t, err)
}
