// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package assetstore

import "errors"

var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// statement fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingStatement is returned when executing a prepared DML
	// statement fails.
	ErrExecutingStatement = errors.New("failed to execute statement")

	// ErrScanningRow is returned when scanning column values from a single
	// row fails.
	ErrScanningRow = errors.New("failed to scan row")
)
