// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package assetpipeline queues, encrypts, and transfers entry attachments
// (spec §4.8): a single-consumer upload worker gated on network type and
// file size, a matching download path, and a bounded retry schedule.
package assetpipeline

//go:generate mockgen -source=interfaces.go -destination=../mock/assetpipeline_mock.go -package=mock

import (
	"context"

	"github.com/inkwell-dev/sync-core/models"
)

// Store is the persistence boundary for the upload queue. A SQLite-backed
// implementation lives in internal/store; tests use an in-memory one.
type Store interface {
	Insert(ctx context.Context, upload models.AssetUpload) (int64, error)
	Update(ctx context.Context, upload models.AssetUpload) error
	NextPending(ctx context.Context, limit int) ([]models.AssetUpload, error)
}

// FileReader abstracts local filesystem reads so uploads can be tested
// without touching disk.
type FileReader interface {
	// ReadFile returns the full contents of path.
	ReadFile(path string) ([]byte, error)
}

// Pipeline is the sole implementor of the AssetPipeline contract.
type Pipeline interface {
	// Enqueue persists a pending upload row for a local file attached to
	// entryID.
	Enqueue(ctx context.Context, entryID int64, localPath string, fileSize int64) error

	// Start launches the single worker loop that drains pending uploads
	// subject to the WiFi gate. Returns immediately.
	Start(ctx context.Context)

	// Stop halts the worker loop.
	Stop()

	// Download fetches assetID's content and writes plaintext bytes to
	// destPath, decrypting first if the asset is encrypted.
	Download(ctx context.Context, assetID string, destPath string) error
}
