// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package assetstore implements the server half of the attachment pipeline
// (spec §6 REST — assets): persisting uploaded blob bytes to local disk and
// their metadata to the `assets` table, and serving both back out keyed by
// asset ID and owning user.
package assetstore

import (
	"context"
	"io"

	"github.com/inkwell-dev/sync-core/models"
)

// Asset is one stored attachment's full record, spanning the `assets`
// table's metadata columns and the encryption envelope fields carried on
// upload, if any.
type Asset struct {
	ID             string
	EntryUUID      string
	UserID         int64
	Filename       string
	MimeType       string
	SizeBytes      int64
	StoragePath    string
	IsEncrypted    bool
	WrappedDEK     string
	DEKNonce       string
	DEKAuthTag     string
	ContentNonce   string
	ContentAuthTag string
	CreatedAt      int64
}

// Store persists attachment bytes and metadata.
type Store interface {
	// Save writes content to disk under a fresh ID and records meta in the
	// "assets" table. meta.ID and meta.StoragePath are populated by Save
	// and need not be set by the caller.
	Save(ctx context.Context, meta Asset, content io.Reader) (Asset, error)

	// GetMetadata returns id's stored record, scoped to userID.
	GetMetadata(ctx context.Context, id string, userID int64) (Asset, bool, error)

	// Open returns a reader over id's stored bytes, scoped to userID. The
	// caller must close the returned reader.
	Open(ctx context.Context, id string, userID int64) (io.ReadCloser, Asset, bool, error)

	// Delete removes id's stored bytes and metadata, scoped to userID.
	// Returns found=false if no such asset exists for that user.
	Delete(ctx context.Context, id string, userID int64) (found bool, err error)
}

// ToMetadataDTO projects an Asset into the GET .../metadata response shape,
// resolving the byte-serving URL via urlFor.
func ToMetadataDTO(a Asset, urlFor func(id string) string) models.AssetMetadata {
	dto := models.AssetMetadata{
		ID:        a.ID,
		EntryID:   a.EntryUUID,
		Filename:  a.Filename,
		MimeType:  a.MimeType,
		Size:      a.SizeBytes,
		URL:       urlFor(a.ID),
		CreatedAt: a.CreatedAt,
		Encrypted: a.IsEncrypted,
	}
	if a.IsEncrypted {
		dto.Encryption = &models.AssetEncryptionInfo{
			WrappedDEK:     a.WrappedDEK,
			DEKNonce:       a.DEKNonce,
			DEKAuthTag:     a.DEKAuthTag,
			ContentNonce:   a.ContentNonce,
			ContentAuthTag: a.ContentAuthTag,
		}
	}
	return dto
}
