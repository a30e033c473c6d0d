// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// AssetUploadStatus is the lifecycle state of an AssetUpload row.
type AssetUploadStatus string

const (
	AssetStatusPending   AssetUploadStatus = "pending"
	AssetStatusUploading AssetUploadStatus = "uploading"
	AssetStatusUploaded  AssetUploadStatus = "uploaded"
	AssetStatusFailed    AssetUploadStatus = "failed"
)

// AssetUpload is one durable row of the attachment pipeline's upload
// queue.
type AssetUpload struct {
	ID         int64             `json:"id"`
	EntryID    int64             `json:"entry_id"`
	LocalPath  string            `json:"local_path"`
	RemoteURL  *string           `json:"remote_url,omitempty"`
	FileSize   int64             `json:"file_size"`
	Status     AssetUploadStatus `json:"status"`
	Error      *string           `json:"error,omitempty"`
	RetryCount int               `json:"retry_count"`
	CreatedAt  int64             `json:"created_at"`
	UpdatedAt  int64             `json:"updated_at"`
}

// TableName returns the name of the database table associated with
// AssetUpload.
func (AssetUpload) TableName() string {
	return "asset_uploads"
}

// AssetRetryDelaysMS is the attachment pipeline's retry schedule (spec
// §4.8): three attempts, then AssetStatusFailed.
var AssetRetryDelaysMS = [3]int64{1_000, 5_000, 15_000}

// MaxAssetRetries is the attempt count after which an upload row is
// marked failed.
const MaxAssetRetries = 3

// WiFiOnlyThresholdBytes is the default size above which an attachment
// upload is gated behind a WiFi connection (spec §6 configuration).
const WiFiOnlyThresholdBytes = 5 * 1024 * 1024

// AssetMetadata is the shape returned by GET /api/assets/:id/metadata.
type AssetMetadata struct {
	ID         string               `json:"id"`
	EntryID    string               `json:"entryId"`
	Filename   string               `json:"filename"`
	MimeType   string               `json:"mimeType"`
	Size       int64                `json:"size"`
	URL        string               `json:"url"`
	CreatedAt  int64                `json:"createdAt"`
	Encrypted  bool                 `json:"isEncrypted,omitempty"`
	Encryption *AssetEncryptionInfo `json:"encryption,omitempty"`
}

// AssetEncryptionInfo carries the wrapped-DEK fields needed to decrypt an
// encrypted asset, mirroring the multipart fields accepted on upload.
type AssetEncryptionInfo struct {
	WrappedDEK     string `json:"wrappedDek"`
	DEKNonce       string `json:"dekNonce"`
	DEKAuthTag     string `json:"dekAuthTag"`
	ContentNonce   string `json:"contentNonce"`
	ContentAuthTag string `json:"contentAuthTag"`
}

// AssetUploadResponse is the shape returned by POST /api/assets/upload.
type AssetUploadResponse struct {
	ID        string `json:"id"`
	URL       string `json:"url"`
	Encrypted bool   `json:"isEncrypted,omitempty"`
}
