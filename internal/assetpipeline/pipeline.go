// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package assetpipeline

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/inkwell-dev/sync-core/internal/apperr"
	"github.com/inkwell-dev/sync-core/internal/cryptoprimitives"
	"github.com/inkwell-dev/sync-core/internal/keymanager"
	"github.com/inkwell-dev/sync-core/internal/logger"
	"github.com/inkwell-dev/sync-core/internal/netmonitor"
	"github.com/inkwell-dev/sync-core/models"
)

const (
	batchSize    = 5
	pollInterval = 3 * time.Second
)

// TokenSource supplies the bearer token an upload/download request
// authenticates with. Implemented by tokenmanager.TokenManager.
type TokenSource interface {
	GetValidAccessToken(ctx context.Context) (string, error)
}

// pipeline is the sole implementor of [Pipeline].
type pipeline struct {
	log *logger.Logger

	store   Store
	files   FileReader
	monitor netmonitor.Monitor
	crypto  cryptoprimitives.Primitives
	keys    keymanager.KeyManager
	tokens  TokenSource
	http    *resty.Client

	wifiOnlyThresholdBytes int64

	cancel context.CancelFunc
	wg     sync.WaitGroup
	wake   chan struct{}
}

// New constructs a [Pipeline] against serverBaseURL (an http(s) REST base,
// not the WebSocket URL).
func New(
	log *logger.Logger,
	store Store,
	files FileReader,
	monitor netmonitor.Monitor,
	crypto cryptoprimitives.Primitives,
	keys keymanager.KeyManager,
	tokens TokenSource,
	serverBaseURL string,
) Pipeline {
	return &pipeline{
		log:                    log,
		store:                  store,
		files:                  files,
		monitor:                monitor,
		crypto:                 crypto,
		keys:                   keys,
		tokens:                 tokens,
		http:                   resty.New().SetBaseURL(serverBaseURL).SetTimeout(30 * time.Second),
		wifiOnlyThresholdBytes: models.WiFiOnlyThresholdBytes,
		wake:                   make(chan struct{}, 1),
	}
}

func (p *pipeline) Enqueue(ctx context.Context, entryID int64, localPath string, fileSize int64) error {
	now := time.Now().UnixMilli()
	_, err := p.store.Insert(ctx, models.AssetUpload{
		EntryID:   entryID,
		LocalPath: localPath,
		FileSize:  fileSize,
		Status:    models.AssetStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return fmt.Errorf("enqueue asset upload: %w", err)
	}
	p.notify()
	return nil
}

func (p *pipeline) notify() {
	select {
	case p.wake <- struct{}{}:
	default:
	}
}

func (p *pipeline) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		ticker := time.NewTicker(pollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				p.drainOnce(ctx)
			case <-p.wake:
				p.drainOnce(ctx)
			}
		}
	}()
}

func (p *pipeline) Stop() {
	if p.cancel != nil {
		p.cancel()
	}
	p.wg.Wait()
}

func (p *pipeline) drainOnce(ctx context.Context) {
	pending, err := p.store.NextPending(ctx, batchSize)
	if err != nil {
		p.log.Error().Err(err).Msg("assetpipeline: failed to load pending uploads")
		return
	}
	for _, upload := range pending {
		if upload.FileSize > p.wifiOnlyThresholdBytes && !p.monitor.IsWiFi() {
			continue // WiFi gate: leave pending, retried on the next tick
		}
		p.processOne(ctx, upload)
	}
}

func (p *pipeline) processOne(ctx context.Context, upload models.AssetUpload) {
	err := p.upload(ctx, &upload)
	now := time.Now().UnixMilli()
	upload.UpdatedAt = now

	if err == nil {
		upload.Status = models.AssetStatusUploaded
		upload.Error = nil
		if saveErr := p.store.Update(ctx, upload); saveErr != nil {
			p.log.Error().Err(saveErr).Int64("upload_id", upload.ID).Msg("assetpipeline: failed to persist uploaded status")
		}
		return
	}

	if apperr.Is(err, apperr.AccessDenied) || apperr.Is(err, apperr.Corruption) {
		upload.Status = models.AssetStatusFailed
	} else {
		upload.RetryCount++
		if upload.RetryCount >= models.MaxAssetRetries {
			upload.Status = models.AssetStatusFailed
		} else {
			upload.Status = models.AssetStatusPending
		}
	}
	msg := err.Error()
	upload.Error = &msg
	if saveErr := p.store.Update(ctx, upload); saveErr != nil {
		p.log.Error().Err(saveErr).Int64("upload_id", upload.ID).Msg("assetpipeline: failed to persist upload failure")
	}
}

func (p *pipeline) upload(ctx context.Context, upload *models.AssetUpload) error {
	content, err := p.files.ReadFile(upload.LocalPath)
	if err != nil {
		return fmt.Errorf("read local file %s: %w", upload.LocalPath, err)
	}

	token, err := p.tokens.GetValidAccessToken(ctx)
	if err != nil {
		return fmt.Errorf("get access token: %w", err)
	}

	filename := filepath.Base(upload.LocalPath)
	mimeType := mime.TypeByExtension(filepath.Ext(filename))
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	formData := map[string]string{
		"entryId":  fmt.Sprintf("%d", upload.EntryID),
		"filename": filename,
		"mimeType": mimeType,
	}

	payload := content
	if hasUEK, err := p.keys.HasUEK(); err == nil && hasUEK {
		uek, err := p.keys.GetUEK()
		if err != nil {
			return fmt.Errorf("load uek: %w", err)
		}

		dek, err := p.crypto.GenerateDEK()
		if err != nil {
			return fmt.Errorf("generate asset dek: %w", err)
		}
		ciphertext, contentNonce, contentTag, err := p.crypto.EncryptContent(content, dek)
		if err != nil {
			return fmt.Errorf("encrypt asset content: %w", err)
		}
		wrappedDEK, dekNonce, dekTag, err := p.crypto.WrapDEK(dek, uek.UEK)
		if err != nil {
			return fmt.Errorf("wrap asset dek: %w", err)
		}

		formData["wrappedDek"] = base64.StdEncoding.EncodeToString(wrappedDEK)
		formData["dekNonce"] = base64.StdEncoding.EncodeToString(dekNonce)
		formData["dekAuthTag"] = base64.StdEncoding.EncodeToString(dekTag)
		formData["contentNonce"] = base64.StdEncoding.EncodeToString(contentNonce)
		formData["contentAuthTag"] = base64.StdEncoding.EncodeToString(contentTag)
		payload = ciphertext
	}

	var result models.AssetUploadResponse
	resp, err := p.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetFileReader("file", filename, bytes.NewReader(payload)).
		SetFormData(formData).
		SetResult(&result).
		Post("/api/assets/upload")
	if err != nil {
		return apperr.New(apperr.Transient, "assetpipeline.upload", err)
	}
	if resp.StatusCode() == 401 {
		return apperr.New(apperr.AuthFailure, "assetpipeline.upload", fmt.Errorf("upload rejected: %s", resp.Status()))
	}
	if resp.StatusCode() == 403 {
		return apperr.New(apperr.AccessDenied, "assetpipeline.upload", fmt.Errorf("upload rejected: %s", resp.Status()))
	}
	if resp.IsError() {
		return apperr.New(apperr.Transient, "assetpipeline.upload", fmt.Errorf("upload failed: %s", resp.Status()))
	}

	upload.RemoteURL = &result.URL
	return nil
}

func (p *pipeline) Download(ctx context.Context, assetID string, destPath string) error {
	token, err := p.tokens.GetValidAccessToken(ctx)
	if err != nil {
		return fmt.Errorf("get access token: %w", err)
	}

	var meta models.AssetMetadata
	resp, err := p.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetResult(&meta).
		Get(fmt.Sprintf("/api/assets/%s/metadata", assetID))
	if err != nil {
		return apperr.New(apperr.Transient, "assetpipeline.Download", err)
	}
	if resp.IsError() {
		return apperr.New(apperr.Transient, "assetpipeline.Download", fmt.Errorf("fetch metadata failed: %s", resp.Status()))
	}

	raw, err := p.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		Get(meta.URL)
	if err != nil {
		return apperr.New(apperr.Transient, "assetpipeline.Download", err)
	}
	if raw.IsError() {
		return apperr.New(apperr.Transient, "assetpipeline.Download", fmt.Errorf("download failed: %s", raw.Status()))
	}

	plaintext := raw.Body()
	if meta.Encryption != nil {
		uek, err := p.keys.GetUEK()
		if err != nil {
			return fmt.Errorf("load uek: %w", err)
		}
		wrappedDEK, err := base64.StdEncoding.DecodeString(meta.Encryption.WrappedDEK)
		if err != nil {
			return apperr.New(apperr.Corruption, "assetpipeline.Download", err)
		}
		dekNonce, err := base64.StdEncoding.DecodeString(meta.Encryption.DEKNonce)
		if err != nil {
			return apperr.New(apperr.Corruption, "assetpipeline.Download", err)
		}
		dekTag, err := base64.StdEncoding.DecodeString(meta.Encryption.DEKAuthTag)
		if err != nil {
			return apperr.New(apperr.Corruption, "assetpipeline.Download", err)
		}
		contentNonce, err := base64.StdEncoding.DecodeString(meta.Encryption.ContentNonce)
		if err != nil {
			return apperr.New(apperr.Corruption, "assetpipeline.Download", err)
		}
		contentTag, err := base64.StdEncoding.DecodeString(meta.Encryption.ContentAuthTag)
		if err != nil {
			return apperr.New(apperr.Corruption, "assetpipeline.Download", err)
		}

		dek, err := p.crypto.UnwrapDEK(wrappedDEK, dekNonce, dekTag, uek.UEK)
		if err != nil {
			return err
		}
		plaintext, err = p.crypto.DecryptContent(raw.Body(), contentNonce, contentTag, dek)
		if err != nil {
			return err
		}
	}

	if err := os.WriteFile(destPath, plaintext, 0o600); err != nil {
		return fmt.Errorf("write downloaded asset to %s: %w", destPath, err)
	}
	return nil
}
