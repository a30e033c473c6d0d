// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package syncmanager

import (
	"context"
	"fmt"
	"time"

	"github.com/inkwell-dev/sync-core/internal/apperr"
	"github.com/inkwell-dev/sync-core/internal/crdtmapper"
	"github.com/inkwell-dev/sync-core/internal/entrycodec"
	"github.com/inkwell-dev/sync-core/internal/keymanager"
	"github.com/inkwell-dev/sync-core/internal/logger"
	"github.com/inkwell-dev/sync-core/internal/syncclient"
	"github.com/inkwell-dev/sync-core/internal/syncqueue"
	"github.com/inkwell-dev/sync-core/models"
)

const waitForSyncTimeout = 10 * time.Second

// manager is the sole implementor of [Manager].
type manager struct {
	log *logger.Logger

	entries  EntryStore
	manifest ManifestFetcher
	keys     keymanager.KeyManager
	codec    entrycodec.Codec
	mapper   crdtmapper.Mapper
	client   syncclient.Client
	queue    syncqueue.SyncQueue

	userID    int64
	replicaID string

	openObservers map[int64]func()
}

// New constructs a [Manager]. userID is the authenticated user's server
// id (used for EncryptedEnvelopeV2's wrapped-key recipient check);
// replicaID identifies this device's writes in the CRDT's tie-break rule.
func New(
	log *logger.Logger,
	entries EntryStore,
	manifest ManifestFetcher,
	keys keymanager.KeyManager,
	codec entrycodec.Codec,
	mapper crdtmapper.Mapper,
	client syncclient.Client,
	queue syncqueue.SyncQueue,
	userID int64,
	replicaID string,
) Manager {
	return &manager{
		log:           log,
		entries:       entries,
		manifest:      manifest,
		keys:          keys,
		codec:         codec,
		mapper:        mapper,
		client:        client,
		queue:         queue,
		userID:        userID,
		replicaID:     replicaID,
		openObservers: make(map[int64]func()),
	}
}

func (m *manager) Start(ctx context.Context) {
	if _, err := m.keys.GetUEK(); err != nil {
		m.log.Warn().Err(err).Msg("syncmanager: starting without a UEK present; sync will fail until one is provisioned")
	}
	m.queue.Start(ctx, m.syncOne)
}

func (m *manager) Stop() {
	m.queue.Stop()
	m.client.DisconnectAll()
}

func (m *manager) uek() ([]byte, error) {
	rec, err := m.keys.GetUEK()
	if err != nil {
		return nil, err
	}
	return rec.UEK, nil
}

// syncOne is the SyncFunc handed to SyncQueue.Start: it performs the
// actual network write for one queued operation.
func (m *manager) syncOne(ctx context.Context, q models.QueueEntry) error {
	uek, err := m.uek()
	if err != nil {
		return apperr.New(apperr.AccessDenied, "syncmanager.syncOne", err)
	}

	switch q.Operation {
	case models.QueueOpDelete:
		return m.pushDelete(ctx, q.EntryUUID, uek)
	default:
		entry, ok, err := m.entries.GetByUUID(ctx, q.EntryUUID)
		if err != nil {
			return fmt.Errorf("load entry %s: %w", q.EntryUUID, err)
		}
		if !ok {
			// Entry was deleted locally after this op was queued; nothing
			// to push.
			return nil
		}
		return m.pushEntry(ctx, entry, uek)
	}
}

func (m *manager) pushEntry(ctx context.Context, entry models.Entry, uek []byte) error {
	envelope, err := m.codec.EncryptEntry(entry, m.userID, uek)
	if err != nil {
		return fmt.Errorf("encrypt entry %s: %w", entry.UUID, err)
	}

	handle, err := m.client.ConnectDocument(ctx, entry.UUID)
	if err != nil {
		return fmt.Errorf("connect document %s: %w", entry.UUID, err)
	}
	m.client.WaitForSync(ctx, entry.UUID, waitForSyncTimeout)

	m.mapper.EntryToCRDTEncrypted(handle.Document(), envelope, entry.CreatedAt, entry.UpdatedAt, m.replicaID)
	return nil
}

func (m *manager) pushDelete(ctx context.Context, uuid string, uek []byte) error {
	handle, err := m.client.ConnectDocument(ctx, uuid)
	if err != nil {
		return fmt.Errorf("connect document %s: %w", uuid, err)
	}
	m.client.WaitForSync(ctx, uuid, waitForSyncTimeout)
	m.mapper.MarkDeleted(handle.Document(), time.Now().UnixMilli(), m.replicaID)
	return nil
}

func (m *manager) PerformReconciliation(ctx context.Context) error {
	remote, err := m.manifest.FetchManifest(ctx)
	if err != nil {
		return fmt.Errorf("fetch manifest: %w", err)
	}
	local, err := m.entries.ListManifest(ctx)
	if err != nil {
		return fmt.Errorf("list local manifest: %w", err)
	}

	remoteByUUID := make(map[string]int64, len(remote))
	for _, r := range remote {
		remoteByUUID[r.UUID] = r.UpdatedAt
	}
	localByUUID := make(map[string]int64, len(local))
	for _, l := range local {
		localByUUID[l.UUID] = l.UpdatedAt
	}

	uek, err := m.uek()
	if err != nil {
		return apperr.New(apperr.AccessDenied, "syncmanager.PerformReconciliation", err)
	}

	for uuid, localUpdatedAt := range localByUUID {
		remoteUpdatedAt, onServer := remoteByUUID[uuid]
		switch {
		case !onServer:
			if err := m.reconcileOne(ctx, uuid, localUpdatedAt, uek, true); err != nil {
				m.log.Error().Err(err).Str("uuid", uuid).Msg("syncmanager: push-only reconciliation failed")
			}
		case localUpdatedAt > remoteUpdatedAt:
			if err := m.reconcileOne(ctx, uuid, localUpdatedAt, uek, true); err != nil {
				m.log.Error().Err(err).Str("uuid", uuid).Msg("syncmanager: push reconciliation failed")
			}
		case remoteUpdatedAt > localUpdatedAt:
			if err := m.reconcileOne(ctx, uuid, localUpdatedAt, uek, false); err != nil {
				m.log.Error().Err(err).Str("uuid", uuid).Msg("syncmanager: pull reconciliation failed")
			}
		default:
			// equal: no-op
		}
	}

	for uuid, remoteUpdatedAt := range remoteByUUID {
		if _, existsLocally := localByUUID[uuid]; !existsLocally {
			if err := m.pullAndApply(ctx, uuid, uek); err != nil {
				m.log.Error().Err(err).Str("uuid", uuid).Int64("updated_at", remoteUpdatedAt).Msg("syncmanager: pull-only reconciliation failed")
			}
		}
	}

	return nil
}

func (m *manager) reconcileOne(ctx context.Context, uuid string, _ int64, uek []byte, push bool) error {
	if push {
		entry, ok, err := m.entries.GetByUUID(ctx, uuid)
		if err != nil || !ok {
			return fmt.Errorf("load local entry %s for push: %w", uuid, err)
		}
		return m.pushEntry(ctx, entry, uek)
	}
	return m.pullAndApply(ctx, uuid, uek)
}

func (m *manager) pullAndApply(ctx context.Context, uuid string, uek []byte) error {
	handle, err := m.client.ConnectDocument(ctx, uuid)
	if err != nil {
		return fmt.Errorf("connect document %s: %w", uuid, err)
	}
	if !m.client.WaitForSync(ctx, uuid, waitForSyncTimeout) {
		return nil // non-fatal: caller proceeds with empty remote state (spec §5)
	}

	decoded, ok := m.mapper.CRDTToEncrypted(handle.Document())
	if !ok || decoded.Deleted {
		return nil
	}

	fields, err := m.codec.DecryptEntry(decoded.Envelope, m.userID, uek)
	if err != nil {
		return fmt.Errorf("decrypt entry %s: %w", uuid, err)
	}

	if err := m.entries.Upsert(ctx, fields, decoded.UpdatedAt); err != nil {
		return fmt.Errorf("persist pulled entry %s: %w", uuid, err)
	}
	return m.entries.MarkSynced(ctx, uuid, decoded.UpdatedAt)
}

func (m *manager) OpenEntry(ctx context.Context, entryID int64) error {
	entry, err := m.entries.AssignUUID(ctx, entryID)
	if err != nil {
		return fmt.Errorf("assign uuid to entry %d: %w", entryID, err)
	}

	uek, err := m.uek()
	if err != nil {
		return apperr.New(apperr.AccessDenied, "syncmanager.OpenEntry", err)
	}

	handle, err := m.client.ConnectDocument(ctx, entry.UUID)
	if err != nil {
		return fmt.Errorf("connect document %s: %w", entry.UUID, err)
	}
	m.client.WaitForSync(ctx, entry.UUID, waitForSyncTimeout)

	decoded, ok := m.mapper.CRDTToEncrypted(handle.Document())
	switch {
	case !ok:
		if err := m.pushEntry(ctx, entry, uek); err != nil {
			return err
		}
	case decoded.UpdatedAt > entry.UpdatedAt:
		if err := m.pullAndApply(ctx, entry.UUID, uek); err != nil {
			return err
		}
	case entry.UpdatedAt > decoded.UpdatedAt:
		if err := m.pushEntry(ctx, entry, uek); err != nil {
			return err
		}
	}

	unsubscribe := m.mapper.Observe(handle.Document(), func(decoded crdtmapper.DecodedDocument) {
		if decoded.Deleted {
			return
		}
		fields, err := m.codec.DecryptEntry(decoded.Envelope, m.userID, uek)
		if err != nil {
			m.log.Error().Err(err).Str("uuid", entry.UUID).Msg("syncmanager: failed to decrypt live remote update")
			return
		}
		if err := m.entries.Upsert(context.Background(), fields, decoded.UpdatedAt); err != nil {
			m.log.Error().Err(err).Str("uuid", entry.UUID).Msg("syncmanager: failed to apply live remote update")
		}
	})
	m.openObservers[entryID] = unsubscribe

	return nil
}

func (m *manager) CloseEntry(entryID int64) {
	if unsubscribe, ok := m.openObservers[entryID]; ok {
		unsubscribe()
		delete(m.openObservers, entryID)
	}

	entry, ok, err := m.entries.GetByID(context.Background(), entryID)
	if err != nil || !ok {
		return
	}
	m.client.DisconnectDocument(entry.UUID)
}

func (m *manager) EntryCreated(ctx context.Context, entry models.Entry) error {
	return m.queue.EnqueueCreate(ctx, entry.ID, entry.UUID, entry.UpdatedAt)
}

func (m *manager) EntryUpdated(ctx context.Context, entry models.Entry, changedFields map[string]any) error {
	m.queue.EnqueueUpdateDebounced(ctx, entry.ID, entry.UUID, changedFields, entry.UpdatedAt)
	return nil
}

func (m *manager) EntryDeleted(ctx context.Context, uuid string) error {
	return m.queue.EnqueueDelete(ctx, uuid, nil)
}
