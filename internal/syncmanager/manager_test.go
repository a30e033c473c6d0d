package syncmanager

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/inkwell-dev/sync-core/internal/crdtdoc"
	"github.com/inkwell-dev/sync-core/internal/crdtmapper"
	"github.com/inkwell-dev/sync-core/internal/cryptoprimitives"
	"github.com/inkwell-dev/sync-core/internal/entrycodec"
	"github.com/inkwell-dev/sync-core/internal/keymanager"
	"github.com/inkwell-dev/sync-core/internal/logger"
	"github.com/inkwell-dev/sync-core/internal/syncclient"
	"github.com/inkwell-dev/sync-core/internal/syncqueue"
	"github.com/inkwell-dev/sync-core/models"
)

// --- fakes -----------------------------------------------------------

type fakeEntryStore struct {
	mu      sync.Mutex
	entries map[string]models.Entry
	byID    map[int64]string
}

func newFakeEntryStore() *fakeEntryStore {
	return &fakeEntryStore{entries: make(map[string]models.Entry), byID: make(map[int64]string)}
}

func (s *fakeEntryStore) put(e models.Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[e.UUID] = e
	s.byID[e.ID] = e.UUID
}

func (s *fakeEntryStore) GetByID(ctx context.Context, entryID int64) (models.Entry, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	uuid, ok := s.byID[entryID]
	if !ok {
		return models.Entry{}, false, nil
	}
	e, ok := s.entries[uuid]
	return e, ok, nil
}

func (s *fakeEntryStore) GetByUUID(ctx context.Context, uuid string) (models.Entry, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[uuid]
	return e, ok, nil
}

func (s *fakeEntryStore) ListManifest(ctx context.Context) ([]models.ManifestEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.ManifestEntry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, models.ManifestEntry{UUID: e.UUID, UpdatedAt: e.UpdatedAt})
	}
	return out, nil
}

func (s *fakeEntryStore) AssignUUID(ctx context.Context, entryID int64) (models.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	uuid := s.byID[entryID]
	return s.entries[uuid], nil
}

func (s *fakeEntryStore) Upsert(ctx context.Context, fields models.SyncableFields, serverUpdatedAt int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.entries[fields.UUID]
	fields.ApplyTo(&e)
	e.UUID = fields.UUID
	e.ServerUpdatedAt = serverUpdatedAt
	s.entries[fields.UUID] = e
	s.byID[e.ID] = e.UUID
	return nil
}

func (s *fakeEntryStore) MarkSynced(ctx context.Context, uuid string, serverUpdatedAt int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.entries[uuid]
	e.SyncStatus = models.SyncStatusSynced
	e.ServerUpdatedAt = serverUpdatedAt
	s.entries[uuid] = e
	return nil
}

type fakeManifest struct{ items []models.ManifestEntry }

func (f *fakeManifest) FetchManifest(ctx context.Context) ([]models.ManifestEntry, error) {
	return f.items, nil
}

type fakeHandle struct {
	uuid string
	doc  crdtdoc.Document
}

func (h *fakeHandle) UUID() string                     { return h.uuid }
func (h *fakeHandle) Document() crdtdoc.Document       { return h.doc }
func (h *fakeHandle) Status() syncclient.SessionStatus { return syncclient.StatusSynced }

type fakeClient struct {
	mu        sync.Mutex
	documents map[string]*fakeHandle
}

func newFakeClient() *fakeClient {
	return &fakeClient{documents: make(map[string]*fakeHandle)}
}

func (c *fakeClient) ConnectDocument(ctx context.Context, uuid string) (syncclient.DocHandle, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if h, ok := c.documents[uuid]; ok {
		return h, nil
	}
	h := &fakeHandle{uuid: uuid, doc: crdtdoc.New(uuid)}
	c.documents[uuid] = h
	return h, nil
}

func (c *fakeClient) WaitForSync(ctx context.Context, uuid string, timeout time.Duration) bool {
	return true
}

func (c *fakeClient) GetDocument(uuid string) (syncclient.DocHandle, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	h, ok := c.documents[uuid]
	return h, ok
}

func (c *fakeClient) DisconnectDocument(uuid string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.documents, uuid)
}

func (c *fakeClient) DisconnectAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.documents = make(map[string]*fakeHandle)
}

func (c *fakeClient) ResetAuthFailures() {}

// seed pre-populates a document as if the server already held this state.
func (c *fakeClient) seed(uuid string, doc crdtdoc.Document) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.documents[uuid] = &fakeHandle{uuid: uuid, doc: doc}
}

type fakeQueue struct {
	mu       sync.Mutex
	created  []string
	deleted  []string
	debounce []string
}

func (q *fakeQueue) EnqueueCreate(ctx context.Context, entryID int64, uuid string, entryUpdatedAt int64) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.created = append(q.created, uuid)
	return nil
}
func (q *fakeQueue) EnqueueUpdate(ctx context.Context, entryID int64, uuid string, payload map[string]any, entryUpdatedAt int64) error {
	return nil
}
func (q *fakeQueue) EnqueueUpdateDebounced(ctx context.Context, entryID int64, uuid string, payload map[string]any, entryUpdatedAt int64) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.debounce = append(q.debounce, uuid)
}
func (q *fakeQueue) EnqueueDelete(ctx context.Context, uuid string, entryID *int64) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.deleted = append(q.deleted, uuid)
	return nil
}
func (q *fakeQueue) GetNextBatch(ctx context.Context, limit int) ([]models.QueueEntry, error) {
	return nil, nil
}
func (q *fakeQueue) RetryFailed(ctx context.Context) error       { return nil }
func (q *fakeQueue) ClearCompleted(ctx context.Context) error    { return nil }
func (q *fakeQueue) GetStats(ctx context.Context) (models.QueueStats, error) {
	return models.QueueStats{}, nil
}
func (q *fakeQueue) Start(ctx context.Context, sync syncqueue.SyncFunc) {}
func (q *fakeQueue) Stop()                                              {}
func (q *fakeQueue) NotifyOnline()                                      {}

// --- tests -------------------------------------------------------------

func newTestManager(t *testing.T) (*manager, *fakeEntryStore, *fakeManifest, *fakeClient, *fakeQueue) {
	t.Helper()
	store := newFakeEntryStore()
	manifest := &fakeManifest{}
	keys := keymanager.New(cryptoprimitives.New(), keymanager.NewMemorySecretStore())
	_, uek, err := keys.CreateUEKForRegistration("correct horse battery staple")
	require.NoError(t, err)
	require.NoError(t, keys.StoreUEK(uek))

	client := newFakeClient()
	queue := &fakeQueue{}

	mgr := New(
		logger.Nop(),
		store,
		manifest,
		keys,
		entrycodec.New(cryptoprimitives.New()),
		crdtmapper.New(),
		client,
		queue,
		42,
		"replica-a",
	).(*manager)

	return mgr, store, manifest, client, queue
}

func TestPerformReconciliation_LocalOnlyPushes(t *testing.T) {
	mgr, store, _, client, _ := newTestManager(t)
	store.put(models.Entry{ID: 1, UUID: "local-only", Title: "mine", UpdatedAt: 100})

	require.NoError(t, mgr.PerformReconciliation(context.Background()))

	handle, ok := client.GetDocument("local-only")
	require.True(t, ok)
	decoded, ok := mgr.mapper.CRDTToEncrypted(handle.Document())
	require.True(t, ok)
	require.Equal(t, int64(100), decoded.UpdatedAt)
}

func TestPerformReconciliation_ServerOnlyPulls(t *testing.T) {
	mgr, store, manifest, client, _ := newTestManager(t)

	uek, err := mgr.uek()
	require.NoError(t, err)
	envelope, err := mgr.codec.EncryptEntry(models.Entry{UUID: "server-only", Title: "theirs", UpdatedAt: 200}, mgr.userID, uek)
	require.NoError(t, err)

	seedDoc := crdtdoc.New("server-only")
	mgr.mapper.EntryToCRDTEncrypted(seedDoc, envelope, 200, 200, "server")
	client.seed("server-only", seedDoc)
	manifest.items = []models.ManifestEntry{{UUID: "server-only", UpdatedAt: 200}}

	require.NoError(t, mgr.PerformReconciliation(context.Background()))

	e, ok, err := store.GetByUUID(context.Background(), "server-only")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "theirs", e.Title)
}

func TestPerformReconciliation_EqualTimestampsNoop(t *testing.T) {
	mgr, store, manifest, client, _ := newTestManager(t)
	store.put(models.Entry{ID: 1, UUID: "both", Title: "local", UpdatedAt: 100})
	manifest.items = []models.ManifestEntry{{UUID: "both", UpdatedAt: 100}}

	require.NoError(t, mgr.PerformReconciliation(context.Background()))
	_, ok := client.GetDocument("both")
	require.False(t, ok, "no push or pull should occur when timestamps match")
}

func TestOpenEntry_InstallsObserverAndCloseRemovesIt(t *testing.T) {
	mgr, store, _, client, _ := newTestManager(t)
	store.put(models.Entry{ID: 7, UUID: "open-me", Title: "draft", UpdatedAt: 50})

	require.NoError(t, mgr.OpenEntry(context.Background(), 7))
	_, ok := client.GetDocument("open-me")
	require.True(t, ok)
	require.Contains(t, mgr.openObservers, int64(7))

	mgr.CloseEntry(7)
	require.NotContains(t, mgr.openObservers, int64(7))
	_, ok = client.GetDocument("open-me")
	require.False(t, ok, "CloseEntry must disconnect the document session")
}

func TestEntryCreated_EnqueuesCreate(t *testing.T) {
	mgr, _, _, _, queue := newTestManager(t)
	require.NoError(t, mgr.EntryCreated(context.Background(), models.Entry{ID: 1, UUID: "x", UpdatedAt: 1}))
	require.Equal(t, []string{"x"}, queue.created)
}

func TestEntryDeleted_EnqueuesDelete(t *testing.T) {
	mgr, _, _, _, queue := newTestManager(t)
	require.NoError(t, mgr.EntryDeleted(context.Background(), "gone"))
	require.Equal(t, []string{"gone"}, queue.deleted)
}
