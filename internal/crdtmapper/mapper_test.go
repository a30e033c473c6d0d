package crdtmapper

import (
	"testing"
	"time"

	"github.com/inkwell-dev/sync-core/internal/crdtdoc"
	"github.com/inkwell-dev/sync-core/models"
	"github.com/stretchr/testify/require"
)

func sampleEnvelope() models.EncryptedEnvelopeV2 {
	return models.EncryptedEnvelopeV2{
		Ciphertext: "Y2lwaGVy",
		Nonce:      "bm9uY2U=",
		AuthTag:    "dGFn",
		WrappedKey: models.WrappedKey{
			UserID:     42,
			WrappedDEK: "d2Rlaw==",
			DEKNonce:   "ZG5vbmNl",
			DEKAuthTag: "ZHRhZw==",
		},
		Version: models.EnvelopeVersion2,
	}
}

func TestEntryToCRDTEncrypted_CRDTToEncrypted_RoundTrip(t *testing.T) {
	m := New()
	doc := crdtdoc.New("u1")
	envelope := sampleEnvelope()

	m.EntryToCRDTEncrypted(doc, envelope, 100, 100, "replicaA")

	decoded, ok := m.CRDTToEncrypted(doc)
	require.True(t, ok)
	require.Equal(t, envelope, decoded.Envelope)
	require.Equal(t, int64(100), decoded.CreatedAt)
	require.Equal(t, int64(100), decoded.UpdatedAt)
	require.False(t, decoded.Deleted)
}

func TestCRDTToEncrypted_EmptyDocument(t *testing.T) {
	m := New()
	doc := crdtdoc.New("u1")

	_, ok := m.CRDTToEncrypted(doc)
	require.False(t, ok)
}

func TestMarkDeleted_BumpsUpdatedAt(t *testing.T) {
	m := New()
	doc := crdtdoc.New("u1")
	m.EntryToCRDTEncrypted(doc, sampleEnvelope(), 100, 100, "replicaA")

	m.MarkDeleted(doc, 200, "replicaA")

	decoded, ok := m.CRDTToEncrypted(doc)
	require.True(t, ok)
	require.True(t, decoded.Deleted)
	require.Equal(t, int64(200), decoded.UpdatedAt)
}

func TestEntryToCRDTEncrypted_SurvivesEncodeDecodeRoundTrip(t *testing.T) {
	m := New()
	a := crdtdoc.New("u1")
	m.EntryToCRDTEncrypted(a, sampleEnvelope(), 100, 100, "replicaA")

	update, err := a.EncodeUpdate()
	require.NoError(t, err)

	b := crdtdoc.New("u1")
	_, err = b.ApplyUpdate(update)
	require.NoError(t, err)

	decoded, ok := m.CRDTToEncrypted(b)
	require.True(t, ok)
	require.Equal(t, sampleEnvelope(), decoded.Envelope)
}

func TestObserve_FiresOnMutation(t *testing.T) {
	m := New()
	doc := crdtdoc.New("u1")

	received := make(chan DecodedDocument, 1)
	unsubscribe := m.Observe(doc, func(d DecodedDocument) {
		received <- d
	})
	defer unsubscribe()

	m.EntryToCRDTEncrypted(doc, sampleEnvelope(), 100, 100, "replicaA")

	select {
	case d := <-received:
		require.Equal(t, sampleEnvelope(), d.Envelope)
	case <-time.After(time.Second):
		t.Fatal("observer did not fire")
	}
}
