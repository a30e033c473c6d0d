package entrycodec

import (
	"bytes"
	"testing"

	"github.com/inkwell-dev/sync-core/internal/apperr"
	"github.com/inkwell-dev/sync-core/internal/cryptoprimitives"
	"github.com/inkwell-dev/sync-core/models"
	"github.com/stretchr/testify/require"
)

func testUEK(t *testing.T) []byte {
	t.Helper()
	uek, err := cryptoprimitives.New().GenerateDEK()
	require.NoError(t, err)
	return uek
}

func sampleEntry() models.Entry {
	return models.Entry{
		ID:        1,
		UUID:      "11111111-1111-1111-1111-111111111111",
		Type:      models.EntryTypeJournal,
		Title:     "hello",
		Blocks:    []models.Block{{ID: "b1", Type: "text", Content: []byte(`"hi"`)}},
		Tags:      []string{"life"},
		CreatedAt: 100,
		UpdatedAt: 100,
	}
}

func TestEncryptEntry_DecryptEntry_RoundTrip(t *testing.T) {
	codec := New(cryptoprimitives.New())
	uek := testUEK(t)
	entry := sampleEntry()

	envelope, err := codec.EncryptEntry(entry, 42, uek)
	require.NoError(t, err)
	require.Equal(t, int64(42), envelope.WrappedKey.UserID)
	require.Equal(t, models.EnvelopeVersion2, envelope.Version)

	fields, err := codec.DecryptEntry(envelope, 42, uek)
	require.NoError(t, err)
	require.Equal(t, models.FromEntry(entry), fields)
}

func TestDecryptEntry_WrongUserIsAccessDenied(t *testing.T) {
	codec := New(cryptoprimitives.New())
	uek := testUEK(t)

	envelope, err := codec.EncryptEntry(sampleEntry(), 42, uek)
	require.NoError(t, err)

	_, err = codec.DecryptEntry(envelope, 99, uek)
	require.Error(t, err)
	require.True(t, apperr.Is(err, apperr.AccessDenied))
}

func TestDecryptEntry_WrongUEKIsCorruption(t *testing.T) {
	codec := New(cryptoprimitives.New())
	uek := testUEK(t)
	otherUEK := testUEK(t)

	envelope, err := codec.EncryptEntry(sampleEntry(), 42, uek)
	require.NoError(t, err)

	_, err = codec.DecryptEntry(envelope, 42, otherUEK)
	require.Error(t, err)
	require.True(t, apperr.Is(err, apperr.Corruption))
}

func TestEncryptEntry_SuccessiveCallsProduceDistinctCiphertext(t *testing.T) {
	codec := New(cryptoprimitives.New())
	uek := testUEK(t)
	entry := sampleEntry()

	env1, err := codec.EncryptEntry(entry, 42, uek)
	require.NoError(t, err)
	env2, err := codec.EncryptEntry(entry, 42, uek)
	require.NoError(t, err)

	require.NotEqual(t, env1.Ciphertext, env2.Ciphertext)
	require.NotEqual(t, env1.Nonce, env2.Nonce)
	require.False(t, bytes.Equal([]byte(env1.WrappedKey.WrappedDEK), []byte(env2.WrappedKey.WrappedDEK)))
}
