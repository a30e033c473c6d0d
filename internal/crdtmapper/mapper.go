// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crdtmapper

import (
	"github.com/inkwell-dev/sync-core/internal/crdtdoc"
	"github.com/inkwell-dev/sync-core/models"
)

type mapper struct{}

// New constructs a [Mapper].
func New() Mapper {
	return &mapper{}
}

func (m *mapper) EntryToCRDTEncrypted(doc crdtdoc.Document, envelope models.EncryptedEnvelopeV2, createdAt, updatedAt int64, replicaID string) {
	doc.SetField(FieldCiphertext, envelope.Ciphertext, updatedAt, replicaID)
	doc.SetField(FieldNonce, envelope.Nonce, updatedAt, replicaID)
	doc.SetField(FieldAuthTag, envelope.AuthTag, updatedAt, replicaID)
	doc.SetField(FieldWrappedDEK, envelope.WrappedKey.WrappedDEK, updatedAt, replicaID)
	doc.SetField(FieldDEKNonce, envelope.WrappedKey.DEKNonce, updatedAt, replicaID)
	doc.SetField(FieldDEKAuthTag, envelope.WrappedKey.DEKAuthTag, updatedAt, replicaID)
	doc.SetField(FieldWrappedUser, envelope.WrappedKey.UserID, updatedAt, replicaID)
	doc.SetField(FieldEnvVersion, envelope.Version, updatedAt, replicaID)
	doc.SetField(FieldCreatedAtRaw, createdAt, updatedAt, replicaID)
	doc.SetField(FieldUpdatedAtRaw, updatedAt, updatedAt, replicaID)
}

func (m *mapper) CRDTToEncrypted(doc crdtdoc.Document) (DecodedDocument, bool) {
	ciphertext, ok := doc.GetField(FieldCiphertext)
	if !ok {
		return DecodedDocument{}, false
	}

	envelope := models.EncryptedEnvelopeV2{
		Ciphertext: asString(ciphertext),
		Nonce:      asString(fieldOrNil(doc, FieldNonce)),
		AuthTag:    asString(fieldOrNil(doc, FieldAuthTag)),
		WrappedKey: models.WrappedKey{
			UserID:     asInt64(fieldOrNil(doc, FieldWrappedUser)),
			WrappedDEK: asString(fieldOrNil(doc, FieldWrappedDEK)),
			DEKNonce:   asString(fieldOrNil(doc, FieldDEKNonce)),
			DEKAuthTag: asString(fieldOrNil(doc, FieldDEKAuthTag)),
		},
		Version: int(asInt64(fieldOrNil(doc, FieldEnvVersion))),
	}

	return DecodedDocument{
		Envelope:  envelope,
		CreatedAt: asInt64(fieldOrNil(doc, FieldCreatedAtRaw)),
		UpdatedAt: asInt64(fieldOrNil(doc, FieldUpdatedAtRaw)),
		Deleted:   doc.Deleted(),
	}, true
}

func (m *mapper) MarkDeleted(doc crdtdoc.Document, updatedAt int64, replicaID string) {
	doc.MarkDeleted(updatedAt, replicaID)
	doc.SetField(FieldUpdatedAtRaw, updatedAt, updatedAt, replicaID)
}

func (m *mapper) Observe(doc crdtdoc.Document, callback func(DecodedDocument)) (unsubscribe func()) {
	return doc.Observe(func(crdtdoc.StateSnapshot) {
		if decoded, ok := m.CRDTToEncrypted(doc); ok {
			callback(decoded)
		}
	})
}

func fieldOrNil(doc crdtdoc.Document, key string) any {
	v, _ := doc.GetField(key)
	return v
}

// asString coerces v to a string. A round trip through [Document.ApplyUpdate]
// decodes JSON numbers as float64 and strings as string; values set directly
// via [Document.SetField] on the same process keep their original Go type.
func asString(v any) string {
	s, _ := v.(string)
	return s
}

// asInt64 coerces v (int64, int, or float64 after a JSON round trip) to
// int64.
func asInt64(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case float64:
		return int64(n)
	default:
		return 0
	}
}
