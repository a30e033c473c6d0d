// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crdtdoc

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// coalesceWindow is the quiescence period [4.4] requires observers to
// collapse a burst of mutations from one editing transaction into a single
// callback.
const coalesceWindow = 50 * time.Millisecond

// register is a single last-writer-wins cell: the value, the logical time
// it was last set at, and the replica that set it (tie-break on equal
// timestamps, higher replica ID wins — mirrors the LWWSet tie-break this
// package is grounded on).
type register struct {
	Value     any    `json:"value"`
	UpdatedAt int64  `json:"updated_at"`
	ReplicaID string `json:"replica_id"`
}

func (r register) wins(updatedAt int64, replicaID string) bool {
	if updatedAt != r.UpdatedAt {
		return r.UpdatedAt > updatedAt
	}
	return r.ReplicaID >= replicaID
}

type blockRegister struct {
	Value     []BlockState `json:"value"`
	UpdatedAt int64        `json:"updated_at"`
	ReplicaID string       `json:"replica_id"`
}

func (r blockRegister) wins(updatedAt int64, replicaID string) bool {
	if updatedAt != r.UpdatedAt {
		return r.UpdatedAt > updatedAt
	}
	return r.ReplicaID >= replicaID
}

type deletedRegister struct {
	Value     bool   `json:"value"`
	UpdatedAt int64  `json:"updated_at"`
	ReplicaID string `json:"replica_id"`
}

func (r deletedRegister) wins(updatedAt int64, replicaID string) bool {
	if updatedAt != r.UpdatedAt {
		return r.UpdatedAt > updatedAt
	}
	return r.ReplicaID >= replicaID
}

type wireState struct {
	UUID     string              `json:"uuid"`
	Metadata map[string]register `json:"metadata"`
	Blocks   blockRegister       `json:"blocks"`
	Deleted  deletedRegister     `json:"deleted"`
}

type observer struct {
	callback func(StateSnapshot)
	lastSeen int64
	timer    *time.Timer
}

type document struct {
	mu sync.Mutex

	uuid     string
	metadata map[string]register
	blocks   blockRegister
	deleted  deletedRegister

	observers   map[int]*observer
	nextObserve int
}

// New constructs an empty [Document] for uuid.
func New(uuid string) Document {
	return &document{
		uuid:      uuid,
		metadata:  make(map[string]register),
		observers: make(map[int]*observer),
	}
}

func (d *document) UUID() string { return d.uuid }

func (d *document) SetField(key string, value any, updatedAt int64, replicaID string) {
	d.mu.Lock()
	existing, ok := d.metadata[key]
	if ok && existing.wins(updatedAt, replicaID) {
		d.mu.Unlock()
		return
	}
	d.metadata[key] = register{Value: value, UpdatedAt: updatedAt, ReplicaID: replicaID}
	d.mu.Unlock()
	d.scheduleNotify()
}

func (d *document) GetField(key string) (any, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	r, ok := d.metadata[key]
	if !ok {
		return nil, false
	}
	return r.Value, true
}

func (d *document) SetBlocks(blocks []BlockState, updatedAt int64, replicaID string) {
	d.mu.Lock()
	if d.blocks.wins(updatedAt, replicaID) {
		d.mu.Unlock()
		return
	}
	d.blocks = blockRegister{Value: blocks, UpdatedAt: updatedAt, ReplicaID: replicaID}
	d.mu.Unlock()
	d.scheduleNotify()
}

func (d *document) Blocks() []BlockState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]BlockState(nil), d.blocks.Value...)
}

func (d *document) MarkDeleted(updatedAt int64, replicaID string) {
	d.mu.Lock()
	if d.deleted.wins(updatedAt, replicaID) {
		d.mu.Unlock()
		return
	}
	d.deleted = deletedRegister{Value: true, UpdatedAt: updatedAt, ReplicaID: replicaID}
	d.mu.Unlock()
	d.scheduleNotify()
}

func (d *document) Deleted() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.deleted.Value
}

func (d *document) UpdatedAt() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.highWaterMarkLocked()
}

func (d *document) highWaterMarkLocked() int64 {
	max := d.blocks.UpdatedAt
	if d.deleted.UpdatedAt > max {
		max = d.deleted.UpdatedAt
	}
	for _, r := range d.metadata {
		if r.UpdatedAt > max {
			max = r.UpdatedAt
		}
	}
	return max
}

func (d *document) Snapshot() StateSnapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.snapshotLocked()
}

func (d *document) snapshotLocked() StateSnapshot {
	meta := make(map[string]any, len(d.metadata))
	for k, r := range d.metadata {
		meta[k] = r.Value
	}
	return StateSnapshot{
		UUID:      d.uuid,
		Metadata:  meta,
		Blocks:    append([]BlockState(nil), d.blocks.Value...),
		Deleted:   d.deleted.Value,
		UpdatedAt: d.highWaterMarkLocked(),
	}
}

func (d *document) EncodeUpdate() ([]byte, error) {
	d.mu.Lock()
	ws := wireState{
		UUID:     d.uuid,
		Metadata: make(map[string]register, len(d.metadata)),
		Blocks:   d.blocks,
		Deleted:  d.deleted,
	}
	for k, r := range d.metadata {
		ws.Metadata[k] = r
	}
	d.mu.Unlock()

	out, err := json.Marshal(ws)
	if err != nil {
		return nil, fmt.Errorf("encode crdt update: %w", err)
	}
	return out, nil
}

func (d *document) ApplyUpdate(update []byte) (bool, error) {
	var ws wireState
	if err := json.Unmarshal(update, &ws); err != nil {
		return false, fmt.Errorf("decode crdt update: %w", err)
	}

	changed := false

	d.mu.Lock()
	for key, incoming := range ws.Metadata {
		existing, ok := d.metadata[key]
		if !ok || !existing.wins(incoming.UpdatedAt, incoming.ReplicaID) {
			d.metadata[key] = incoming
			changed = true
		}
	}
	if !d.blocks.wins(ws.Blocks.UpdatedAt, ws.Blocks.ReplicaID) && ws.Blocks.UpdatedAt > 0 {
		d.blocks = ws.Blocks
		changed = true
	}
	if !d.deleted.wins(ws.Deleted.UpdatedAt, ws.Deleted.ReplicaID) && ws.Deleted.UpdatedAt > 0 {
		d.deleted = ws.Deleted
		changed = true
	}
	d.mu.Unlock()

	if changed {
		d.scheduleNotify()
	}
	return changed, nil
}

func (d *document) Observe(callback func(StateSnapshot)) (unsubscribe func()) {
	d.mu.Lock()
	id := d.nextObserve
	d.nextObserve++
	d.observers[id] = &observer{callback: callback}
	d.mu.Unlock()

	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		if obs, ok := d.observers[id]; ok {
			if obs.timer != nil {
				obs.timer.Stop()
			}
			delete(d.observers, id)
		}
	}
}

// scheduleNotify coalesces bursts of mutations: each observer gets at most
// one pending timer, restarted by every call within the window, and fires
// only if the resulting snapshot's UpdatedAt is newer than what that
// observer has already surfaced (the "detail floor" of spec §4.4,
// preventing echo loops when a device re-observes its own just-pushed
// state).
func (d *document) scheduleNotify() {
	d.mu.Lock()
	observers := make([]*observer, 0, len(d.observers))
	for _, obs := range d.observers {
		observers = append(observers, obs)
	}
	d.mu.Unlock()

	for _, obs := range observers {
		obs := obs
		d.mu.Lock()
		if obs.timer != nil {
			obs.timer.Stop()
		}
		obs.timer = time.AfterFunc(coalesceWindow, func() {
			snap := d.Snapshot()
			d.mu.Lock()
			if snap.UpdatedAt <= obs.lastSeen {
				d.mu.Unlock()
				return
			}
			obs.lastSeen = snap.UpdatedAt
			d.mu.Unlock()
			obs.callback(snap)
		})
		d.mu.Unlock()
	}
}
