package diagram

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/erdcanvas/erdcanvas/backend-go/internal/db"
)

type memStore struct {
	mu        sync.Mutex
	clock     time.Time
	diagrams  map[string]db.Diagram
	snapshots map[string][]db.Snapshot
}

func newMemStore() *memStore {
	return &memStore{
		clock:     time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		diagrams:  map[string]db.Diagram{},
		snapshots: map[string][]db.Snapshot{},
	}
}

func (m *memStore) tick() pgtype.Timestamptz {
	m.clock = m.clock.Add(time.Minute)
	return pgtype.Timestamptz{Time: m.clock, Valid: true}
}

func (m *memStore) CreateDiagram(_ context.Context, arg db.CreateDiagramParams) (db.Diagram, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.tick()
	d := db.Diagram{ID: arg.ID, Name: arg.Name, OwnerID: arg.OwnerID, CreatedAt: now, UpdatedAt: now}
	m.diagrams[d.ID] = d
	return d, nil
}

func (m *memStore) GetDiagram(_ context.Context, id string) (db.Diagram, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.diagrams[id]
	if !ok {
		return db.Diagram{}, pgx.ErrNoRows
	}
	return d, nil
}

func (m *memStore) ListDiagramsForOwner(_ context.Context, ownerID string) ([]db.Diagram, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []db.Diagram
	for _, d := range m.diagrams {
		if d.OwnerID == ownerID {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.Time.After(out[j].UpdatedAt.Time) })
	return out, nil
}

func (m *memStore) RenameDiagram(_ context.Context, arg db.RenameDiagramParams) (db.Diagram, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.diagrams[arg.ID]
	if !ok {
		return db.Diagram{}, pgx.ErrNoRows
	}
	d.Name = arg.Name
	d.UpdatedAt = m.tick()
	m.diagrams[d.ID] = d
	return d, nil
}

func (m *memStore) TouchDiagram(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if d, ok := m.diagrams[id]; ok {
		d.UpdatedAt = m.tick()
		m.diagrams[id] = d
	}
	return nil
}

func (m *memStore) DeleteDiagram(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.diagrams, id)
	delete(m.snapshots, id)
	return nil
}

func (m *memStore) CreateSnapshot(_ context.Context, arg db.CreateSnapshotParams) (db.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.snapshots[arg.DiagramID] {
		if s.Version == arg.Version {
			return db.Snapshot{}, &pgconn.PgError{Code: "23505"}
		}
	}
	s := db.Snapshot{ID: arg.ID, DiagramID: arg.DiagramID, Version: arg.Version, Document: arg.Document, CreatedAt: m.tick()}
	m.snapshots[arg.DiagramID] = append(m.snapshots[arg.DiagramID], s)
	return s, nil
}

func (m *memStore) GetLatestSnapshot(_ context.Context, diagramID string) (db.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	snaps := m.snapshots[diagramID]
	if len(snaps) == 0 {
		return db.Snapshot{}, pgx.ErrNoRows
	}
	latest := snaps[0]
	for _, s := range snaps[1:] {
		if s.Version > latest.Version {
			latest = s
		}
	}
	return latest, nil
}
