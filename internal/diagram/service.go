// Package diagram stores ERD documents per owner. Every save appends an
// immutable snapshot; the newest snapshot is the current document.
package diagram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/erdcanvas/erdcanvas/backend-go/internal/db"
	"github.com/erdcanvas/erdcanvas/backend-go/internal/document"
	"github.com/erdcanvas/erdcanvas/backend-go/internal/typeid"
)

var (
	ErrNotFound        = errors.New("diagram not found")
	ErrForbidden       = errors.New("forbidden")
	ErrVersionConflict = errors.New("diagram version conflict")
)

// Store is the subset of db.Queries the service needs.
type Store interface {
	CreateDiagram(ctx context.Context, arg db.CreateDiagramParams) (db.Diagram, error)
	GetDiagram(ctx context.Context, id string) (db.Diagram, error)
	ListDiagramsForOwner(ctx context.Context, ownerID string) ([]db.Diagram, error)
	RenameDiagram(ctx context.Context, arg db.RenameDiagramParams) (db.Diagram, error)
	TouchDiagram(ctx context.Context, id string) error
	DeleteDiagram(ctx context.Context, id string) error
	CreateSnapshot(ctx context.Context, arg db.CreateSnapshotParams) (db.Snapshot, error)
	GetLatestSnapshot(ctx context.Context, diagramID string) (db.Snapshot, error)
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

type Diagram struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	OwnerID   string `json:"ownerId"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// Template selects the document a new diagram starts with.
type Template string

const (
	TemplateEmpty  Template = ""
	TemplateSample Template = "sample"
)

func (s *Service) Create(ctx context.Context, name, ownerID string, tmpl Template) (*Diagram, error) {
	diagramID := typeid.NewDiagramID()
	name = strings.TrimSpace(name)

	doc := document.NewEmptyDiagram(diagramID, name)
	if tmpl == TemplateSample {
		doc = document.NewSampleDiagram(diagramID)
		doc.Name = name
	}
	docJSON, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal initial document: %w", err)
	}

	dbDiag, err := s.store.CreateDiagram(ctx, db.CreateDiagramParams{
		ID:      diagramID,
		Name:    name,
		OwnerID: ownerID,
	})
	if err != nil {
		return nil, fmt.Errorf("create diagram: %w", err)
	}

	_, err = s.store.CreateSnapshot(ctx, db.CreateSnapshotParams{
		ID:        typeid.NewSnapshotID(),
		DiagramID: diagramID,
		Version:   1,
		Document:  docJSON,
	})
	if err != nil {
		err = fmt.Errorf("create initial snapshot: %w", err)
		// a diagram without a snapshot cannot be opened, so drop the row
		if delErr := s.store.DeleteDiagram(context.WithoutCancel(ctx), diagramID); delErr != nil {
			err = errors.Join(err, fmt.Errorf("remove diagram without snapshot: %w", delErr))
		}
		return nil, err
	}

	return toDiagram(dbDiag), nil
}

func (s *Service) Get(ctx context.Context, diagramID, userID string) (*Diagram, error) {
	dbDiag, err := s.owned(ctx, diagramID, userID)
	if err != nil {
		return nil, err
	}
	return toDiagram(dbDiag), nil
}

func (s *Service) List(ctx context.Context, userID string) ([]Diagram, error) {
	dbDiags, err := s.store.ListDiagramsForOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list diagrams: %w", err)
	}

	diagrams := make([]Diagram, len(dbDiags))
	for i, d := range dbDiags {
		diagrams[i] = *toDiagram(d)
	}
	return diagrams, nil
}

func (s *Service) Rename(ctx context.Context, diagramID, userID, name string) (*Diagram, error) {
	if _, err := s.owned(ctx, diagramID, userID); err != nil {
		return nil, err
	}

	dbDiag, err := s.store.RenameDiagram(ctx, db.RenameDiagramParams{ID: diagramID, Name: strings.TrimSpace(name)})
	if err != nil {
		return nil, fmt.Errorf("rename diagram: %w", err)
	}
	return toDiagram(dbDiag), nil
}

func (s *Service) Delete(ctx context.Context, diagramID, userID string) error {
	if _, err := s.owned(ctx, diagramID, userID); err != nil {
		return err
	}
	if err := s.store.DeleteDiagram(ctx, diagramID); err != nil {
		return fmt.Errorf("delete diagram: %w", err)
	}
	return nil
}

// Latest returns the current document. Its Version is the snapshot version
// and its Name follows the diagram record.
func (s *Service) Latest(ctx context.Context, diagramID, userID string) (*document.Diagram, error) {
	dbDiag, err := s.owned(ctx, diagramID, userID)
	if err != nil {
		return nil, err
	}

	snap, err := s.store.GetLatestSnapshot(ctx, diagramID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get snapshot: %w", err)
	}

	var doc document.Diagram
	if err := json.Unmarshal(snap.Document, &doc); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", snap.ID, err)
	}
	doc.ID = dbDiag.ID
	doc.Name = dbDiag.Name
	doc.Version = int(snap.Version)
	if doc.Tables == nil {
		doc.Tables = []document.Table{}
	}
	return &doc, nil
}

// Save appends doc as the next snapshot. doc.Version must name the version
// the client started from; the stored copy gets that version plus one.
func (s *Service) Save(ctx context.Context, diagramID, userID string, doc *document.Diagram) (*document.Diagram, error) {
	dbDiag, err := s.owned(ctx, diagramID, userID)
	if err != nil {
		return nil, err
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	latest, err := s.store.GetLatestSnapshot(ctx, diagramID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("get snapshot: %w", err)
	}
	if doc.Version != int(latest.Version) {
		return nil, fmt.Errorf("%w: have %d, got %d", ErrVersionConflict, latest.Version, doc.Version)
	}

	saved := *doc
	saved.ID = diagramID
	saved.Name = dbDiag.Name
	saved.Version = int(latest.Version) + 1
	if saved.Tables == nil {
		saved.Tables = []document.Table{}
	}
	docJSON, err := json.Marshal(saved)
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}

	_, err = s.store.CreateSnapshot(ctx, db.CreateSnapshotParams{
		ID:        typeid.NewSnapshotID(),
		DiagramID: diagramID,
		Version:   int32(saved.Version),
		Document:  docJSON,
	})
	if err != nil {
		if isDuplicateKeyError(err) {
			return nil, ErrVersionConflict
		}
		return nil, fmt.Errorf("create snapshot: %w", err)
	}
	if err := s.store.TouchDiagram(ctx, diagramID); err != nil {
		return nil, fmt.Errorf("touch diagram: %w", err)
	}

	return &saved, nil
}

func (s *Service) owned(ctx context.Context, diagramID, userID string) (db.Diagram, error) {
	if typeid.Validate(diagramID, typeid.PrefixDiagram) != nil {
		return db.Diagram{}, ErrNotFound
	}
	dbDiag, err := s.store.GetDiagram(ctx, diagramID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return db.Diagram{}, ErrNotFound
		}
		return db.Diagram{}, fmt.Errorf("get diagram: %w", err)
	}
	if dbDiag.OwnerID != userID {
		return db.Diagram{}, ErrForbidden
	}
	return dbDiag, nil
}

func toDiagram(d db.Diagram) *Diagram {
	return &Diagram{
		ID:        d.ID,
		Name:      d.Name,
		OwnerID:   d.OwnerID,
		CreatedAt: d.CreatedAt.Time.UTC().Format(time.RFC3339),
		UpdatedAt: d.UpdatedAt.Time.UTC().Format(time.RFC3339),
	}
}

func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return false
}
