package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

func (q *Queries) WithTx(tx pgx.Tx) *Queries {
	return &Queries{db: tx}
}

const createUser = `INSERT INTO users (id, email, password, display_name)
VALUES ($1, $2, $3, $4)
RETURNING id, email, password, display_name, created_at`

type CreateUserParams struct {
	ID          string
	Email       string
	Password    string
	DisplayName string
}

func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (User, error) {
	row := q.db.QueryRow(ctx, createUser, arg.ID, arg.Email, arg.Password, arg.DisplayName)
	var i User
	err := row.Scan(&i.ID, &i.Email, &i.Password, &i.DisplayName, &i.CreatedAt)
	return i, err
}

const getUserByEmail = `SELECT id, email, password, display_name, created_at
FROM users WHERE email = $1`

func (q *Queries) GetUserByEmail(ctx context.Context, email string) (User, error) {
	row := q.db.QueryRow(ctx, getUserByEmail, email)
	var i User
	err := row.Scan(&i.ID, &i.Email, &i.Password, &i.DisplayName, &i.CreatedAt)
	return i, err
}

const getUserByID = `SELECT id, email, password, display_name, created_at
FROM users WHERE id = $1`

func (q *Queries) GetUserByID(ctx context.Context, id string) (User, error) {
	row := q.db.QueryRow(ctx, getUserByID, id)
	var i User
	err := row.Scan(&i.ID, &i.Email, &i.Password, &i.DisplayName, &i.CreatedAt)
	return i, err
}

const createDiagram = `INSERT INTO diagrams (id, name, owner_id)
VALUES ($1, $2, $3)
RETURNING id, name, owner_id, created_at, updated_at`

type CreateDiagramParams struct {
	ID      string
	Name    string
	OwnerID string
}

func (q *Queries) CreateDiagram(ctx context.Context, arg CreateDiagramParams) (Diagram, error) {
	row := q.db.QueryRow(ctx, createDiagram, arg.ID, arg.Name, arg.OwnerID)
	var i Diagram
	err := row.Scan(&i.ID, &i.Name, &i.OwnerID, &i.CreatedAt, &i.UpdatedAt)
	return i, err
}

const getDiagram = `SELECT id, name, owner_id, created_at, updated_at
FROM diagrams WHERE id = $1`

func (q *Queries) GetDiagram(ctx context.Context, id string) (Diagram, error) {
	row := q.db.QueryRow(ctx, getDiagram, id)
	var i Diagram
	err := row.Scan(&i.ID, &i.Name, &i.OwnerID, &i.CreatedAt, &i.UpdatedAt)
	return i, err
}

const listDiagramsForOwner = `SELECT id, name, owner_id, created_at, updated_at
FROM diagrams WHERE owner_id = $1
ORDER BY updated_at DESC`

func (q *Queries) ListDiagramsForOwner(ctx context.Context, ownerID string) ([]Diagram, error) {
	rows, err := q.db.Query(ctx, listDiagramsForOwner, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Diagram
	for rows.Next() {
		var i Diagram
		if err := rows.Scan(&i.ID, &i.Name, &i.OwnerID, &i.CreatedAt, &i.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const renameDiagram = `UPDATE diagrams SET name = $2, updated_at = now()
WHERE id = $1
RETURNING id, name, owner_id, created_at, updated_at`

type RenameDiagramParams struct {
	ID   string
	Name string
}

func (q *Queries) RenameDiagram(ctx context.Context, arg RenameDiagramParams) (Diagram, error) {
	row := q.db.QueryRow(ctx, renameDiagram, arg.ID, arg.Name)
	var i Diagram
	err := row.Scan(&i.ID, &i.Name, &i.OwnerID, &i.CreatedAt, &i.UpdatedAt)
	return i, err
}

const touchDiagram = `UPDATE diagrams SET updated_at = now() WHERE id = $1`

func (q *Queries) TouchDiagram(ctx context.Context, id string) error {
	_, err := q.db.Exec(ctx, touchDiagram, id)
	return err
}

const deleteDiagram = `DELETE FROM diagrams WHERE id = $1`

func (q *Queries) DeleteDiagram(ctx context.Context, id string) error {
	_, err := q.db.Exec(ctx, deleteDiagram, id)
	return err
}

const createSnapshot = `INSERT INTO snapshots (id, diagram_id, version, document)
VALUES ($1, $2, $3, $4)
RETURNING id, diagram_id, version, document, created_at`

type CreateSnapshotParams struct {
	ID        string
	DiagramID string
	Version   int32
	Document  []byte
}

func (q *Queries) CreateSnapshot(ctx context.Context, arg CreateSnapshotParams) (Snapshot, error) {
	row := q.db.QueryRow(ctx, createSnapshot, arg.ID, arg.DiagramID, arg.Version, arg.Document)
	var i Snapshot
	err := row.Scan(&i.ID, &i.DiagramID, &i.Version, &i.Document, &i.CreatedAt)
	return i, err
}

const getLatestSnapshot = `SELECT id, diagram_id, version, document, created_at
FROM snapshots WHERE diagram_id = $1
ORDER BY version DESC
LIMIT 1`

func (q *Queries) GetLatestSnapshot(ctx context.Context, diagramID string) (Snapshot, error) {
	row := q.db.QueryRow(ctx, getLatestSnapshot, diagramID)
	var i Snapshot
	err := row.Scan(&i.ID, &i.DiagramID, &i.Version, &i.Document, &i.CreatedAt)
	return i, err
}
