// Package store persists analysis snapshots to sqlite and answers impact
// queries over the stored graph.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	dgraph "github.com/dominikbraun/graph"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"codeatlas/internal/graph"
	"codeatlas/internal/handler"
)

const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
	id         TEXT PRIMARY KEY,
	root       TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS nodes (
	snapshot_id TEXT NOT NULL,
	file_path   TEXT NOT NULL,
	node_id     TEXT NOT NULL,
	kind        TEXT NOT NULL,
	label       TEXT NOT NULL,
	detail      TEXT NOT NULL DEFAULT '',
	x           REAL NOT NULL,
	y           REAL NOT NULL,
	PRIMARY KEY (snapshot_id, file_path, node_id)
);
CREATE TABLE IF NOT EXISTS edges (
	snapshot_id TEXT NOT NULL,
	file_path   TEXT NOT NULL,
	ord         INTEGER NOT NULL,
	edge_id     TEXT NOT NULL,
	source      TEXT NOT NULL,
	target      TEXT NOT NULL,
	relation    TEXT NOT NULL,
	PRIMARY KEY (snapshot_id, file_path, ord)
);
CREATE TABLE IF NOT EXISTS handlers (
	snapshot_id TEXT NOT NULL,
	file_path   TEXT NOT NULL,
	name        TEXT NOT NULL,
	descriptor  TEXT NOT NULL,
	PRIMARY KEY (snapshot_id, file_path)
);
CREATE INDEX IF NOT EXISTS idx_nodes_label ON nodes (snapshot_id, label);
`

// Store wraps the sqlite database holding analysis snapshots.
type Store struct {
	db  *sql.DB
	log *slog.Logger
}

// Open opens (and if needed creates) the database at path. Use ":memory:"
// for an ephemeral store.
func Open(path string, logger *slog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{db: db, log: logger}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// NewSnapshot registers a new analysis snapshot for the given root and
// returns its id.
func (s *Store) NewSnapshot(ctx context.Context, root string) (string, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO snapshots (id, root, created_at) VALUES (?, ?, ?)`,
		id, root, time.Now().UTC())
	if err != nil {
		return "", fmt.Errorf("failed to create snapshot: %w", err)
	}
	return id, nil
}

// LatestSnapshot returns the most recently created snapshot id, or empty
// string when the store holds none.
func (s *Store) LatestSnapshot(ctx context.Context) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM snapshots ORDER BY created_at DESC LIMIT 1`).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return id, nil
}

// SaveGraph writes one file's graph into the snapshot, replacing any
// previous rows for that file. Edge multiplicity is preserved via the
// ordinal column; edge ids are not unique by design.
func (s *Store) SaveGraph(ctx context.Context, snapshotID, filePath string, g *graph.Graph) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM nodes WHERE snapshot_id = ? AND file_path = ?`, snapshotID, filePath); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM edges WHERE snapshot_id = ? AND file_path = ?`, snapshotID, filePath); err != nil {
		return err
	}

	for _, n := range g.Nodes {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO nodes (snapshot_id, file_path, node_id, kind, label, detail, x, y)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			snapshotID, filePath, n.ID, string(n.Kind), n.Label, n.Detail, n.Position.X, n.Position.Y); err != nil {
			return fmt.Errorf("failed to store node %s: %w", n.ID, err)
		}
	}
	for i, e := range g.Edges {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO edges (snapshot_id, file_path, ord, edge_id, source, target, relation)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			snapshotID, filePath, i, e.ID, e.Source, e.Target, string(e.Relation)); err != nil {
			return fmt.Errorf("failed to store edge %s: %w", e.ID, err)
		}
	}
	return tx.Commit()
}

// SaveHandler writes one file's handler descriptor into the snapshot.
func (s *Store) SaveHandler(ctx context.Context, snapshotID, filePath string, d *handler.Descriptor) error {
	payload, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to encode descriptor: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO handlers (snapshot_id, file_path, name, descriptor)
		 VALUES (?, ?, ?, ?)`,
		snapshotID, filePath, d.HandlerName, string(payload))
	return err
}

// LoadGraph reads the merged graph for a snapshot. Node ids are scoped per
// file in storage, so they are returned prefixed with the file path.
func (s *Store) LoadGraph(ctx context.Context, snapshotID string) (*graph.Graph, error) {
	g := &graph.Graph{Nodes: []graph.Node{}, Edges: []graph.Edge{}}

	rows, err := s.db.QueryContext(ctx,
		`SELECT file_path, node_id, kind, label, detail, x, y FROM nodes WHERE snapshot_id = ?`,
		snapshotID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var filePath string
		var n graph.Node
		var kind string
		if err := rows.Scan(&filePath, &n.ID, &kind, &n.Label, &n.Detail, &n.Position.X, &n.Position.Y); err != nil {
			return nil, err
		}
		n.Kind = graph.NodeKind(kind)
		n.ID = scopedID(filePath, n.ID)
		g.Nodes = append(g.Nodes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	erows, err := s.db.QueryContext(ctx,
		`SELECT file_path, edge_id, source, target, relation FROM edges WHERE snapshot_id = ? ORDER BY file_path, ord`,
		snapshotID)
	if err != nil {
		return nil, err
	}
	defer erows.Close()
	for erows.Next() {
		var filePath string
		var e graph.Edge
		var relation string
		if err := erows.Scan(&filePath, &e.ID, &e.Source, &e.Target, &relation); err != nil {
			return nil, err
		}
		e.Relation = graph.Relation(relation)
		e.Source = scopedID(filePath, e.Source)
		e.Target = scopedID(filePath, e.Target)
		g.Edges = append(g.Edges, e)
	}
	return g, erows.Err()
}

// PruneStaleFiles removes rows for files no longer present in the
// workspace.
func (s *Store) PruneStaleFiles(ctx context.Context, snapshotID string, validFiles []string) error {
	valid := make(map[string]bool, len(validFiles))
	for _, f := range validFiles {
		valid[f] = true
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT file_path FROM nodes WHERE snapshot_id = ?`, snapshotID)
	if err != nil {
		return err
	}
	var stale []string
	for rows.Next() {
		var f string
		if err := rows.Scan(&f); err != nil {
			rows.Close()
			return err
		}
		if !valid[f] {
			stale = append(stale, f)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	for _, f := range stale {
		for _, table := range []string{"nodes", "edges", "handlers"} {
			if _, err := s.db.ExecContext(ctx,
				`DELETE FROM `+table+` WHERE snapshot_id = ? AND file_path = ?`, snapshotID, f); err != nil {
				return err
			}
		}
		s.log.Debug("pruned stale file", "file", f)
	}
	return nil
}

// FindImpact returns the labels of every node that transitively depends
// on a node with the given label: reverse reachability over the stored
// edges.
func (s *Store) FindImpact(ctx context.Context, snapshotID, label string) ([]string, error) {
	g, err := s.LoadGraph(ctx, snapshotID)
	if err != nil {
		return nil, err
	}

	labels := make(map[string]string, len(g.Nodes))
	var starts []string
	for _, n := range g.Nodes {
		labels[n.ID] = n.Label
		if n.Label == label {
			starts = append(starts, n.ID)
		}
	}
	if len(starts) == 0 {
		return nil, nil
	}

	// Reversed edges turn "who do I depend on" into "who depends on me".
	rev := dgraph.New(dgraph.StringHash, dgraph.Directed())
	for _, n := range g.Nodes {
		if err := rev.AddVertex(n.ID); err != nil && !errors.Is(err, dgraph.ErrVertexAlreadyExists) {
			return nil, err
		}
	}
	for _, e := range g.Edges {
		if err := rev.AddEdge(e.Target, e.Source); err != nil &&
			!errors.Is(err, dgraph.ErrEdgeAlreadyExists) &&
			!errors.Is(err, dgraph.ErrEdgeCreatesCycle) {
			return nil, err
		}
	}

	seen := make(map[string]bool)
	for _, start := range starts {
		if err := dgraph.BFS(rev, start, func(id string) bool {
			seen[id] = true
			return false
		}); err != nil {
			return nil, err
		}
		delete(seen, start)
	}

	impactedSet := make(map[string]bool)
	for id := range seen {
		if l, ok := labels[id]; ok && l != label {
			impactedSet[l] = true
		}
	}
	impacted := make([]string, 0, len(impactedSet))
	for l := range impactedSet {
		impacted = append(impacted, l)
	}
	sort.Strings(impacted)
	return impacted, nil
}

func scopedID(filePath, id string) string {
	return filePath + "::" + id
}
