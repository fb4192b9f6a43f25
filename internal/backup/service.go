package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Dump is the full point-in-time export of the business data.
type Dump struct {
	GeradoEm time.Time                   `json:"gerado_em"`
	Tabelas  map[string][]map[string]any `json:"tabelas"`
}

var dumpTables = []string{"produtos", "clientes", "vendas", "vendas_itens"}

// Service builds JSON exports of the database.
type Service struct {
	pool   *pgxpool.Pool
	dir    string
	logger *slog.Logger
	now    func() time.Time
}

// NewService wires the backup service. dir receives the nightly dumps.
func NewService(pool *pgxpool.Pool, dir string, logger *slog.Logger) *Service {
	return &Service{pool: pool, dir: dir, logger: logger, now: time.Now}
}

// Export reads every table into a single dump document.
func (s *Service) Export(ctx context.Context) (*Dump, error) {
	dump := &Dump{
		GeradoEm: s.now().UTC(),
		Tabelas:  make(map[string][]map[string]any, len(dumpTables)),
	}
	for _, table := range dumpTables {
		rows, err := s.readTable(ctx, table)
		if err != nil {
			return nil, fmt.Errorf("export %s: %w", table, err)
		}
		dump.Tabelas[table] = rows
	}
	return dump, nil
}

// WriteFile exports the database to a timestamped file under the backup dir.
func (s *Service) WriteFile(ctx context.Context) (string, error) {
	dump, err := s.Export(ctx)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("backup dir: %w", err)
	}

	name := fmt.Sprintf("backup_%s.json", dump.GeradoEm.Format("20060102_150405"))
	path := filepath.Join(s.dir, name)

	payload, err := json.MarshalIndent(dump, "", "  ")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return "", fmt.Errorf("write backup: %w", err)
	}

	s.logger.Info("backup written", "path", path, "bytes", len(payload))
	return path, nil
}

// readTable selects the whole table into generic row maps so the dump does
// not depend on the per-module structs.
func (s *Service) readTable(ctx context.Context, table string) ([]map[string]any, error) {
	rows, err := s.pool.Query(ctx, "SELECT * FROM "+table+" ORDER BY id ASC")
	if err != nil {
		return nil, err
	}
	records, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []map[string]any{}
	}
	return records, nil
}
