package catalog

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/magefree/sbb-sim/internal/game/minion"
)

// Querier is the subset of pgxpool.Pool used to read templates.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

const selectTemplates = `
SELECT name, attack, health, alignment, types, level, upgraded, ranged, flying, slay
FROM minion_templates
ORDER BY name`

type templateRow struct {
	Name      string   `db:"name"`
	Attack    int      `db:"attack"`
	Health    int      `db:"health"`
	Alignment string   `db:"alignment"`
	Types     []string `db:"types"`
	Level     int      `db:"level"`
	Upgraded  bool     `db:"upgraded"`
	Ranged    bool     `db:"ranged"`
	Flying    bool     `db:"flying"`
	Slay      bool     `db:"slay"`
}

func (r templateRow) template() minion.Template {
	return minion.Template{
		Name:       r.Name,
		BaseAttack: r.Attack,
		BaseHealth: r.Health,
		Alignment:  minion.Alignment(r.Alignment),
		Types:      r.Types,
		Level:      r.Level,
		Upgraded:   r.Upgraded,
		Ranged:     r.Ranged,
		Flying:     r.Flying,
		Slay:       r.Slay,
	}
}

// LoadPostgres reads every row of the minion_templates table.
func LoadPostgres(ctx context.Context, q Querier) (*Catalog, error) {
	rows, err := q.Query(ctx, selectTemplates)
	if err != nil {
		return nil, fmt.Errorf("query templates: %w", err)
	}
	records, err := pgx.CollectRows(rows, pgx.RowToStructByName[templateRow])
	if err != nil {
		return nil, fmt.Errorf("scan templates: %w", err)
	}

	templates := make([]minion.Template, 0, len(records))
	for _, rec := range records {
		templates = append(templates, rec.template())
	}
	return New(templates...)
}

// OpenPostgres connects to the database, loads the catalog and closes the pool.
func OpenPostgres(ctx context.Context, databaseURL string) (*Catalog, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect catalog database: %w", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping catalog database: %w", err)
	}
	return LoadPostgres(ctx, pool)
}
