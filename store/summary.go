package store

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	_ "github.com/duckdb/duckdb-go/v2"
)

// OutcomeSummary aggregates run files by outcome.
type OutcomeSummary struct {
	Outcome   string
	Games     int64
	MeanScore float64
	MaxScore  int32
	MeanMoves float64
}

// Summarize reads the finished run files directly inside each root and groups
// them by outcome, most frequent first. Files still being written live in
// root/tmp and are not matched.
func Summarize(ctx context.Context, roots ...string) ([]OutcomeSummary, error) {
	globs := make([]string, 0, len(roots))
	for _, root := range roots {
		root = strings.TrimSpace(root)
		if root == "" {
			continue
		}
		glob := filepath.Join(root, "*.parquet")
		globs = append(globs, "'"+escapeSQLString(glob)+"'")
	}
	if len(globs) == 0 {
		return nil, fmt.Errorf("no roots to summarize")
	}

	db, err := sql.Open("duckdb", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}
	defer db.Close()

	query := `SELECT
			outcome_name,
			COUNT(*)::BIGINT AS games,
			AVG(score)::DOUBLE AS mean_score,
			MAX(score)::INTEGER AS max_score,
			AVG(moves)::DOUBLE AS mean_moves
		FROM read_parquet([` + strings.Join(globs, ",") + `], union_by_name=true)
		GROUP BY outcome_name
		ORDER BY games DESC, outcome_name`

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var out []OutcomeSummary
	for rows.Next() {
		var s OutcomeSummary
		if err := rows.Scan(&s.Outcome, &s.Games, &s.MeanScore, &s.MaxScore, &s.MeanMoves); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func escapeSQLString(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
