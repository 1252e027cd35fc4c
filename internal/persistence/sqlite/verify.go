package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Integrity check modes accepted by VerifyIntegrity.
const (
	VerifyQuick = "quick"
	VerifyFull  = "full"
)

// VerifyIntegrity runs PRAGMA quick_check (or integrity_check in full mode)
// against a snapshot database opened read-only. A healthy file yields nil
// issues; otherwise the diagnostic rows are returned.
func VerifyIntegrity(ctx context.Context, path, mode string) ([]string, error) {
	pragma := "PRAGMA quick_check;"
	switch mode {
	case VerifyQuick, "":
	case VerifyFull:
		pragma = "PRAGMA integrity_check;"
	default:
		return nil, fmt.Errorf("sqlite: unknown verify mode %q", mode)
	}

	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?mode=ro&_pragma=busy_timeout(2000)", path))
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %s for verification: %w", path, err)
	}
	defer func() { _ = db.Close() }()

	rows, err := db.QueryContext(ctx, pragma)
	if err != nil {
		return nil, fmt.Errorf("sqlite: integrity pragma: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []string
	for rows.Next() {
		var res string
		if err := rows.Scan(&res); err != nil {
			return nil, fmt.Errorf("sqlite: scan integrity row: %w", err)
		}
		results = append(results, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: integrity rows: %w", err)
	}

	switch {
	case len(results) == 1 && strings.EqualFold(results[0], "ok"):
		return nil, nil
	case len(results) == 0:
		return []string{"no results returned from integrity check"}, nil
	default:
		return results, nil
	}
}
