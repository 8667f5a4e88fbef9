package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/dhima/guild-log-viewer/internal/backend"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Select runs SELECT * against q.Table and returns each row as a JSON object
// keyed by column name, in the order the database produced them.
func (c *SQLClient) Select(ctx context.Context, q backend.Query) ([][]byte, error) {
	stmt, args, err := c.buildSelect(q)
	if err != nil {
		return nil, err
	}

	rows, err := c.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", q.Table, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s columns: %w", q.Table, err)
	}

	out := [][]byte{}
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", q.Table, err)
		}

		obj := make(map[string]any, len(columns))
		for i, col := range columns {
			obj[col] = normalizeValue(values[i])
		}
		encoded, err := json.Marshal(obj)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s row: %w", q.Table, err)
		}
		out = append(out, encoded)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s: %w", q.Table, err)
	}
	return out, nil
}

func (c *SQLClient) buildSelect(q backend.Query) (string, []any, error) {
	table, err := c.quote(q.Table)
	if err != nil {
		return "", nil, err
	}

	var sb strings.Builder
	sb.WriteString("SELECT * FROM ")
	sb.WriteString(table)

	var args []any
	if q.Filter != nil {
		column, err := c.quote(q.Filter.Column)
		if err != nil {
			return "", nil, err
		}
		sb.WriteString(" WHERE ")
		sb.WriteString(column)
		sb.WriteString(" = ")
		sb.WriteString(c.placeholder(1))
		args = append(args, q.Filter.Value)
	}
	return sb.String(), args, nil
}

func (c *SQLClient) quote(ident string) (string, error) {
	if !identifierPattern.MatchString(ident) {
		return "", fmt.Errorf("invalid identifier %q", ident)
	}
	if c.dialect == DialectMySQL {
		return "`" + ident + "`", nil
	}
	return `"` + ident + `"`, nil
}

func (c *SQLClient) placeholder(n int) string {
	if c.dialect == DialectPostgres {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

// normalizeValue makes driver values JSON friendly: text columns often
// arrive as []byte and times are emitted as RFC 3339 in UTC.
func normalizeValue(v any) any {
	switch val := v.(type) {
	case []byte:
		return string(val)
	case time.Time:
		return val.UTC().Format(time.RFC3339Nano)
	default:
		return val
	}
}
