package connectors

import (
	"encoding/json"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/hyperterse/sqlgeneric/core/domain"
)

// collectRecords materializes every row, keeping column order
func collectRecords(rows *sqlx.Rows) ([]domain.Record, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	records := []domain.Record{}
	for rows.Next() {
		values, err := rows.SliceScan()
		if err != nil {
			return nil, err
		}
		for i, v := range values {
			// Text, CLOB and BLOB columns arrive as bytes
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		records = append(records, domain.Record{Columns: columns, Values: values})
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// bindArgs converts decoded JSON values into driver arguments
func bindArgs(binds []any) []any {
	args := make([]any, len(binds))
	for i, v := range binds {
		switch val := v.(type) {
		case json.Number:
			if n, err := val.Int64(); err == nil {
				args[i] = n
			} else if d, err := decimal.NewFromString(val.String()); err == nil {
				args[i] = d
			} else {
				args[i] = val.String()
			}
		case map[string]any, []any:
			encoded, err := json.Marshal(val)
			if err != nil {
				args[i] = v
				continue
			}
			args[i] = string(encoded)
		default:
			args[i] = v
		}
	}
	return args
}
