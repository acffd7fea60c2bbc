package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/qhwu/CN-Trade-Sessions/internal/session"
)

// UpsertSessionDefs writes every spec into session_defs, replacing any
// existing row with the same id.
func UpsertSessionDefs(db *sql.DB, tsUTC time.Time, specs map[string]session.Spec) error {
	if len(specs) == 0 {
		return nil
	}
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO session_defs(
			id, name, offset_min, auction_from, auction_to, sections, products, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name=excluded.name,
			offset_min=excluded.offset_min,
			auction_from=excluded.auction_from,
			auction_to=excluded.auction_to,
			sections=excluded.sections,
			products=excluded.products,
			updated_at=excluded.updated_at
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	ts := fixedRFC3339Nano(tsUTC)
	for id, sp := range specs {
		sections, err := json.Marshal(sp.Sections)
		if err != nil {
			return fmt.Errorf("marshal sections id=%s: %w", id, err)
		}
		products, err := json.Marshal(sp.Products)
		if err != nil {
			return fmt.Errorf("marshal products id=%s: %w", id, err)
		}

		var aFrom, aTo sql.NullInt64
		if sp.Auction != nil {
			aFrom = sql.NullInt64{Int64: int64(sp.Auction.From), Valid: true}
			aTo = sql.NullInt64{Int64: int64(sp.Auction.To), Valid: true}
		}

		if _, err := stmt.Exec(id, sp.Name, sp.Offset, aFrom, aTo, string(sections), string(products), ts); err != nil {
			return fmt.Errorf("upsert session_defs id=%s: %w", id, err)
		}
	}
	return tx.Commit()
}

// QuerySessionDefs reads back all stored definitions keyed by id.
func QuerySessionDefs(db *sql.DB) (map[string]session.Spec, error) {
	rows, err := db.Query(`
		SELECT id, name, offset_min, auction_from, auction_to, sections, products
		FROM session_defs
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]session.Spec)
	for rows.Next() {
		var (
			id, name, sections string
			products           sql.NullString
			offset             int
			aFrom, aTo         sql.NullInt64
		)
		if err := rows.Scan(&id, &name, &offset, &aFrom, &aTo, &sections, &products); err != nil {
			return nil, err
		}

		sp := session.Spec{Name: name, Offset: offset}
		if aFrom.Valid && aTo.Valid {
			sp.Auction = &session.WindowSpec{From: int(aFrom.Int64), To: int(aTo.Int64)}
		}
		if err := json.Unmarshal([]byte(sections), &sp.Sections); err != nil {
			return nil, fmt.Errorf("unmarshal sections id=%s: %w", id, err)
		}
		if products.Valid && products.String != "" {
			if err := json.Unmarshal([]byte(products.String), &sp.Products); err != nil {
				return nil, fmt.Errorf("unmarshal products id=%s: %w", id, err)
			}
		}
		out[id] = sp
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
