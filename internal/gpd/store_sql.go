package gpd

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
)

type SQLStore struct {
	db     *sql.DB
	driver string // "sqlite" or "postgres"
}

func NewSQLStore(db *sql.DB, driver string) *SQLStore {
	return &SQLStore{db: db, driver: driver}
}

func (s *SQLStore) ReplaceTerms(ctx context.Context, terms []LeaderTerm) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM leader_terms`); err != nil {
		return fmt.Errorf("clear terms: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO leader_terms
		(country,leader,party,lr,president,term,start_of_term,year_begin,end_of_term,year_end,year_end_numeric,wb_region,region,total_average,speeches_json)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, t := range terms {
		sj, err := json.Marshal(t.Speeches)
		if err != nil {
			return err
		}
		president := 0
		if t.President {
			president = 1
		}
		if _, err := stmt.ExecContext(ctx,
			t.Country, t.Leader, nullString(t.Party), nullInt(t.LR), president, t.Term,
			t.StartOfTerm, t.YearBegin, t.EndOfTerm, t.YearEnd, t.YearEndNumeric,
			t.WBRegion, t.Region, nullFloat(t.TotalAverage), string(sj)); err != nil {
			return fmt.Errorf("insert %s/%s: %w", t.Country, t.Leader, err)
		}
	}
	return tx.Commit()
}

func (s *SQLStore) Terms(ctx context.Context, f TermFilter) ([]LeaderTerm, error) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, strings.ReplaceAll(cond, "?", fmt.Sprintf("$%d", len(args))))
	}
	if f.Country != "" {
		add("country = ?", f.Country)
	}
	if f.Leader != "" {
		add("leader = ?", f.Leader)
	}
	// a term overlaps the window when it starts before its end and ends after its start
	if f.YearEnd != nil {
		add("year_begin <= ?", *f.YearEnd)
	}
	if f.YearStart != nil {
		add("year_end_numeric >= ?", *f.YearStart)
	}
	if f.MinPopulism != nil {
		add("total_average >= ?", *f.MinPopulism)
	}
	if f.Ideology != nil {
		add("lr = ?", *f.Ideology)
	}

	q := `SELECT country,leader,party,lr,president,term,start_of_term,year_begin,end_of_term,year_end,year_end_numeric,wb_region,region,total_average,speeches_json
		FROM leader_terms`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY id"

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []LeaderTerm
	for rows.Next() {
		var (
			t         LeaderTerm
			party     sql.NullString
			lr        sql.NullInt64
			president int
			total     sql.NullFloat64
			sj        string
		)
		if err := rows.Scan(&t.Country, &t.Leader, &party, &lr, &president, &t.Term,
			&t.StartOfTerm, &t.YearBegin, &t.EndOfTerm, &t.YearEnd, &t.YearEndNumeric,
			&t.WBRegion, &t.Region, &total, &sj); err != nil {
			return nil, err
		}
		if party.Valid {
			t.Party = &party.String
		}
		if lr.Valid {
			v := int(lr.Int64)
			t.LR = &v
		}
		if total.Valid {
			t.TotalAverage = &total.Float64
		}
		t.President = president == 1
		if err := json.Unmarshal([]byte(sj), &t.Speeches); err != nil {
			return nil, fmt.Errorf("decode speeches for %s/%s: %w", t.Country, t.Leader, err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *SQLStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM leader_terms`).Scan(&n)
	return n, err
}

func (s *SQLStore) Countries(ctx context.Context) ([]string, error) {
	return s.distinct(ctx, "country")
}

func (s *SQLStore) Regions(ctx context.Context) ([]string, []string, error) {
	regions, err := s.distinct(ctx, "region")
	if err != nil {
		return nil, nil, err
	}
	wb, err := s.distinct(ctx, "wb_region")
	if err != nil {
		return nil, nil, err
	}
	return regions, wb, nil
}

// distinct lists the non-empty values of a trusted column name.
func (s *SQLStore) distinct(ctx context.Context, col string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT `+col+` FROM leader_terms WHERE `+col+` <> '' ORDER BY `+col)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (s *SQLStore) Leaders(ctx context.Context, country string) ([]Leader, error) {
	q := `SELECT DISTINCT leader, country, party FROM leader_terms`
	var args []any
	if country != "" {
		q += ` WHERE country = $1`
		args = append(args, country)
	}
	q += ` ORDER BY country, leader`
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Leader{}
	for rows.Next() {
		var (
			l     Leader
			party sql.NullString
		)
		if err := rows.Scan(&l.Leader, &l.Country, &party); err != nil {
			return nil, err
		}
		if party.Valid {
			l.Party = &party.String
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func nullString(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}

func nullInt(p *int) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}

func nullFloat(p *float64) sql.NullFloat64 {
	if p == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *p, Valid: true}
}
