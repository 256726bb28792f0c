package calendarrepo

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/bazi/internal/domain/bazi"
)

// PostgresRepository implements bazi.CalendarLookup using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Lookup fetches the row for a Gregorian date.
func (r *PostgresRepository) Lookup(ctx context.Context, date time.Time) (bazi.CalendarRecord, bool, error) {
	var rec bazi.CalendarRecord
	err := r.pool.QueryRow(ctx, `
		SELECT gregorian_date, year_ganzhi, month_ganzhi, day_ganzhi,
		       COALESCE(solar_term, ''), COALESCE(zodiac, ''),
		       COALESCE(lunar_date, ''), COALESCE(lunar_show, '')
		FROM wannianli
		WHERE gregorian_date = $1
	`, bazi.DateKey(date)).Scan(
		&rec.Date, &rec.YearPillar, &rec.MonthPillar, &rec.DayPillar,
		&rec.SolarTerm, &rec.Zodiac, &rec.LunarDate, &rec.LunarShow,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return bazi.CalendarRecord{}, false, nil
	}
	if err != nil {
		return bazi.CalendarRecord{}, false, err
	}
	return rec, true, nil
}

// LatestSolarTerm returns the most recent solar term on or before date.
func (r *PostgresRepository) LatestSolarTerm(ctx context.Context, date time.Time) (string, bool, error) {
	var term string
	err := r.pool.QueryRow(ctx, `
		SELECT solar_term
		FROM wannianli
		WHERE gregorian_date <= $1 AND solar_term IS NOT NULL AND solar_term <> ''
		ORDER BY gregorian_date DESC
		LIMIT 1
	`, bazi.DateKey(date)).Scan(&term)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return term, true, nil
}

var (
	_ bazi.CalendarLookup   = (*PostgresRepository)(nil)
	_ bazi.SolarTermLocator = (*PostgresRepository)(nil)
)

// Close releases the connection pool.
func (r *PostgresRepository) Close() error {
	r.pool.Close()
	return nil
}
