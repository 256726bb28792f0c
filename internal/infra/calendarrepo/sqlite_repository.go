package calendarrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/yanqian/bazi/internal/domain/bazi"
)

// calendarRow maps the wannianli table produced by the calendar conversion tooling.
type calendarRow struct {
	GregorianDate string `gorm:"column:gregorian_date;primaryKey"`
	YearGanzhi    string `gorm:"column:year_ganzhi"`
	MonthGanzhi   string `gorm:"column:month_ganzhi"`
	DayGanzhi     string `gorm:"column:day_ganzhi"`
	SolarTerm     string `gorm:"column:solar_term"`
	Zodiac        string `gorm:"column:zodiac"`
	LunarDate     string `gorm:"column:lunar_date"`
	LunarShow     string `gorm:"column:lunar_show"`
}

func (calendarRow) TableName() string { return "wannianli" }

func (r calendarRow) record() bazi.CalendarRecord {
	return bazi.CalendarRecord{
		Date:        r.GregorianDate,
		YearPillar:  r.YearGanzhi,
		MonthPillar: r.MonthGanzhi,
		DayPillar:   r.DayGanzhi,
		LunarDate:   r.LunarDate,
		LunarShow:   r.LunarShow,
		SolarTerm:   r.SolarTerm,
		Zodiac:      r.Zodiac,
	}
}

func rowFromRecord(rec bazi.CalendarRecord) calendarRow {
	return calendarRow{
		GregorianDate: rec.Date,
		YearGanzhi:    rec.YearPillar,
		MonthGanzhi:   rec.MonthPillar,
		DayGanzhi:     rec.DayPillar,
		SolarTerm:     rec.SolarTerm,
		Zodiac:        rec.Zodiac,
		LunarDate:     rec.LunarDate,
		LunarShow:     rec.LunarShow,
	}
}

// OpenSQLite opens a calendar database file with gorm's logger silenced.
func OpenSQLite(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("open calendar sqlite: %w", err)
	}
	return db, nil
}

// SQLiteRepository implements bazi.CalendarLookup using gorm.
type SQLiteRepository struct {
	db *gorm.DB
}

// NewSQLiteRepository constructs the repository.
func NewSQLiteRepository(db *gorm.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Migrate creates the wannianli table when it does not exist.
func (r *SQLiteRepository) Migrate() error {
	return r.db.AutoMigrate(&calendarRow{})
}

// Upsert writes records, replacing rows that share a date.
func (r *SQLiteRepository) Upsert(ctx context.Context, records ...bazi.CalendarRecord) error {
	if len(records) == 0 {
		return nil
	}
	rows := make([]calendarRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, rowFromRecord(rec))
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).CreateInBatches(rows, 500).Error
}

// Lookup fetches the row for a Gregorian date.
func (r *SQLiteRepository) Lookup(ctx context.Context, date time.Time) (bazi.CalendarRecord, bool, error) {
	var row calendarRow
	err := r.db.WithContext(ctx).Where("gregorian_date = ?", bazi.DateKey(date)).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return bazi.CalendarRecord{}, false, nil
	}
	if err != nil {
		return bazi.CalendarRecord{}, false, err
	}
	return row.record(), true, nil
}

// LatestSolarTerm returns the most recent solar term on or before date.
func (r *SQLiteRepository) LatestSolarTerm(ctx context.Context, date time.Time) (string, bool, error) {
	var row calendarRow
	err := r.db.WithContext(ctx).
		Where("gregorian_date <= ? AND solar_term IS NOT NULL AND solar_term <> ''", bazi.DateKey(date)).
		Order("gregorian_date DESC").
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return row.SolarTerm, true, nil
}

// Close releases the underlying connection pool.
func (r *SQLiteRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

var (
	_ bazi.CalendarLookup   = (*SQLiteRepository)(nil)
	_ bazi.SolarTermLocator = (*SQLiteRepository)(nil)
)
