package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mr1hm/go-saferoute/internal/geography"
	"github.com/mr1hm/go-saferoute/internal/models"
	_ "modernc.org/sqlite"
)

type SQLiteDB struct {
	db *sql.DB
}

func NewSQLiteDB(path string) (*SQLiteDB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}
	// One connection keeps :memory: databases shared and serializes writers.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("error while pinging database: %w", err)
	}

	s := &SQLiteDB{
		db: db,
	}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("error while migrating to database: %w", err)
	}

	return s, nil
}

func (s *SQLiteDB) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS destinations (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			district TEXT NOT NULL,
			place TEXT NOT NULL,
			category TEXT NOT NULL CHECK (category IN ('beach', 'hill', 'wildlife')),
			budget INTEGER NOT NULL DEFAULT 0 CHECK (budget >= 0),
			description TEXT,
			image_url TEXT,
			search_count INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_destinations_district ON destinations(district);
		CREATE INDEX IF NOT EXISTS idx_destinations_category_budget ON destinations(category, budget);
	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteDB) Close() error {
	return s.db.Close()
}

const destinationColumns = `id, district, place, category, budget, description, image_url, search_count, created_at`

func (s *SQLiteDB) ListDestinations(ctx context.Context, opts Filter) ([]models.Destination, error) {
	var (
		where []string
		args  []any
	)

	if len(opts.Districts) > 0 {
		placeholders := make([]string, len(opts.Districts))
		for i, d := range opts.Districts {
			placeholders[i] = "?"
			args = append(args, d)
		}
		where = append(where, "district IN ("+strings.Join(placeholders, ", ")+")")
	}
	if opts.Category != nil {
		where = append(where, "category = ?")
		args = append(args, string(*opts.Category))
	}
	if opts.MaxBudget != nil {
		where = append(where, "budget <= ?")
		args = append(args, *opts.MaxBudget)
	}
	if q := strings.TrimSpace(opts.Query); q != "" {
		where = append(where, "(place LIKE ? OR district LIKE ?)")
		like := "%" + q + "%"
		args = append(args, like, like)
	}

	query := "SELECT " + destinationColumns + " FROM destinations"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY id"
	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing destinations: %w", err)
	}
	defer rows.Close()

	var out []models.Destination
	for rows.Next() {
		d, err := scanDestination(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating destinations: %w", err)
	}

	return out, nil
}

func (s *SQLiteDB) GetDestination(ctx context.Context, id int64) (*models.Destination, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+destinationColumns+" FROM destinations WHERE id = ?", id)
	d, err := scanDestination(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

// AddDestination inserts d and sets its ID. The district must be one of the
// known districts and the category one of the catalog's interest tags.
func (s *SQLiteDB) AddDestination(ctx context.Context, d *models.Destination) error {
	if err := validate(d); err != nil {
		return err
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now().UTC()
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO destinations (district, place, category, budget, description, image_url, search_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		d.District, d.Place, string(d.Category), d.Budget, d.Description, d.ImageURL, d.SearchCount, d.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("error adding destination: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("error reading destination id: %w", err)
	}
	d.ID = id
	return nil
}

func (s *SQLiteDB) IncrementSearchCount(ctx context.Context, ids ...int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}

	res, err := s.db.ExecContext(ctx,
		"UPDATE destinations SET search_count = search_count + 1 WHERE id IN ("+strings.Join(placeholders, ", ")+")",
		args...,
	)
	if err != nil {
		return 0, fmt.Errorf("error incrementing search count: %w", err)
	}
	return res.RowsAffected()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDestination(row scanner) (*models.Destination, error) {
	var (
		d           models.Destination
		category    string
		description sql.NullString
		imageURL    sql.NullString
	)
	err := row.Scan(&d.ID, &d.District, &d.Place, &category, &d.Budget, &description, &imageURL, &d.SearchCount, &d.CreatedAt)
	if err != nil {
		return nil, err
	}
	d.Category = models.Category(category)
	d.Description = description.String
	d.ImageURL = imageURL.String
	return &d, nil
}

func validate(d *models.Destination) error {
	district, ok := geography.Canonical(d.District)
	if !ok {
		return fmt.Errorf("%w: unknown district %q", ErrInvalidDestination, d.District)
	}
	d.District = district

	category, ok := models.ParseCategory(string(d.Category))
	if !ok {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidDestination, d.Category)
	}
	d.Category = category

	if strings.TrimSpace(d.Place) == "" {
		return fmt.Errorf("%w: place is required", ErrInvalidDestination)
	}
	if d.Budget < 0 {
		return fmt.Errorf("%w: budget must not be negative", ErrInvalidDestination)
	}
	return nil
}
