package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"homefinder_backend/internal/properties/domain"
	"homefinder_backend/platform/apperr"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const propertyNotFoundMessage = "property not found"

// importLockKey is the advisory lock id held for the duration of an import.
const importLockKey int64 = 7_264_001

const propertyColumns = `
	id, title, street_address, city, state, zip_code, price, beds, baths, sqft, lot_sqft,
	year_built, hoa_fee, property_type, status, latitude, longitude, geohash, description,
	image, alt_photos, agent_name, property_url, mls_number, price_history, is_featured,
	created_at, updated_at`

const insertPropertySQL = `
	INSERT INTO properties (
		id, title, street_address, city, state, zip_code, price, beds, baths, sqft, lot_sqft,
		year_built, hoa_fee, property_type, status, latitude, longitude, geohash, description,
		image, alt_photos, agent_name, property_url, mls_number, price_history, is_featured
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19,
		$20, $21, $22, $23, $24, $25, $26
	)`

// Repo implements Repository with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new property repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var _ Repository = (*Repo)(nil)

// Exists reports whether a listing with the identity key is already stored.
func (r *Repo) Exists(ctx context.Context, id string) (bool, error) {
	var one int
	err := r.pool.QueryRow(ctx, `SELECT 1 FROM properties WHERE id = $1 LIMIT 1`, id).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check property exists: %w", err)
	}
	return true, nil
}

// InsertMany writes the listings in a single transaction.
func (r *Repo) InsertMany(ctx context.Context, properties []domain.Property) error {
	if len(properties) == 0 {
		return nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin property batch: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	batch := &pgx.Batch{}
	for _, p := range properties {
		history, err := json.Marshal(priceHistoryOrEmpty(p.PriceHistory))
		if err != nil {
			return fmt.Errorf("encode price history for %s: %w", p.ID, err)
		}
		batch.Queue(insertPropertySQL,
			p.ID, p.Title, p.StreetAddress, p.City, p.State, p.ZipCode, p.Price, p.Beds, p.Baths,
			p.Sqft, p.LotSqft, p.YearBuilt, p.HOAFee, p.PropertyType, p.Status, p.Latitude,
			p.Longitude, p.Geohash, p.Description, p.Image, altPhotosOrEmpty(p.AltPhotos),
			p.AgentName, p.PropertyURL, p.MLSNumber, history, p.IsFeatured,
		)
	}

	results := tx.SendBatch(ctx, batch)
	for i := range properties {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			return fmt.Errorf("insert property %s: %w", properties[i].ID, err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("close property batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit property batch: %w", err)
	}
	return nil
}

// GetByID retrieves a listing by identity key.
func (r *Repo) GetByID(ctx context.Context, id string) (domain.Property, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+propertyColumns+` FROM properties WHERE id = $1`, id)
	p, err := scanProperty(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Property{}, apperr.NotFound(propertyNotFoundMessage)
		}
		return domain.Property{}, fmt.Errorf("get property by id: %w", err)
	}
	return p, nil
}

// List returns one page of listings matching params plus the total match count.
func (r *Repo) List(ctx context.Context, params ListParams) ([]domain.Property, int, error) {
	var cityParam any
	if params.City != nil {
		cityParam = "%" + *params.City + "%"
	}
	var geohashParam any
	if params.GeohashPrefix != nil {
		geohashParam = *params.GeohashPrefix + "%"
	}

	filter := `
		WHERE ($1::text IS NULL OR city ILIKE $1)
		  AND ($2::text IS NULL OR state = $2)
		  AND ($3::text IS NULL OR zip_code = $3)
		  AND ($4::bigint IS NULL OR price >= $4)
		  AND ($5::bigint IS NULL OR price <= $5)
		  AND ($6::int IS NULL OR beds >= $6)
		  AND ($7::numeric IS NULL OR baths >= $7)
		  AND ($8::text IS NULL OR property_type = $8)
		  AND ($9::text IS NULL OR status = $9)
		  AND ($10::text IS NULL OR geohash LIKE $10)`
	args := []any{
		cityParam, params.State, params.ZipCode, params.MinPrice, params.MaxPrice,
		params.MinBeds, params.MinBaths, params.PropertyType, params.Status, geohashParam,
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM properties`+filter, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count properties: %w", err)
	}

	query := `SELECT ` + propertyColumns + ` FROM properties` + filter + `
		ORDER BY created_at DESC, id
		LIMIT $11 OFFSET $12`
	rows, err := r.pool.Query(ctx, query, append(args, params.Limit, params.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list properties: %w", err)
	}
	defer rows.Close()

	items := make([]domain.Property, 0)
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan property: %w", err)
		}
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate properties: %w", err)
	}

	return items, total, nil
}

// Overview summarises the catalogue: total, mean price and busiest states.
func (r *Repo) Overview(ctx context.Context, topStates int) (Overview, error) {
	var out Overview
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*), COALESCE(AVG(price), 0)::float8
		FROM properties`).Scan(&out.Total, &out.AveragePrice)
	if err != nil {
		return Overview{}, fmt.Errorf("property overview: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT state, COUNT(*)
		FROM properties
		WHERE state IS NOT NULL AND state <> ''
		GROUP BY state
		ORDER BY COUNT(*) DESC, state
		LIMIT $1`, topStates)
	if err != nil {
		return Overview{}, fmt.Errorf("property counts by state: %w", err)
	}
	defer rows.Close()

	out.TopStates = make([]StateCount, 0, topStates)
	for rows.Next() {
		var sc StateCount
		if err := rows.Scan(&sc.State, &sc.Count); err != nil {
			return Overview{}, fmt.Errorf("scan state count: %w", err)
		}
		out.TopStates = append(out.TopStates, sc)
	}
	return out, rows.Err()
}

// Count returns the number of stored listings.
func (r *Repo) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM properties`).Scan(&total); err != nil {
		return 0, fmt.Errorf("count properties: %w", err)
	}
	return total, nil
}

// TryImportLock takes a session-level advisory lock on a dedicated connection.
func (r *Repo) TryImportLock(ctx context.Context) (func(), bool, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("acquire connection for import lock: %w", err)
	}

	var locked bool
	if err := conn.QueryRow(ctx, `SELECT pg_try_advisory_lock($1)`, importLockKey).Scan(&locked); err != nil {
		conn.Release()
		return nil, false, fmt.Errorf("acquire import lock: %w", err)
	}
	if !locked {
		conn.Release()
		return nil, false, nil
	}

	release := func() {
		_, _ = conn.Exec(context.WithoutCancel(ctx), `SELECT pg_advisory_unlock($1)`, importLockKey)
		conn.Release()
	}
	return release, true, nil
}

func scanProperty(row pgx.Row) (domain.Property, error) {
	var p domain.Property
	var history []byte
	err := row.Scan(
		&p.ID, &p.Title, &p.StreetAddress, &p.City, &p.State, &p.ZipCode, &p.Price, &p.Beds,
		&p.Baths, &p.Sqft, &p.LotSqft, &p.YearBuilt, &p.HOAFee, &p.PropertyType, &p.Status,
		&p.Latitude, &p.Longitude, &p.Geohash, &p.Description, &p.Image, &p.AltPhotos,
		&p.AgentName, &p.PropertyURL, &p.MLSNumber, &history, &p.IsFeatured, &p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return domain.Property{}, err
	}
	if len(history) > 0 {
		if err := json.Unmarshal(history, &p.PriceHistory); err != nil {
			return domain.Property{}, fmt.Errorf("decode price history: %w", err)
		}
	}
	return p, nil
}

func priceHistoryOrEmpty(history []domain.PricePoint) []domain.PricePoint {
	if history == nil {
		return []domain.PricePoint{}
	}
	return history
}

func altPhotosOrEmpty(photos []string) []string {
	if photos == nil {
		return []string{}
	}
	return photos
}
