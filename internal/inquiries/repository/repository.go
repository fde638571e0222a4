// Package repository stores contact-form inquiries in PostgreSQL.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"homefinder_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	inquiryNotFound = "inquiry not found"
	inquiryColumns  = `id, name, email, phone, message, inquiry_type, property_id, property_address,
		property_price, status, email_sent, email_sent_at, created_at, updated_at`
)

// Inquiry is a stored contact-form submission.
type Inquiry struct {
	ID              uuid.UUID
	Name            string
	Email           string
	Phone           *string
	Message         string
	InquiryType     string
	PropertyID      *string
	PropertyAddress *string
	PropertyPrice   *int64
	Status          string
	EmailSent       bool
	EmailSentAt     *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ListParams filters the inquiry list. Nil filters are ignored.
type ListParams struct {
	Status      *string
	InquiryType *string
	PropertyID  *string
	Limit       int
	Offset      int
}

// Stats counts inquiries for the admin dashboard.
type Stats struct {
	Total          int
	New            int
	Responded      int
	TourRequests   int
	OfferInquiries int
	EmailsSent     int
}

// Repository is the inquiry store.
type Repository interface {
	Create(ctx context.Context, in Inquiry) error
	GetByID(ctx context.Context, id uuid.UUID) (Inquiry, error)
	List(ctx context.Context, p ListParams) ([]Inquiry, int, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string, at time.Time) error
	MarkEmailSent(ctx context.Context, id uuid.UUID, at time.Time) error
	Stats(ctx context.Context) (Stats, error)
}

// Repo implements Repository with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new inquiry repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var _ Repository = (*Repo)(nil)

func (r *Repo) Create(ctx context.Context, in Inquiry) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO inquiries (`+inquiryColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		in.ID, in.Name, in.Email, in.Phone, in.Message, in.InquiryType, in.PropertyID, in.PropertyAddress,
		in.PropertyPrice, in.Status, in.EmailSent, in.EmailSentAt, in.CreatedAt, in.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert inquiry: %w", err)
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (Inquiry, error) {
	in, err := scanInquiry(r.pool.QueryRow(ctx, `SELECT `+inquiryColumns+` FROM inquiries WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Inquiry{}, apperr.NotFound(inquiryNotFound)
	}
	if err != nil {
		return Inquiry{}, fmt.Errorf("get inquiry: %w", err)
	}
	return in, nil
}

// List returns inquiries newest first.
func (r *Repo) List(ctx context.Context, p ListParams) ([]Inquiry, int, error) {
	where := `
		WHERE ($1::text IS NULL OR status = $1)
		AND ($2::text IS NULL OR inquiry_type = $2)
		AND ($3::text IS NULL OR property_id = $3)`
	args := []any{p.Status, p.InquiryType, p.PropertyID}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM inquiries`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count inquiries: %w", err)
	}

	rows, err := r.pool.Query(ctx, `SELECT `+inquiryColumns+` FROM inquiries`+where+`
		ORDER BY created_at DESC, id
		LIMIT $4 OFFSET $5`, append(args, p.Limit, p.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list inquiries: %w", err)
	}
	defer rows.Close()

	items := make([]Inquiry, 0)
	for rows.Next() {
		in, err := scanInquiry(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan inquiry: %w", err)
		}
		items = append(items, in)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate inquiries: %w", err)
	}
	return items, total, nil
}

func (r *Repo) UpdateStatus(ctx context.Context, id uuid.UUID, status string, at time.Time) error {
	tag, err := r.pool.Exec(ctx, `UPDATE inquiries SET status = $2, updated_at = $3 WHERE id = $1`, id, status, at)
	if err != nil {
		return fmt.Errorf("update inquiry status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(inquiryNotFound)
	}
	return nil
}

// MarkEmailSent flags the staff alert as delivered. The first stamp wins.
func (r *Repo) MarkEmailSent(ctx context.Context, id uuid.UUID, at time.Time) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE inquiries
		SET email_sent = TRUE, email_sent_at = COALESCE(email_sent_at, $2), updated_at = $2
		WHERE id = $1`, id, at)
	if err != nil {
		return fmt.Errorf("mark inquiry email sent: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(inquiryNotFound)
	}
	return nil
}

func (r *Repo) Stats(ctx context.Context) (Stats, error) {
	var s Stats
	err := r.pool.QueryRow(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'new'),
			COUNT(*) FILTER (WHERE status = 'responded'),
			COUNT(*) FILTER (WHERE inquiry_type = 'schedule_tour'),
			COUNT(*) FILTER (WHERE inquiry_type = 'make_offer'),
			COUNT(*) FILTER (WHERE email_sent)
		FROM inquiries`,
	).Scan(&s.Total, &s.New, &s.Responded, &s.TourRequests, &s.OfferInquiries, &s.EmailsSent)
	if err != nil {
		return Stats{}, fmt.Errorf("count inquiries: %w", err)
	}
	return s, nil
}

func scanInquiry(row pgx.Row) (Inquiry, error) {
	var in Inquiry
	err := row.Scan(
		&in.ID, &in.Name, &in.Email, &in.Phone, &in.Message, &in.InquiryType, &in.PropertyID, &in.PropertyAddress,
		&in.PropertyPrice, &in.Status, &in.EmailSent, &in.EmailSentAt, &in.CreatedAt, &in.UpdatedAt,
	)
	return in, err
}
