// Package service implements user account management.
package service

import (
	"context"
	"slices"
	"strings"
	"time"

	"homefinder_backend/internal/users/repository"
	"homefinder_backend/internal/users/transport"
	"homefinder_backend/platform/apperr"
	"homefinder_backend/platform/logger"
	"homefinder_backend/platform/phone"

	"github.com/google/uuid"
)

const (
	StatusActive    = "active"
	StatusInactive  = "inactive"
	StatusSuspended = "suspended"
	StatusPending   = "pending"

	RoleCustomer = "customer"
	RoleAgent    = "agent"
	RoleAdmin    = "admin"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

var (
	statuses = []string{StatusActive, StatusInactive, StatusSuspended, StatusPending}
	roles    = []string{RoleCustomer, RoleAgent, RoleAdmin}
)

// IsKnownStatus reports whether s is a user status.
func IsKnownStatus(s string) bool { return slices.Contains(statuses, s) }

// IsKnownRole reports whether s is a user role.
func IsKnownRole(s string) bool { return slices.Contains(roles, s) }

// Service provides business logic for user accounts.
type Service struct {
	repo repository.Repository
	log  *logger.Logger
	now  func() time.Time
}

// New creates a new user service.
func New(repo repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log, now: func() time.Time { return time.Now().UTC() }}
}

// List returns users newest first.
func (s *Service) List(ctx context.Context, req transport.ListUsersRequest) (transport.UserListResponse, error) {
	limit := req.Limit
	if limit < 1 {
		limit = defaultPageSize
	}
	limit = min(limit, maxPageSize)
	offset := max(req.Offset, 0)

	params := repository.ListParams{
		Status: optional(req.Status),
		Role:   optional(req.Role),
		Search: optional(req.Search),
		Limit:  limit,
		Offset: offset,
	}
	if req.AssignedAgentID != "" {
		agentID, err := uuid.Parse(req.AssignedAgentID)
		if err != nil {
			return transport.UserListResponse{}, apperr.Validation("invalid agent id")
		}
		params.AssignedAgentID = &agentID
	}

	users, total, err := s.repo.List(ctx, params)
	if err != nil {
		return transport.UserListResponse{}, err
	}

	items := make([]transport.UserResponse, 0, len(users))
	for _, u := range users {
		items = append(items, ToUserResponse(u))
	}
	return transport.UserListResponse{Total: total, Items: items, Limit: limit, Offset: offset}, nil
}

// Get returns one user.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (transport.UserResponse, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.UserResponse{}, err
	}
	return ToUserResponse(u), nil
}

// Create registers an account. Emails are stored lower-cased and phones in E.164.
func (s *Service) Create(ctx context.Context, req transport.CreateUserRequest) (transport.UserResponse, error) {
	now := s.now()
	u := repository.User{
		ID:        uuid.New(),
		Email:     normalizeEmail(req.Email),
		FirstName: trimmed(req.FirstName),
		LastName:  trimmed(req.LastName),
		Phone:     phone.NormalizeE164Ptr(req.Phone),
		Role:      orDefault(req.Role, RoleCustomer),
		Status:    orDefault(req.Status, StatusActive),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return transport.UserResponse{}, err
	}

	s.log.Info("user created", "id", u.ID, "role", u.Role)
	return ToUserResponse(u), nil
}

// Update applies a partial update.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateUserRequest) (transport.UserResponse, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.UserResponse{}, err
	}

	if req.Email != nil {
		u.Email = normalizeEmail(*req.Email)
	}
	if req.FirstName != nil {
		u.FirstName = trimmed(req.FirstName)
	}
	if req.LastName != nil {
		u.LastName = trimmed(req.LastName)
	}
	if req.Phone != nil {
		u.Phone = phone.NormalizeE164Ptr(req.Phone)
	}
	if req.Role != nil {
		u.Role = *req.Role
	}
	u.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, u); err != nil {
		return transport.UserResponse{}, err
	}
	return ToUserResponse(u), nil
}

// SetStatus changes the account status.
func (s *Service) SetStatus(ctx context.Context, id uuid.UUID, status string) (transport.StatusResponse, error) {
	if !IsKnownStatus(status) {
		return transport.StatusResponse{}, apperr.BadRequest("invalid status")
	}
	if err := s.repo.SetStatus(ctx, id, status, s.now()); err != nil {
		return transport.StatusResponse{}, err
	}
	s.log.Info("user status changed", "id", id, "status", status)
	return transport.StatusResponse{Success: true, Status: status}, nil
}

// Delete deactivates the account; rows are never removed.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.SetStatus(ctx, id, StatusInactive)
	return err
}

// AssignAgent sets or clears the customer's agent.
func (s *Service) AssignAgent(ctx context.Context, id uuid.UUID, agentID *uuid.UUID) (transport.AssignAgentResponse, error) {
	if err := s.repo.AssignAgent(ctx, id, agentID, s.now()); err != nil {
		return transport.AssignAgentResponse{}, err
	}
	return transport.AssignAgentResponse{Success: true, AssignedAgentID: agentID}, nil
}

// Stats summarises the user base. Periods start at midnight UTC, Monday for weeks.
func (s *Service) Stats(ctx context.Context) (transport.StatsResponse, error) {
	now := s.now()
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	week := day.AddDate(0, 0, -((int(day.Weekday()) + 6) % 7))
	month := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	st, err := s.repo.Stats(ctx, day, week, month)
	if err != nil {
		return transport.StatsResponse{}, err
	}
	return transport.StatsResponse{
		TotalUsers:    st.Total,
		ActiveUsers:   st.ByStatus[StatusActive],
		InactiveUsers: st.ByStatus[StatusInactive],
		NewToday:      st.NewToday,
		NewThisWeek:   st.NewThisWeek,
		NewThisMonth:  st.NewThisMonth,
		UsersByStatus: st.ByStatus,
	}, nil
}

// ToUserResponse builds the read projection.
func ToUserResponse(u repository.User) transport.UserResponse {
	return transport.UserResponse{
		ID:              u.ID,
		Email:           u.Email,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		FullName:        FullName(u.FirstName, u.LastName, u.Email),
		Phone:           u.Phone,
		Role:            u.Role,
		Status:          u.Status,
		IsActive:        u.Status == StatusActive,
		AssignedAgentID: u.AssignedAgentID,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}

// FullName joins the non-empty name parts, falling back to the email.
func FullName(first, last *string, email string) string {
	parts := make([]string, 0, 2)
	for _, p := range []*string{first, last} {
		if p != nil && strings.TrimSpace(*p) != "" {
			parts = append(parts, strings.TrimSpace(*p))
		}
	}
	if len(parts) == 0 {
		return email
	}
	return strings.Join(parts, " ")
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}

func optional(s string) *string {
	return trimmed(&s)
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
