package service

import (
	"context"

	"homefinder_backend/internal/crm/domain"
	"homefinder_backend/internal/crm/repository"
	"homefinder_backend/internal/crm/transport"
	"homefinder_backend/platform/sanitize"

	"github.com/google/uuid"
)

// ListNotes returns notes with pinned notes first.
func (s *Service) ListNotes(ctx context.Context, req transport.ListNotesRequest) (transport.NoteListResponse, error) {
	customerID, err := optionalID(req.CustomerID, "customer id")
	if err != nil {
		return transport.NoteListResponse{}, err
	}
	agentID, err := optionalID(req.AgentID, "agent id")
	if err != nil {
		return transport.NoteListResponse{}, err
	}
	limit, offset := page(req.Limit, req.Offset)

	items, total, err := s.repo.ListNotes(ctx, repository.NoteFilter{
		CustomerID: customerID,
		AgentID:    agentID,
		Category:   optional(req.Category),
		IsPinned:   req.IsPinned,
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		return transport.NoteListResponse{}, err
	}

	resp := make([]transport.NoteResponse, 0, len(items))
	for _, v := range items {
		resp = append(resp, toNoteResponse(v))
	}
	return transport.NoteListResponse{Total: total, Items: resp, Limit: limit, Offset: offset}, nil
}

// CreateNote adds a note. Markup in the content is stripped.
func (s *Service) CreateNote(ctx context.Context, req transport.CreateNoteRequest) (transport.NoteResponse, error) {
	now := s.now()
	n := domain.Note{
		ID:          uuid.New(),
		CustomerID:  req.CustomerID,
		AgentID:     req.AgentID,
		Title:       sanitize.TextPtr(req.Title),
		Content:     sanitize.Text(req.Content),
		Category:    req.Category,
		IsPinned:    req.IsPinned,
		IsImportant: req.IsImportant,
		IsPrivate:   req.IsPrivate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.CreateNote(ctx, n); err != nil {
		return transport.NoteResponse{}, err
	}

	v, err := s.repo.GetNote(ctx, n.ID)
	if err != nil {
		return transport.NoteResponse{}, err
	}
	return toNoteResponse(v), nil
}

// UpdateNote applies a partial update.
func (s *Service) UpdateNote(ctx context.Context, id uuid.UUID, req transport.UpdateNoteRequest) (transport.NoteResponse, error) {
	v, err := s.repo.GetNote(ctx, id)
	if err != nil {
		return transport.NoteResponse{}, err
	}

	n := v.Note
	if req.Title != nil {
		n.Title = sanitize.TextPtr(req.Title)
	}
	if req.Content != nil {
		n.Content = sanitize.Text(*req.Content)
	}
	if req.Category != nil {
		n.Category = req.Category
	}
	if req.IsPinned != nil {
		n.IsPinned = *req.IsPinned
	}
	if req.IsImportant != nil {
		n.IsImportant = *req.IsImportant
	}
	if req.IsPrivate != nil {
		n.IsPrivate = *req.IsPrivate
	}
	n.UpdatedAt = s.now()

	if err := s.repo.UpdateNote(ctx, n); err != nil {
		return transport.NoteResponse{}, err
	}
	v.Note = n
	return toNoteResponse(v), nil
}

// DeleteNote removes a note.
func (s *Service) DeleteNote(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteNote(ctx, id)
}

func toNoteResponse(v repository.NoteView) transport.NoteResponse {
	return transport.NoteResponse{
		ID:          v.ID,
		CustomerID:  v.CustomerID,
		AgentID:     v.AgentID,
		Title:       v.Title,
		Content:     v.Content,
		Category:    v.Category,
		IsPinned:    v.IsPinned,
		IsImportant: v.IsImportant,
		IsPrivate:   v.IsPrivate,
		CreatedAt:   v.CreatedAt,
		UpdatedAt:   v.UpdatedAt,
		AgentName:   v.AgentName,
	}
}
