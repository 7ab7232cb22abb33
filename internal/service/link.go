package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/pageza/linkbio/backend/internal/metrics"
	"github.com/pageza/linkbio/backend/internal/models"
	"github.com/pageza/linkbio/backend/internal/types"
)

// LinkService manages a user's outbound links.
type LinkService struct {
	links  LinkStore
	logger *slog.Logger
}

func NewLinkService(links LinkStore, logger *slog.Logger) *LinkService {
	if logger == nil {
		logger = slog.Default()
	}
	return &LinkService{links: links, logger: logger.With("component", "links")}
}

// ListLinks returns the user's links ordered by position.
func (s *LinkService) ListLinks(ctx context.Context, userID uuid.UUID) ([]models.Link, error) {
	links, err := s.links.ListLinksByUserID(ctx, userID)
	if err != nil {
		return nil, serverError(err, "list links")
	}
	return links, nil
}

func (s *LinkService) GetLink(ctx context.Context, id uuid.UUID) (*models.Link, error) {
	link, err := s.links.GetLinkByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, notFound(msgLinkNotFound)
		}
		return nil, serverError(err, "lookup link")
	}
	return link, nil
}

// CreateLink appends a link. Without an explicit position it goes last.
func (s *LinkService) CreateLink(ctx context.Context, userID uuid.UUID, req types.CreateLinkRequest) (*models.Link, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, invalidInput("title is required")
	}

	link := &models.Link{UserID: userID, Title: title, URL: strings.TrimSpace(req.URL)}
	if req.Position != nil {
		link.Position = *req.Position
	} else {
		existing, err := s.links.ListLinksByUserID(ctx, userID)
		if err != nil {
			return nil, serverError(err, "list links")
		}
		link.Position = len(existing)
	}

	if err := s.links.CreateLink(ctx, link); err != nil {
		return nil, serverError(err, "create link")
	}
	return link, nil
}

// UpdateLink changes a link owned by userID. Links owned by someone else are
// reported as not found.
func (s *LinkService) UpdateLink(ctx context.Context, userID, id uuid.UUID, req types.UpdateLinkRequest) (*models.Link, error) {
	link, err := s.ownedLink(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, invalidInput("title cannot be empty")
		}
		link.Title = title
	}
	if req.URL != nil {
		link.URL = strings.TrimSpace(*req.URL)
	}
	if req.Position != nil {
		link.Position = *req.Position
	}

	if err := s.links.UpdateLink(ctx, link); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, notFound(msgLinkNotFound)
		}
		return nil, serverError(err, "update link")
	}
	return link, nil
}

func (s *LinkService) DeleteLink(ctx context.Context, userID, id uuid.UUID) error {
	if _, err := s.ownedLink(ctx, userID, id); err != nil {
		return err
	}
	if err := s.links.DeleteLink(ctx, id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return notFound(msgLinkNotFound)
		}
		return serverError(err, "delete link")
	}
	return nil
}

// TrackClick increments the click counter and returns the updated link.
func (s *LinkService) TrackClick(ctx context.Context, id uuid.UUID) (*models.Link, error) {
	link, err := s.links.IncrementClicks(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, notFound(msgLinkNotFound)
		}
		return nil, serverError(err, "track click")
	}
	metrics.RecordLinkClick()
	return link, nil
}

func (s *LinkService) ownedLink(ctx context.Context, userID, id uuid.UUID) (*models.Link, error) {
	link, err := s.GetLink(ctx, id)
	if err != nil {
		return nil, err
	}
	if link.UserID != userID {
		return nil, notFound(msgLinkNotFound)
	}
	return link, nil
}
