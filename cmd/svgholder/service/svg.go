package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/svgholder/svgholder/common/apperrors"
	"github.com/svgholder/svgholder/common/cache"
	"github.com/svgholder/svgholder/common/logger"
	"github.com/svgholder/svgholder/common/models"
	"github.com/svgholder/svgholder/common/validation"
)

// User-facing messages for request-level and storage failures.
const (
	MsgSearchQueryRequired = "Search query is required"
	MsgSvgNotFound         = "SVG not found"

	msgFetchFailed  = "Failed to fetch SVGs"
	msgFetchOne     = "Failed to fetch SVG"
	msgSearchFailed = "Failed to search SVGs"
	msgUploadFailed = "Failed to upload SVG"
	msgUpdateFailed = "Failed to update SVG"
	msgDeleteFailed = "Failed to delete SVG"
)

// SvgStore is the record store contract the service operates against.
// Absent records are a normal outcome: lookups return (nil, nil) and
// delete returns false rather than an error.
type SvgStore interface {
	Insert(ctx context.Context, svg *models.Svg) error
	ListAll(ctx context.Context) ([]*models.Svg, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Svg, error)
	UpdateByID(ctx context.Context, id uuid.UUID, name, description string) (*models.Svg, error)
	DeleteByID(ctx context.Context, id uuid.UUID) (bool, error)
	Search(ctx context.Context, q string) ([]*models.Svg, error)
}

// SvgService composes validation and the record store into
// request-level semantics. Every failure it returns belongs to one of
// the three apperrors classes.
type SvgService struct {
	store    SvgStore
	cache    cache.Cache
	cacheTTL time.Duration
	log      *logger.Logger
}

// NewSvgService creates a new SVG service. cache may be nil.
func NewSvgService(store SvgStore, recordCache cache.Cache, cacheTTL time.Duration, log *logger.Logger) *SvgService {
	return &SvgService{
		store:    store,
		cache:    recordCache,
		cacheTTL: cacheTTL,
		log:      log,
	}
}

// Create validates the upload and persists a new record
func (s *SvgService) Create(ctx context.Context, name, description string, file *validation.Upload) (*models.Svg, error) {
	input, err := validation.ValidateCreate(name, description, file)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	svg := &models.Svg{
		ID:           uuid.New(),
		Name:         input.Name,
		Description:  input.Description,
		Content:      input.Content,
		FileSize:     input.FileSize,
		OriginalName: input.OriginalName,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.store.Insert(ctx, svg); err != nil {
		s.log.Error("failed to insert svg", "error", err)
		return nil, apperrors.Internal(msgUploadFailed, err)
	}

	s.log.Info("svg created",
		"svg_id", svg.ID,
		"name", svg.Name,
		"size", svg.FileSize,
	)

	return svg, nil
}

// List returns all records, newest first
func (s *SvgService) List(ctx context.Context) ([]*models.Svg, error) {
	svgs, err := s.store.ListAll(ctx)
	if err != nil {
		s.log.Error("failed to list svgs", "error", err)
		return nil, apperrors.Internal(msgFetchFailed, err)
	}

	return svgs, nil
}

// Get returns one record by id. A malformed id is treated the same as
// an id that matches nothing.
func (s *SvgService) Get(ctx context.Context, id string) (*models.Svg, error) {
	svgID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperrors.NotFound(MsgSvgNotFound)
	}

	if svg := s.cachedGet(ctx, svgID); svg != nil {
		return svg, nil
	}

	svg, err := s.store.FindByID(ctx, svgID)
	if err != nil {
		s.log.Error("failed to get svg", "svg_id", svgID, "error", err)
		return nil, apperrors.Internal(msgFetchOne, err)
	}
	if svg == nil {
		return nil, apperrors.NotFound(MsgSvgNotFound)
	}

	s.cachePut(ctx, svg)

	return svg, nil
}

// Search returns records matching the query. The query must be
// present; guarding here keeps an empty pattern from reaching the
// store, where it would match every record.
func (s *SvgService) Search(ctx context.Context, q string) ([]*models.Svg, error) {
	if q == "" {
		return nil, apperrors.Validation(MsgSearchQueryRequired)
	}

	svgs, err := s.store.Search(ctx, q)
	if err != nil {
		s.log.Error("failed to search svgs", "query", q, "error", err)
		return nil, apperrors.Internal(msgSearchFailed, err)
	}

	return svgs, nil
}

// Update changes name and description of an existing record
func (s *SvgService) Update(ctx context.Context, id, name, description string) (*models.Svg, error) {
	name, description, err := validation.ValidateUpdate(name, description)
	if err != nil {
		return nil, err
	}

	svgID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperrors.NotFound(MsgSvgNotFound)
	}

	svg, err := s.store.UpdateByID(ctx, svgID, name, description)
	if err != nil {
		s.log.Error("failed to update svg", "svg_id", svgID, "error", err)
		return nil, apperrors.Internal(msgUpdateFailed, err)
	}
	if svg == nil {
		return nil, apperrors.NotFound(MsgSvgNotFound)
	}

	s.cacheDrop(ctx, svgID)

	s.log.Info("svg updated", "svg_id", svgID, "name", svg.Name)

	return svg, nil
}

// Delete removes a record. Deleting an id that matches nothing is a
// not-found outcome, not success.
func (s *SvgService) Delete(ctx context.Context, id string) error {
	svgID, err := uuid.Parse(id)
	if err != nil {
		return apperrors.NotFound(MsgSvgNotFound)
	}

	deleted, err := s.store.DeleteByID(ctx, svgID)
	if err != nil {
		s.log.Error("failed to delete svg", "svg_id", svgID, "error", err)
		return apperrors.Internal(msgDeleteFailed, err)
	}
	if !deleted {
		return apperrors.NotFound(MsgSvgNotFound)
	}

	s.cacheDrop(ctx, svgID)

	s.log.Info("svg deleted", "svg_id", svgID)

	return nil
}

// Cache helpers. The cache is a read-through for single records only;
// a cache fault degrades to a store read, never to a request failure.

func cacheKey(id uuid.UUID) string {
	return "svg:" + id.String()
}

func (s *SvgService) cachedGet(ctx context.Context, id uuid.UUID) *models.Svg {
	if s.cache == nil {
		return nil
	}

	data, ok, err := s.cache.Get(ctx, cacheKey(id))
	if err != nil || !ok {
		return nil
	}

	svg := &models.Svg{}
	if err := json.Unmarshal(data, svg); err != nil {
		s.log.Warn("dropping undecodable cache entry", "svg_id", id, "error", err)
		_ = s.cache.Delete(ctx, cacheKey(id))
		return nil
	}

	return svg
}

func (s *SvgService) cachePut(ctx context.Context, svg *models.Svg) {
	if s.cache == nil {
		return
	}

	data, err := json.Marshal(svg)
	if err != nil {
		return
	}

	if err := s.cache.Set(ctx, cacheKey(svg.ID), data, s.cacheTTL); err != nil {
		s.log.Warn("cache set failed", "svg_id", svg.ID, "error", err)
	}
}

func (s *SvgService) cacheDrop(ctx context.Context, id uuid.UUID) {
	if s.cache == nil {
		return
	}

	if err := s.cache.Delete(ctx, cacheKey(id)); err != nil {
		s.log.Warn("cache invalidation failed", "svg_id", id, "error", err)
	}
}
