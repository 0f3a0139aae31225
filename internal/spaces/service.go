package spaces

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/zenoml/showcase/internal/apperror"
)

var (
	errMissingDatabase   = errors.New("database handle is required")
	errMissingIDProvider = errors.New("id provider is required")
	noOpLogger           = zap.NewNop()
)

const (
	opServiceNew   = "spaces.service.new"
	opCreate       = "spaces.create"
	opUpdate       = "spaces.update"
	opDelete       = "spaces.delete"
	opGet          = "spaces.get"
	opList         = "spaces.list"
	opListByAuthor = "spaces.list_by_author"
	opRecordClick  = "spaces.record_click"
	opClickCount   = "spaces.click_count"
	opAnalytics    = "spaces.analytics"
)

// clickWindow is the recency window for listing click counts.
const clickWindow = 7 * 24 * time.Hour

// ServiceError carries an operation.reason code alongside the cause.
type ServiceError struct {
	code string
	err  error
}

func (e *ServiceError) Error() string {
	if e.err == nil {
		return e.code
	}
	return fmt.Sprintf("%s: %v", e.code, e.err)
}

func (e *ServiceError) Unwrap() error {
	return e.err
}

// Code returns the operation.reason identifier.
func (e *ServiceError) Code() string {
	return e.code
}

func newServiceError(operation, reason string, cause error) error {
	return &ServiceError{code: fmt.Sprintf("%s.%s", operation, reason), err: cause}
}

// IDProvider issues identifiers for new spaces and clicks.
type IDProvider interface {
	NewID() (string, error)
}

// ServiceConfig describes the dependencies for the space service.
type ServiceConfig struct {
	Database   *gorm.DB
	Clock      func() time.Time
	IDProvider IDProvider
	Logger     *zap.Logger
}

// Service owns all reads and writes against the space and click tables:
// CRUD, click recording and the analytics snapshot.
type Service struct {
	db         *gorm.DB
	clock      func() time.Time
	idProvider IDProvider
	logger     *zap.Logger
}

// NewService constructs the space service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Database == nil {
		return nil, newServiceError(opServiceNew, "missing_database", errMissingDatabase)
	}
	if cfg.IDProvider == nil {
		return nil, newServiceError(opServiceNew, "missing_id_provider", errMissingIDProvider)
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = noOpLogger
	}
	return &Service{
		db:         cfg.Database,
		clock:      clock,
		idProvider: cfg.IDProvider,
		logger:     logger,
	}, nil
}

// SpaceInput carries the space form fields as submitted by a client.
type SpaceInput struct {
	Title      string
	Subtitle   string
	URL        string
	Category   string
	Runtime    string
	Gradient   string
	Repository string
	RepoIcon   string
	Visibility string
}

type validatedInput struct {
	title      string
	subtitle   string
	targetURL  string
	category   Category
	runtime    Runtime
	gradient   Gradient
	repository string
	repoIcon   string
	visibility Visibility
}

func validateSpaceInput(input SpaceInput) (validatedInput, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return validatedInput{}, apperror.Validation("title", "title is required")
	}
	subtitle := strings.TrimSpace(input.Subtitle)
	if subtitle == "" {
		return validatedInput{}, apperror.Validation("subtitle", "subtitle is required")
	}
	targetURL, err := ValidateTargetURL(input.URL)
	if err != nil {
		return validatedInput{}, apperror.Validation("url", "a valid http(s) url is required")
	}
	category, err := ParseCategory(input.Category)
	if err != nil {
		return validatedInput{}, apperror.Validation("category", "category must be one of Audio, Image, Text, Video, Other")
	}
	runtime, err := ParseRuntime(input.Runtime)
	if err != nil {
		return validatedInput{}, apperror.Validation("runtime", "runtime must be one of ZENO, CUDA, CPU, TPU")
	}
	gradient, err := ParseGradient(input.Gradient)
	if err != nil {
		return validatedInput{}, apperror.Validation("gradient", "gradient must be a preset or a from-[#hex] to-[#hex] pair")
	}
	visibility, err := ParseVisibility(input.Visibility)
	if err != nil {
		return validatedInput{}, apperror.Validation("visibility", "visibility must be public, private or unlisted")
	}
	repository := strings.TrimSpace(input.Repository)
	return validatedInput{
		title:      title,
		subtitle:   subtitle,
		targetURL:  targetURL,
		category:   category,
		runtime:    runtime,
		gradient:   gradient,
		repository: repository,
		repoIcon:   deriveRepoIcon(repository, strings.TrimSpace(input.RepoIcon)),
		visibility: visibility,
	}, nil
}

// deriveRepoIcon resolves the owner avatar for GitHub repositories and
// leaves any client-supplied icon alone otherwise.
func deriveRepoIcon(repository, fallback string) string {
	if repository == "" || !strings.Contains(repository, "github.com") {
		return fallback
	}
	parsed, err := url.Parse(repository)
	if err != nil {
		return fallback
	}
	segments := strings.FieldsFunc(parsed.Path, func(r rune) bool { return r == '/' })
	if len(segments) == 0 {
		return fallback
	}
	return fmt.Sprintf("https://github.com/%s.png", segments[0])
}

// Create validates the input and persists a new space owned by authorID.
func (s *Service) Create(ctx context.Context, authorID string, input SpaceInput) (Space, error) {
	if strings.TrimSpace(authorID) == "" {
		return Space{}, apperror.Validation("author", "author id is required")
	}
	validated, err := validateSpaceInput(input)
	if err != nil {
		return Space{}, err
	}

	id, err := s.idProvider.NewID()
	if err != nil {
		s.logError(opCreate, "id_generation_failed", err)
		return Space{}, newServiceError(opCreate, "id_generation_failed", err)
	}

	space := Space{
		ID:         id,
		Title:      validated.title,
		Subtitle:   validated.subtitle,
		URL:        validated.targetURL,
		Category:   string(validated.category),
		Runtime:    string(validated.runtime),
		Repository: validated.repository,
		RepoIcon:   validated.repoIcon,
		Gradient:   validated.gradient.String(),
		Visibility: string(validated.visibility),
		AuthorID:   authorID,
		CreatedAt:  s.clock().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(&space).Error; err != nil {
		s.logError(opCreate, "insert_failed", err, zap.String("author_id", authorID))
		return Space{}, newServiceError(opCreate, "insert_failed", err)
	}

	s.logger.Info("space created", zap.String("space_id", space.ID), zap.String("author_id", authorID))
	return space, nil
}

// Update applies the input to an existing space after the ownership check.
// The update is scoped by both the space id and the author id, so a stale
// caller can never clobber somebody else's listing.
func (s *Service) Update(ctx context.Context, userID, spaceID string, input SpaceInput) (Space, error) {
	id, err := NewSpaceID(spaceID)
	if err != nil {
		return Space{}, apperror.Validation("id", "space id is required")
	}

	var existing Space
	err = s.db.WithContext(ctx).Where("id = ?", id.String()).Take(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Space{}, apperror.NotFound("space")
	}
	if err != nil {
		s.logError(opUpdate, "lookup_failed", err, zap.String("space_id", id.String()))
		return Space{}, newServiceError(opUpdate, "lookup_failed", err)
	}
	if existing.AuthorID != userID {
		return Space{}, apperror.Forbidden("you do not have permission to edit this space")
	}

	validated, err := validateSpaceInput(input)
	if err != nil {
		return Space{}, err
	}

	updates := map[string]interface{}{
		"title":      validated.title,
		"subtitle":   validated.subtitle,
		"url":        validated.targetURL,
		"category":   string(validated.category),
		"runtime":    string(validated.runtime),
		"repository": validated.repository,
		"repo_icon":  validated.repoIcon,
		"gradient":   validated.gradient.String(),
		"visibility": string(validated.visibility),
	}
	result := s.db.WithContext(ctx).Model(&Space{}).
		Where("id = ? AND author_id = ?", id.String(), userID).
		Updates(updates)
	if result.Error != nil {
		s.logError(opUpdate, "update_failed", result.Error, zap.String("space_id", id.String()))
		return Space{}, newServiceError(opUpdate, "update_failed", result.Error)
	}
	if result.RowsAffected == 0 {
		return Space{}, apperror.NotFound("space")
	}

	return s.GetByID(ctx, id.String())
}

// Delete removes a space and all of its clicks in one transaction, so a
// failure partway cannot leave orphaned click rows. Only the owner may
// delete.
func (s *Service) Delete(ctx context.Context, userID, spaceID string) error {
	id, err := NewSpaceID(spaceID)
	if err != nil {
		return apperror.Validation("id", "space id is required")
	}

	var existing Space
	err = s.db.WithContext(ctx).Where("id = ?", id.String()).Take(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NotFound("space")
	}
	if err != nil {
		s.logError(opDelete, "lookup_failed", err, zap.String("space_id", id.String()))
		return newServiceError(opDelete, "lookup_failed", err)
	}
	if existing.AuthorID != userID {
		return apperror.Forbidden("you do not have permission to delete this space")
	}

	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("space_id = ?", id.String()).Delete(&Click{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ? AND author_id = ?", id.String(), userID).Delete(&Space{}).Error
	})
	if txErr != nil {
		s.logError(opDelete, "delete_failed", txErr, zap.String("space_id", id.String()))
		return newServiceError(opDelete, "delete_failed", txErr)
	}

	s.logger.Info("space deleted", zap.String("space_id", id.String()), zap.String("author_id", userID))
	return nil
}

// GetByID loads a single space by identifier.
func (s *Service) GetByID(ctx context.Context, spaceID string) (Space, error) {
	id, err := NewSpaceID(spaceID)
	if err != nil {
		return Space{}, apperror.Validation("id", "space id is required")
	}
	var space Space
	err = s.db.WithContext(ctx).Where("id = ?", id.String()).Take(&space).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Space{}, apperror.NotFound("space")
	}
	if err != nil {
		s.logError(opGet, "lookup_failed", err, zap.String("space_id", id.String()))
		return Space{}, newServiceError(opGet, "lookup_failed", err)
	}
	return space, nil
}

// ListQuery narrows and orders the public listing.
type ListQuery struct {
	Search   string
	Sort     SortMode
	Category string
}

// List returns the filtered, ordered public listing. Click counts are
// restricted to the trailing seven days; DaysAgo is derived from the
// creation timestamp at query time.
func (s *Service) List(ctx context.Context, query ListQuery) ([]SpaceView, error) {
	views, err := s.loadViews(ctx, "spaces.visibility = ?", string(VisibilityPublic))
	if err != nil {
		s.logError(opList, "query_failed", err)
		return nil, newServiceError(opList, "query_failed", err)
	}
	filtered := FilterSpaces(views, query.Search, query.Category)
	return SortSpaces(filtered, query.Sort), nil
}

// ListByAuthor returns every space owned by the given user, all
// visibilities included, newest first. Used by the profile page.
func (s *Service) ListByAuthor(ctx context.Context, authorID string) ([]SpaceView, error) {
	if strings.TrimSpace(authorID) == "" {
		return nil, apperror.Validation("author", "author id is required")
	}
	views, err := s.loadViews(ctx, "spaces.author_id = ?", authorID)
	if err != nil {
		s.logError(opListByAuthor, "query_failed", err, zap.String("author_id", authorID))
		return nil, newServiceError(opListByAuthor, "query_failed", err)
	}
	return SortSpaces(views, SortLatest), nil
}

type spaceRow struct {
	Space
	AuthorName     string
	AuthorUsername string
}

func (s *Service) loadViews(ctx context.Context, condition string, args ...interface{}) ([]SpaceView, error) {
	now := s.clock().UTC()

	var rows []spaceRow
	err := s.db.WithContext(ctx).Model(&Space{}).
		Select("spaces.*, users.name AS author_name, users.username AS author_username").
		Joins("JOIN users ON users.id = spaces.author_id").
		Where(condition, args...).
		Order("spaces.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts, err := s.windowedClickCounts(ctx, now.Add(-clickWindow))
	if err != nil {
		return nil, err
	}

	views := make([]SpaceView, 0, len(rows))
	for _, row := range rows {
		views = append(views, SpaceView{
			ID:             row.ID,
			Title:          row.Title,
			Subtitle:       row.Subtitle,
			URL:            row.URL,
			Category:       row.Category,
			Runtime:        row.Runtime,
			Repository:     row.Repository,
			RepoIcon:       row.RepoIcon,
			Gradient:       row.Gradient,
			Visibility:     row.Visibility,
			AuthorID:       row.AuthorID,
			AuthorName:     row.AuthorName,
			AuthorUsername: row.AuthorUsername,
			Clicks:         counts[row.ID],
			DaysAgo:        daysBetween(row.CreatedAt, now),
			CreatedAt:      row.CreatedAt,
		})
	}
	return views, nil
}

func (s *Service) windowedClickCounts(ctx context.Context, since time.Time) (map[string]int64, error) {
	type clickCount struct {
		SpaceID string
		Total   int64
	}
	var rows []clickCount
	err := s.db.WithContext(ctx).Model(&Click{}).
		Select("space_id, COUNT(*) AS total").
		Where("created_at >= ?", since).
		Group("space_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.SpaceID] = row.Total
	}
	return counts, nil
}

func daysBetween(created, now time.Time) int {
	if created.After(now) {
		return 0
	}
	return int(now.Sub(created).Hours() / 24)
}

func (s *Service) logError(operation, reason string, err error, fields ...zap.Field) {
	attrs := []zap.Field{
		zap.String("operation", operation),
		zap.String("reason", reason),
	}
	if err != nil {
		attrs = append(attrs, zap.Error(err))
	}
	attrs = append(attrs, fields...)
	s.logger.Error("spaces service error", attrs...)
}
