package spaces

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/zenoml/showcase/internal/apperror"
)

// RecordClick appends one click event for the space and returns the new
// unwindowed total. Appends are at-least-once: a retried request records a
// second click rather than deduplicating, since no idempotency key exists
// in the click contract.
func (s *Service) RecordClick(ctx context.Context, spaceID string) (int64, error) {
	id, err := NewSpaceID(spaceID)
	if err != nil {
		return 0, apperror.Validation("spaceId", "space id is required")
	}

	var total int64
	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var space Space
		err := tx.Select("id").Where("id = ?", id.String()).Take(&space).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("space")
		}
		if err != nil {
			return newServiceError(opRecordClick, "lookup_failed", err)
		}

		clickID, err := s.idProvider.NewID()
		if err != nil {
			return newServiceError(opRecordClick, "id_generation_failed", err)
		}
		click := Click{
			ID:        clickID,
			SpaceID:   id.String(),
			CreatedAt: s.clock().UTC(),
		}
		if err := tx.Create(&click).Error; err != nil {
			return newServiceError(opRecordClick, "insert_failed", err)
		}

		return tx.Model(&Click{}).Where("space_id = ?", id.String()).Count(&total).Error
	})
	if txErr != nil {
		if !errors.Is(txErr, apperror.ErrNotFound) {
			s.logError(opRecordClick, "transaction_failed", txErr, zap.String("space_id", id.String()))
		}
		return 0, txErr
	}

	return total, nil
}

// ClickCount returns the total number of clicks ever recorded for the
// space. A valid id with no matching space yields 0, not an error; only a
// missing id is rejected.
func (s *Service) ClickCount(ctx context.Context, spaceID string) (int64, error) {
	if strings.TrimSpace(spaceID) == "" {
		return 0, apperror.Validation("spaceId", "space id is required")
	}

	var total int64
	err := s.db.WithContext(ctx).Model(&Click{}).
		Where("space_id = ?", strings.TrimSpace(spaceID)).
		Count(&total).Error
	if err != nil {
		s.logError(opClickCount, "count_failed", err, zap.String("space_id", spaceID))
		return 0, newServiceError(opClickCount, "count_failed", err)
	}
	return total, nil
}
