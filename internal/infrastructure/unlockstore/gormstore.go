package unlockstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"tailorcv/internal/domain/entitlement"
	"tailorcv/internal/shared/biztime"
)

// UnlockModel is the persisted row for a purchase record. Unlike the memory
// and Redis backends this one survives restarts, which keeps confirmation
// cheap even after a deploy.
type UnlockModel struct {
	SessionID   string `gorm:"primaryKey;size:255"`
	Kind        string `gorm:"size:16;not null"`
	Credits     int
	ExpiresAt   time.Time `gorm:"index;not null"`
	Email       string    `gorm:"index;size:255"`
	AmountTotal int64
	CreatedAt   time.Time
}

func (UnlockModel) TableName() string {
	return "unlocks"
}

// GormStore backs the purchase cache with a sqlite table.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if err := db.AutoMigrate(&UnlockModel{}); err != nil {
		return nil, fmt.Errorf("failed to migrate unlocks table: %w", err)
	}
	return &GormStore{db: db}, nil
}

func (s *GormStore) Save(ctx context.Context, record *entitlement.PurchaseRecord) error {
	model := &UnlockModel{
		SessionID:   record.SessionID,
		Kind:        string(record.Kind),
		Credits:     record.Credits,
		ExpiresAt:   record.ExpiresAt,
		Email:       record.Email,
		AmountTotal: record.AmountTotal,
		CreatedAt:   record.CreatedAt,
	}

	if err := s.db.WithContext(ctx).Save(model).Error; err != nil {
		return fmt.Errorf("failed to save unlock: %w", err)
	}
	return nil
}

func (s *GormStore) GetBySession(ctx context.Context, sessionID string) (*entitlement.PurchaseRecord, error) {
	var model UnlockModel

	err := s.db.WithContext(ctx).First(&model, "session_id = ?", sessionID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get unlock: %w", err)
	}

	if biztime.NowUTC().After(model.ExpiresAt) {
		s.db.WithContext(ctx).Delete(&UnlockModel{}, "session_id = ?", sessionID)
		return nil, nil
	}
	return modelToRecord(&model), nil
}

func (s *GormStore) GetLatestByEmail(ctx context.Context, email string) (*entitlement.PurchaseRecord, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var model UnlockModel
	err := s.db.WithContext(ctx).
		Where("email = ?", email).
		Order("created_at DESC").
		First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get unlock by email: %w", err)
	}

	if biztime.NowUTC().After(model.ExpiresAt) {
		s.db.WithContext(ctx).Delete(&UnlockModel{}, "session_id = ?", model.SessionID)
		return nil, nil
	}
	return modelToRecord(&model), nil
}

func modelToRecord(m *UnlockModel) *entitlement.PurchaseRecord {
	return &entitlement.PurchaseRecord{
		SessionID:   m.SessionID,
		Kind:        entitlement.Kind(m.Kind),
		Credits:     m.Credits,
		ExpiresAt:   m.ExpiresAt,
		Email:       m.Email,
		AmountTotal: m.AmountTotal,
		CreatedAt:   m.CreatedAt,
	}
}
