package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"partnerhub/model"
)

// PartnerService owns partner persistence, including the contact join set.
// Create and Update run inside one transaction each: either the partner row
// and its full association set land together, or nothing does.
type PartnerService struct {
	db *gorm.DB
}

// NewPartnerService creates a new partner service
func NewPartnerService(db *gorm.DB) *PartnerService {
	return &PartnerService{db: db}
}

// GetByID fetches one partner with its contacts eager-loaded
func (s *PartnerService) GetByID(id string) (*model.Partner, error) {
	var partner model.Partner
	err := s.db.Preload("PartnerContacts.Contact").First(&partner, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &partner, nil
}

// Create inserts the partner row plus one join row per contact ID
func (s *PartnerService) Create(partner *model.Partner, contactIDs []string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := ensureRowsExist(tx, &model.Contact{}, contactIDs); err != nil {
			return err
		}

		if err := tx.Create(partner).Error; err != nil {
			return err
		}

		return insertPartnerContacts(tx, partner.ID, contactIDs)
	})
}

// Update saves the partner row and replaces its entire contact join set.
// An empty contactIDs list removes every association. Replacement is
// last-writer-wins: two concurrent updates do not merge.
func (s *PartnerService) Update(partner *model.Partner, contactIDs []string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := ensureRowsExist(tx, &model.Contact{}, contactIDs); err != nil {
			return err
		}

		if err := tx.Save(partner).Error; err != nil {
			return err
		}

		if err := tx.Where("partner_id = ?", partner.ID).Delete(&model.PartnerContact{}).Error; err != nil {
			return err
		}

		return insertPartnerContacts(tx, partner.ID, contactIDs)
	})
}

// UpdateStatus toggles the soft-disable flag
func (s *PartnerService) UpdateStatus(id string, isActive bool) (*model.Partner, error) {
	var partner model.Partner
	if err := s.db.First(&partner, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	partner.IsActive = isActive
	if err := s.db.Save(&partner).Error; err != nil {
		return nil, err
	}
	return &partner, nil
}

// Delete hard-deletes a partner and its contact joins. Partners still
// referenced by events are not deleted; the events keep their history.
func (s *PartnerService) Delete(id string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var dependents int64
		if err := tx.Model(&model.PartnerEvent{}).Where("partner_id = ?", id).Count(&dependents).Error; err != nil {
			return err
		}
		if dependents > 0 {
			return fmt.Errorf("%w: partner is linked to %d event(s)", ErrReferentialIntegrity, dependents)
		}

		if err := tx.Where("partner_id = ?", id).Delete(&model.PartnerContact{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&model.Partner{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func insertPartnerContacts(tx *gorm.DB, partnerID string, contactIDs []string) error {
	if len(contactIDs) == 0 {
		return nil
	}

	joins := make([]model.PartnerContact, 0, len(contactIDs))
	for _, contactID := range contactIDs {
		joins = append(joins, model.PartnerContact{
			PartnerID: partnerID,
			ContactID: contactID,
		})
	}

	if err := tx.Create(&joins).Error; err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: unknown contact id", ErrReferentialIntegrity)
		}
		return err
	}
	return nil
}

// ensureRowsExist fails the transaction early when any listed ID has no row,
// so the caller gets the referential-integrity error instead of a half-applied
// join set. The schema-level foreign keys back this up as a second line.
func ensureRowsExist(tx *gorm.DB, mdl interface{}, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	unique := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		unique[id] = struct{}{}
	}

	distinct := make([]string, 0, len(unique))
	for id := range unique {
		distinct = append(distinct, id)
	}

	var found int64
	if err := tx.Model(mdl).Where("id IN ?", distinct).Count(&found).Error; err != nil {
		return err
	}
	if found != int64(len(distinct)) {
		return fmt.Errorf("%w: %d of %d referenced ids missing", ErrReferentialIntegrity, int64(len(distinct))-found, len(distinct))
	}
	return nil
}
