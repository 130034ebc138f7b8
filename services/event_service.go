package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"partnerhub/model"
)

// EventService owns event persistence and the two event join sets
// (contacts and partners). The same rewrite rule applies to both: on update
// the stored set is replaced wholesale by the submitted ID list.
type EventService struct {
	db *gorm.DB
}

// NewEventService creates a new event service
func NewEventService(db *gorm.DB) *EventService {
	return &EventService{db: db}
}

// GetByID fetches one event with contacts, partners and owner eager-loaded
func (s *EventService) GetByID(id string) (*model.Event, error) {
	var event model.Event
	err := s.db.
		Preload("EventContacts.Contact").
		Preload("PartnerEvents.Partner").
		Preload("User").
		First(&event, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &event, nil
}

// Create inserts the event row plus one join row per listed contact and partner
func (s *EventService) Create(event *model.Event, contactIDs, partnerIDs []string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := ensureRowsExist(tx, &model.Contact{}, contactIDs); err != nil {
			return err
		}
		if err := ensureRowsExist(tx, &model.Partner{}, partnerIDs); err != nil {
			return err
		}

		if err := tx.Create(event).Error; err != nil {
			return err
		}

		if err := insertEventContacts(tx, event.ID, contactIDs); err != nil {
			return err
		}
		return insertPartnerEvents(tx, event.ID, partnerIDs)
	})
}

// Update saves the event row and replaces both join sets with the submitted
// lists. Empty lists clear the corresponding associations.
func (s *EventService) Update(event *model.Event, contactIDs, partnerIDs []string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := ensureRowsExist(tx, &model.Contact{}, contactIDs); err != nil {
			return err
		}
		if err := ensureRowsExist(tx, &model.Partner{}, partnerIDs); err != nil {
			return err
		}

		if err := tx.Save(event).Error; err != nil {
			return err
		}

		if err := tx.Where("event_id = ?", event.ID).Delete(&model.EventContact{}).Error; err != nil {
			return err
		}
		if err := tx.Where("event_id = ?", event.ID).Delete(&model.PartnerEvent{}).Error; err != nil {
			return err
		}

		if err := insertEventContacts(tx, event.ID, contactIDs); err != nil {
			return err
		}
		return insertPartnerEvents(tx, event.ID, partnerIDs)
	})
}

// AppendDocument adds an uploaded file URL to the event's document list
func (s *EventService) AppendDocument(id string, url string) (*model.Event, error) {
	var event model.Event
	if err := s.db.First(&event, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	event.Documents = append(event.Documents, url)
	if err := s.db.Save(&event).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

func insertEventContacts(tx *gorm.DB, eventID string, contactIDs []string) error {
	if len(contactIDs) == 0 {
		return nil
	}

	joins := make([]model.EventContact, 0, len(contactIDs))
	for _, contactID := range contactIDs {
		joins = append(joins, model.EventContact{
			EventID:   eventID,
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

func insertPartnerEvents(tx *gorm.DB, eventID string, partnerIDs []string) error {
	if len(partnerIDs) == 0 {
		return nil
	}

	joins := make([]model.PartnerEvent, 0, len(partnerIDs))
	for _, partnerID := range partnerIDs {
		joins = append(joins, model.PartnerEvent{
			EventID:   eventID,
			PartnerID: partnerID,
		})
	}

	if err := tx.Create(&joins).Error; err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: unknown partner id", ErrReferentialIntegrity)
		}
		return err
	}
	return nil
}
