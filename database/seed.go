package database

import (
	"fmt"
	"log"
	"os"

	"gorm.io/gorm"

	"partnerhub/model"
	"partnerhub/utils/auth"
)

func strptr(s string) *string { return &s }

// Seed creates the initial ADMIN account plus a handful of demo records.
// It is a no-op when an admin already exists, so it is safe to run on every
// deploy.
func (s *GORMStore) Seed() error {
	var count int64
	if err := s.db.Model(&model.User{}).Where("role = ?", model.RoleAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Println("Seed skipped: an ADMIN account already exists")
		return nil
	}

	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if password == "" {
		password = "admin@partnerhub"
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		admin := model.User{
			Name:       "Administrator",
			Username:   "admin",
			Password:   hashed,
			Email:      "admin@example.com",
			Role:       model.RoleAdmin,
			Department: model.DepartmentSchoolOffice,
			IsActive:   true,
		}
		if err := tx.Create(&admin).Error; err != nil {
			return fmt.Errorf("seed admin: %w", err)
		}
		log.Printf("Seeded ADMIN account %q", admin.Username)

		contacts := []model.Contact{
			{Name: "An Nguyen", Email: strptr("an.nguyen@example.com"), Phone: strptr("+84 90 123 4567"), IsActive: true},
			{Name: "Binh Tran", Email: strptr("binh.tran@example.com"), Phone: strptr("+84 91 234 5678"), IsActive: true},
			{Name: "Chi Le", Email: strptr("chi.le@example.com"), IsActive: true},
		}
		if err := tx.Create(&contacts).Error; err != nil {
			return fmt.Errorf("seed contacts: %w", err)
		}

		orgType := model.PartnerTypeOrganization
		rank := model.PartnerRankGold
		partner := model.Partner{
			Name:     "Delta Automation Co.",
			Type:     &orgType,
			Sector:   strptr("INDUSTRY"),
			Rank:     &rank,
			Address:  strptr("12 Nguyen Van Cu, Da Nang"),
			Tags:     []string{"internship", "sponsor"},
			IsActive: true,
		}
		if err := tx.Create(&partner).Error; err != nil {
			return fmt.Errorf("seed partner: %w", err)
		}

		joins := []model.PartnerContact{
			{PartnerID: partner.ID, ContactID: contacts[0].ID},
			{PartnerID: partner.ID, ContactID: contacts[1].ID},
		}
		if err := tx.Create(&joins).Error; err != nil {
			return fmt.Errorf("seed partner contacts: %w", err)
		}

		log.Printf("Seeded %d contacts and 1 partner", len(contacts))
		return nil
	})
}
