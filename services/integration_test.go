//go:build integration

package services

import (
	"fmt"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"partnerhub/model"
	"partnerhub/utils/query"
)

var testDB *gorm.DB

func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		fmt.Println("TEST_DATABASE_DSN not set, skipping integration tests")
		os.Exit(0)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		fmt.Println("failed to connect to test database:", err)
		os.Exit(1)
	}

	err = db.AutoMigrate(
		&model.User{},
		&model.Contact{},
		&model.Partner{},
		&model.Event{},
		&model.PartnerContact{},
		&model.EventContact{},
		&model.PartnerEvent{},
	)
	if err != nil {
		fmt.Println("failed to migrate test database:", err)
		os.Exit(1)
	}

	testDB = db
	os.Exit(m.Run())
}

// wipe clears every table in dependency order so tests start clean
func wipe(t *testing.T) {
	t.Helper()
	for _, mdl := range []interface{}{
		&model.PartnerEvent{}, &model.EventContact{}, &model.PartnerContact{},
		&model.Event{}, &model.Partner{}, &model.Contact{}, &model.User{},
	} {
		require.NoError(t, testDB.Where("1 = 1").Delete(mdl).Error)
	}
}

func mkContact(t *testing.T, name string) model.Contact {
	t.Helper()
	c := model.Contact{Name: name, IsActive: true}
	require.NoError(t, testDB.Create(&c).Error)
	return c
}

func mkUser(t *testing.T, username string) model.User {
	t.Helper()
	u := model.User{
		Name:       username,
		Username:   username,
		Password:   "x",
		Role:       model.RoleUser,
		Department: model.DepartmentElectrical,
		IsActive:   true,
	}
	require.NoError(t, testDB.Create(&u).Error)
	return u
}

func TestPartnerCreateWithContacts(t *testing.T) {
	wipe(t)
	svc := NewPartnerService(testDB)

	c1 := mkContact(t, "First Contact")
	c2 := mkContact(t, "Second Contact")

	partner := model.Partner{Name: "Acme Robotics", IsActive: true}
	require.NoError(t, svc.Create(&partner, []string{c1.ID, c2.ID}))

	got, err := svc.GetByID(partner.ID)
	require.NoError(t, err)
	require.Len(t, got.PartnerContacts, 2)
	for _, pc := range got.PartnerContacts {
		require.NotEmpty(t, pc.Contact.Name)
	}
}

func TestPartnerUpdateReplacesContactSet(t *testing.T) {
	wipe(t)
	svc := NewPartnerService(testDB)

	c1 := mkContact(t, "Old One")
	c2 := mkContact(t, "Old Two")
	c3 := mkContact(t, "New One")

	partner := model.Partner{Name: "Replace Co", IsActive: true}
	require.NoError(t, svc.Create(&partner, []string{c1.ID, c2.ID}))

	require.NoError(t, svc.Update(&partner, []string{c3.ID}))

	got, err := svc.GetByID(partner.ID)
	require.NoError(t, err)
	require.Len(t, got.PartnerContacts, 1)
	require.Equal(t, c3.ID, got.PartnerContacts[0].ContactID)

	// Empty list clears the association set entirely
	require.NoError(t, svc.Update(&partner, nil))
	got, err = svc.GetByID(partner.ID)
	require.NoError(t, err)
	require.Len(t, got.PartnerContacts, 0)
}

func TestPartnerCreateUnknownContactRollsBack(t *testing.T) {
	wipe(t)
	svc := NewPartnerService(testDB)

	c1 := mkContact(t, "Real Contact")

	partner := model.Partner{Name: "Doomed Co", IsActive: true}
	err := svc.Create(&partner, []string{c1.ID, uuid.NewString()})
	require.ErrorIs(t, err, ErrReferentialIntegrity)

	// Nothing half-applied: no partner row, no join rows
	var partners, joins int64
	require.NoError(t, testDB.Model(&model.Partner{}).Count(&partners).Error)
	require.NoError(t, testDB.Model(&model.PartnerContact{}).Count(&joins).Error)
	require.Zero(t, partners)
	require.Zero(t, joins)
}

func TestPartnerDeleteBlockedByEvents(t *testing.T) {
	wipe(t)
	partnerSvc := NewPartnerService(testDB)
	eventSvc := NewEventService(testDB)

	owner := mkUser(t, "owner")
	partner := model.Partner{Name: "Linked Co", IsActive: true}
	require.NoError(t, partnerSvc.Create(&partner, nil))

	event := model.Event{Title: "Joint Workshop", Status: model.EventStatusActive, UserID: owner.ID}
	require.NoError(t, eventSvc.Create(&event, nil, []string{partner.ID}))

	err := partnerSvc.Delete(partner.ID)
	require.ErrorIs(t, err, ErrReferentialIntegrity)

	_, err = partnerSvc.GetByID(partner.ID)
	require.NoError(t, err)
}

func TestPartnerDeleteUnknownID(t *testing.T) {
	wipe(t)
	svc := NewPartnerService(testDB)
	require.ErrorIs(t, svc.Delete(uuid.NewString()), ErrNotFound)
}

func TestEventUpdateRewritesBothJoinSets(t *testing.T) {
	wipe(t)
	partnerSvc := NewPartnerService(testDB)
	eventSvc := NewEventService(testDB)

	owner := mkUser(t, "organizer")
	c1 := mkContact(t, "Contact A")
	c2 := mkContact(t, "Contact B")

	p1 := model.Partner{Name: "Partner A", IsActive: true}
	require.NoError(t, partnerSvc.Create(&p1, nil))
	p2 := model.Partner{Name: "Partner B", IsActive: true}
	require.NoError(t, partnerSvc.Create(&p2, nil))

	event := model.Event{Title: "Career Fair", Status: model.EventStatusPending, UserID: owner.ID}
	require.NoError(t, eventSvc.Create(&event, []string{c1.ID}, []string{p1.ID}))

	got, err := eventSvc.GetByID(event.ID)
	require.NoError(t, err)
	require.Len(t, got.EventContacts, 1)
	require.Len(t, got.PartnerEvents, 1)

	require.NoError(t, eventSvc.Update(&event, []string{c2.ID}, []string{p2.ID}))

	got, err = eventSvc.GetByID(event.ID)
	require.NoError(t, err)
	require.Len(t, got.EventContacts, 1)
	require.Equal(t, c2.ID, got.EventContacts[0].ContactID)
	require.Len(t, got.PartnerEvents, 1)
	require.Equal(t, p2.ID, got.PartnerEvents[0].PartnerID)
}

func TestEventCreateUnknownPartnerRollsBack(t *testing.T) {
	wipe(t)
	eventSvc := NewEventService(testDB)
	owner := mkUser(t, "owner2")

	event := model.Event{Title: "Ghost Event", Status: model.EventStatusProspect, UserID: owner.ID}
	err := eventSvc.Create(&event, nil, []string{uuid.NewString()})
	require.ErrorIs(t, err, ErrReferentialIntegrity)

	var events int64
	require.NoError(t, testDB.Model(&model.Event{}).Count(&events).Error)
	require.Zero(t, events)
}

func TestEventAppendDocument(t *testing.T) {
	wipe(t)
	eventSvc := NewEventService(testDB)
	owner := mkUser(t, "uploader")

	event := model.Event{Title: "Docs Event", Status: model.EventStatusActive, UserID: owner.ID}
	require.NoError(t, eventSvc.Create(&event, nil, nil))

	got, err := eventSvc.AppendDocument(event.ID, "https://cdn.example.com/a.pdf")
	require.NoError(t, err)
	require.Equal(t, []string{"https://cdn.example.com/a.pdf"}, []string(got.Documents))

	got, err = eventSvc.AppendDocument(event.ID, "https://cdn.example.com/b.pdf")
	require.NoError(t, err)
	require.Len(t, got.Documents, 2)
}

var contactListColumns = query.ColumnConfig{
	Columns: map[string]string{
		"name":     "name",
		"isActive": "is_active",
	},
	Searchable: []string{"name", "email"},
}

func TestListTotalCountStableAcrossPages(t *testing.T) {
	wipe(t)
	for i := 0; i < 5; i++ {
		mkContact(t, fmt.Sprintf("Paged %d", i))
	}

	seen := map[string]bool{}
	for page := 0; page < 3; page++ {
		compiled, err := query.Compile(query.Descriptor{
			Pagination: query.Pagination{PageIndex: page, PageSize: 2},
			Sort:       query.Sort{Column: "name", Type: "asc"},
		}, contactListColumns)
		require.NoError(t, err)

		var total int64
		require.NoError(t, compiled.Scope(testDB.Model(&model.Contact{})).Count(&total).Error)
		require.EqualValues(t, 5, total)

		var rows []model.Contact
		require.NoError(t, compiled.Page(compiled.Scope(testDB.Model(&model.Contact{}))).Find(&rows).Error)
		for _, r := range rows {
			require.False(t, seen[r.ID], "row %s returned on more than one page", r.Name)
			seen[r.ID] = true
		}
	}
	require.Len(t, seen, 5)
}

func TestListFiltersAndSearch(t *testing.T) {
	wipe(t)

	active := mkContact(t, "Alpha Industries")
	mkContact(t, "Beta Group")
	inactive := model.Contact{Name: "Alpha Dormant", IsActive: false}
	require.NoError(t, testDB.Create(&inactive).Error)

	// Search is case-insensitive substring match
	compiled, err := query.Compile(query.Descriptor{SearchText: "alpha"}, contactListColumns)
	require.NoError(t, err)

	var rows []model.Contact
	require.NoError(t, compiled.Page(compiled.Scope(testDB.Model(&model.Contact{}))).Find(&rows).Error)
	require.Len(t, rows, 2)

	// Filters AND together with the search
	compiled, err = query.Compile(query.Descriptor{
		SearchText: "alpha",
		Filter:     []query.Filter{{Column: "isActive", Value: true}},
	}, contactListColumns)
	require.NoError(t, err)

	rows = nil
	require.NoError(t, compiled.Page(compiled.Scope(testDB.Model(&model.Contact{}))).Find(&rows).Error)
	require.Len(t, rows, 1)
	require.Equal(t, active.ID, rows[0].ID)
}

func TestListArrayFilterMeansIn(t *testing.T) {
	wipe(t)

	mkContact(t, "One")
	mkContact(t, "Two")
	mkContact(t, "Three")

	compiled, err := query.Compile(query.Descriptor{
		Filter: []query.Filter{{Column: "name", Value: []interface{}{"One", "Three"}}},
	}, contactListColumns)
	require.NoError(t, err)

	var rows []model.Contact
	require.NoError(t, compiled.Page(compiled.Scope(testDB.Model(&model.Contact{}))).Find(&rows).Error)
	require.Len(t, rows, 2)
}
