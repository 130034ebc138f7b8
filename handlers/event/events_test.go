package event

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"partnerhub/utils/query"
)

func TestUploadDocumentWithoutStorageConfigured(t *testing.T) {
	h := NewEventHandler(nil, nil)

	app := fiber.New()
	app.Post("/api/event/:id/documents/upload", h.UploadDocument)

	req := httptest.NewRequest("POST", "/api/event/abc/documents/upload", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}

func TestEventColumnConfig(t *testing.T) {
	// Sorting on a date column must compile to the snake_case store column
	compiled, err := query.Compile(query.Descriptor{
		Sort: query.Sort{Column: "startDate", Type: "desc"},
	}, eventColumns)
	require.NoError(t, err)
	assert.Equal(t, "start_date", compiled.OrderColumn)
	assert.True(t, compiled.OrderDesc)

	// Description is searchable but not filterable
	_, err = query.Compile(query.Descriptor{
		Filter: []query.Filter{{Column: "description", Value: "x"}},
	}, eventColumns)
	assert.ErrorIs(t, err, query.ErrInvalidQuery)
	assert.Contains(t, eventColumns.Searchable, "description")
}
