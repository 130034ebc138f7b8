// Package query turns the list-request descriptor sent by the admin UI into a
// database query. Compile is a pure function from a descriptor plus a
// per-resource column config to an immutable Compiled value; applying the
// result to GORM is a separate step so the translation stays unit-testable.
package query

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// ErrInvalidQuery marks a descriptor referencing unknown columns or an
// unknown sort direction. Handlers map it to a 400 instead of leaking the
// store's own error.
var ErrInvalidQuery = errors.New("invalid query")

// Pagination selects the page window. A zero PageSize disables pagination
// and returns every matching row.
type Pagination struct {
	PageIndex  int   `json:"pageIndex"`
	PageSize   int   `json:"pageSize"`
	TotalCount int64 `json:"totalCount"`
}

// Sort orders by a single column. A zero value means store-default order.
type Sort struct {
	Column string `json:"column"`
	Type   string `json:"type"` // "asc" or "desc"
}

// Filter is one column predicate. A scalar Value means equality; an array
// Value means "column is one of these values".
type Filter struct {
	Column string      `json:"column"`
	Value  interface{} `json:"value"`
}

// Descriptor is the generic list request: pagination, free-text search,
// column filters (combined with AND) and a single-column sort.
type Descriptor struct {
	Pagination Pagination `json:"pagination"`
	SearchText string     `json:"searchText"`
	Sort       Sort       `json:"sort"`
	Filter     []Filter   `json:"filter"`
}

// ColumnConfig wires the generic compiler to one resource.
type ColumnConfig struct {
	// Columns maps the JSON column names accepted in filter and sort entries
	// to database column names.
	Columns map[string]string
	// Searchable lists the database columns matched by SearchText.
	Searchable []string
}

// Condition is one compiled filter predicate.
type Condition struct {
	Column string
	In     bool
	Values []interface{}
}

// Compiled is the immutable query spec produced by Compile.
type Compiled struct {
	Conditions    []Condition
	Search        string
	SearchColumns []string
	OrderColumn   string
	OrderDesc     bool
	Limit         int // 0 = unpaginated
	Offset        int
}

// Compile validates the descriptor against cfg and produces a Compiled spec.
func Compile(d Descriptor, cfg ColumnConfig) (Compiled, error) {
	var q Compiled

	for _, f := range d.Filter {
		column, ok := cfg.Columns[f.Column]
		if !ok {
			return Compiled{}, fmt.Errorf("%w: unknown filter column %q", ErrInvalidQuery, f.Column)
		}

		cond := Condition{Column: column}
		if values, isArray := f.Value.([]interface{}); isArray {
			cond.In = true
			cond.Values = values
		} else {
			cond.Values = []interface{}{f.Value}
		}
		q.Conditions = append(q.Conditions, cond)
	}

	if d.SearchText != "" {
		q.Search = d.SearchText
		q.SearchColumns = cfg.Searchable
	}

	if d.Sort.Column != "" {
		column, ok := cfg.Columns[d.Sort.Column]
		if !ok {
			return Compiled{}, fmt.Errorf("%w: unknown sort column %q", ErrInvalidQuery, d.Sort.Column)
		}
		switch d.Sort.Type {
		case "asc", "":
		case "desc":
			q.OrderDesc = true
		default:
			return Compiled{}, fmt.Errorf("%w: unknown sort direction %q", ErrInvalidQuery, d.Sort.Type)
		}
		q.OrderColumn = column
	}

	if d.Pagination.PageSize > 0 {
		q.Limit = d.Pagination.PageSize
		if d.Pagination.PageIndex > 0 {
			q.Offset = d.Pagination.PageIndex * d.Pagination.PageSize
		}
	}

	return q, nil
}

// Scope applies the compiled where-clause (filters AND search). The count
// query and the page query share this scope, which keeps totalCount
// consistent with the full matching set rather than the current page.
func (q Compiled) Scope(db *gorm.DB) *gorm.DB {
	for _, cond := range q.Conditions {
		if cond.In {
			db = db.Where(fmt.Sprintf("%s IN ?", cond.Column), cond.Values)
		} else {
			db = db.Where(fmt.Sprintf("%s = ?", cond.Column), cond.Values[0])
		}
	}

	if q.Search != "" && len(q.SearchColumns) > 0 {
		clauses := make([]string, 0, len(q.SearchColumns))
		args := make([]interface{}, 0, len(q.SearchColumns))
		pattern := "%" + q.Search + "%"
		for _, column := range q.SearchColumns {
			clauses = append(clauses, fmt.Sprintf("%s ILIKE ?", column))
			args = append(args, pattern)
		}
		db = db.Where(strings.Join(clauses, " OR "), args...)
	}

	return db
}

// Page applies ordering and the pagination window on top of Scope.
func (q Compiled) Page(db *gorm.DB) *gorm.DB {
	if q.OrderColumn != "" {
		direction := "ASC"
		if q.OrderDesc {
			direction = "DESC"
		}
		db = db.Order(fmt.Sprintf("%s %s", q.OrderColumn, direction))
	}

	if q.Limit > 0 {
		db = db.Limit(q.Limit).Offset(q.Offset)
	}

	return db
}
