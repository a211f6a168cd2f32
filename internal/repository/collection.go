package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/forgo/folio/internal/database"
	"github.com/forgo/folio/internal/model"
)

// collection holds the queries shared by every table: lookups by id and slug,
// slug existence checks, paginated listing, and SET-based writes.
type collection struct {
	db       database.Database
	table    string
	sortable []string
}

// conditions accumulates WHERE clauses and their bound variables.
type conditions struct {
	clauses []string
	vars    map[string]interface{}
}

func newConditions() *conditions {
	return &conditions{vars: make(map[string]interface{})}
}

// add appends clause when value is non-empty; clause refers to $name.
func (c *conditions) add(clause, name string, value string) {
	if value == "" {
		return
	}
	c.clauses = append(c.clauses, clause)
	c.vars[name] = value
}

func (c *conditions) where() string {
	if len(c.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(c.clauses, " AND ")
}

// commonConditions applies the filters every content table understands.
func commonConditions(f model.ListFilter) *conditions {
	c := newConditions()
	c.add("status = $status", "status", string(f.Status))
	c.add("author_id = $author_id", "author_id", f.AuthorID)
	c.add("string::contains(string::lowercase(title), $q)", "q", strings.ToLower(strings.TrimSpace(f.Query)))
	return c
}

// parentCondition filters on parent_id; "none" selects top-level records.
func parentCondition(c *conditions, parentID string) {
	if parentID == "none" {
		c.clauses = append(c.clauses, "parent_id = NONE")
		return
	}
	c.add("parent_id = $parent_id", "parent_id", parentID)
}

func (c collection) getByID(ctx context.Context, id string) (interface{}, error) {
	query := `SELECT * FROM type::record($id)`
	vars := map[string]interface{}{"id": id}
	return c.one(ctx, query, vars)
}

func (c collection) getByField(ctx context.Context, name, value string) (interface{}, error) {
	query := fmt.Sprintf("SELECT * FROM %s WHERE %s = $value LIMIT 1", c.table, name)
	vars := map[string]interface{}{"value": value}
	return c.one(ctx, query, vars)
}

// one returns nil, nil when the query matches nothing.
func (c collection) one(ctx context.Context, query string, vars map[string]interface{}) (interface{}, error) {
	result, err := c.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return result, nil
}

// slugTaken reports whether another record in the table already uses slug.
func (c collection) slugTaken(ctx context.Context, slug, excludeID string) (bool, error) {
	return c.valueTaken(ctx, "slug", slug, excludeID)
}

func (c collection) valueTaken(ctx context.Context, name, value, excludeID string) (bool, error) {
	query := fmt.Sprintf("SELECT count() AS count FROM %s WHERE %s = $value", c.table, name)
	vars := map[string]interface{}{"value": value}
	if excludeID != "" {
		query += " AND id != type::record($exclude)"
		vars["exclude"] = excludeID
	}
	query += " GROUP ALL"

	results, err := c.db.Query(ctx, query, vars)
	if err != nil {
		return false, err
	}
	return extractCount(results, 0) > 0, nil
}

// create inserts a record and returns it as stored.
func (c collection) create(ctx context.Context, fields []field) (interface{}, error) {
	vars := make(map[string]interface{})
	query := fmt.Sprintf("CREATE %s SET %s, created_on = time::now(), updated_on = time::now() RETURN AFTER",
		c.table, setClause(fields, vars))

	result, err := c.db.QueryOne(ctx, query, vars)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", c.table, err)
	}
	return result, nil
}

// update overwrites the given fields and returns the record as stored.
func (c collection) update(ctx context.Context, id string, fields []field) (interface{}, error) {
	vars := map[string]interface{}{}
	query := fmt.Sprintf("UPDATE type::record($id) SET %s, updated_on = time::now() RETURN AFTER",
		setClause(fields, vars))
	vars["id"] = id

	result, err := c.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update %s: %w", c.table, err)
	}
	return result, nil
}

func (c collection) delete(ctx context.Context, id string) error {
	query := `DELETE type::record($id)`
	vars := map[string]interface{}{"id": id}
	return c.db.Execute(ctx, query, vars)
}

// list runs the page query and the count query in one round trip.
func (c collection) list(ctx context.Context, params model.ListParams, cond *conditions) ([]interface{}, int, error) {
	sortField, desc := params.SortField(c.sortable...)
	direction := "ASC"
	if desc {
		direction = "DESC"
	}

	where := cond.where()
	query := fmt.Sprintf(
		"SELECT * FROM %s%s ORDER BY %s %s LIMIT $limit START $start; SELECT count() AS count FROM %s%s GROUP ALL;",
		c.table, where, sortField, direction, c.table, where,
	)
	vars := cond.vars
	vars["limit"] = params.PageSize
	vars["start"] = params.Offset()

	results, err := c.db.Query(ctx, query, vars)
	if err != nil {
		return nil, 0, fmt.Errorf("list %s: %w", c.table, err)
	}
	rows, err := statementResult(results, 0)
	if err != nil {
		return nil, 0, err
	}
	return rows, extractCount(results, 1), nil
}

// listOf decodes a listing into typed records.
func listOf[T any](ctx context.Context, c collection, params model.ListParams, cond *conditions) ([]*T, int, error) {
	rows, total, err := c.list(ctx, params, cond)
	if err != nil {
		return nil, 0, err
	}
	items := make([]*T, 0, len(rows))
	for _, row := range rows {
		item, err := decodeRecord[T](row)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, item)
	}
	return items, total, nil
}

// getOf fetches and decodes one record; nil, nil when absent.
func getOf[T any](result interface{}, err error) (*T, error) {
	if err != nil || result == nil {
		return nil, err
	}
	return decodeRecord[T](result)
}
