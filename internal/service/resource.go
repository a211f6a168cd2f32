package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/forgo/folio/internal/database"
	"github.com/forgo/folio/internal/model"
)

// Renderer converts Markdown source to HTML
type Renderer interface {
	HTML(source string) (string, error)
}

// SlugChecker reports whether a slug is used by a record other than excludeID
type SlugChecker interface {
	SlugTaken(ctx context.Context, slug, excludeID string) (bool, error)
}

// AuthorLookup loads the users named by author_id references
type AuthorLookup interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
}

// parseID normalizes a path id for table
func parseID(table, raw string) (string, error) {
	id, ok := model.ParseRecordID(table, raw)
	if !ok {
		return "", ErrInvalidID
	}
	return id, nil
}

// fetch loads a record by raw id, mapping a missing record to ErrNotFound
func fetch[T any](ctx context.Context, table, raw string, get func(context.Context, string) (*T, error)) (*T, error) {
	id, err := parseID(table, raw)
	if err != nil {
		return nil, err
	}
	rec, err := get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", table, err)
	}
	if rec == nil {
		return nil, ErrNotFound
	}
	return rec, nil
}

// fetchBySlug loads a record by slug, mapping a missing record to ErrNotFound
func fetchBySlug[T any](ctx context.Context, table, slug string, get func(context.Context, string) (*T, error)) (*T, error) {
	if strings.TrimSpace(slug) == "" {
		return nil, ErrNotFound
	}
	rec, err := get(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("get %s by slug: %w", table, err)
	}
	if rec == nil {
		return nil, ErrNotFound
	}
	return rec, nil
}

// list normalizes params, runs the listing and wraps it as a page of results
func list[T any](ctx context.Context, table string, params model.ListParams, run func(context.Context, model.ListParams) ([]*T, int, error)) (*model.ListResult[T], error) {
	params.Normalize()
	if err := normalizeFilter(&params.Filter, table); err != nil {
		return nil, err
	}
	items, total, err := run(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", table, err)
	}
	return model.NewListResult(items, total, params), nil
}

// normalizeFilter qualifies reference filters so they match stored "table:key"
// values. Parents always live in the listed table.
func normalizeFilter(f *model.ListFilter, table string) error {
	if f.Status != "" && !f.Status.Valid() {
		return invalidField("status", "status must be one of draft, published, archived")
	}
	type ref struct {
		value *string
		table string
	}
	refs := []ref{{&f.AuthorID, model.TableUser}, {&f.CategoryID, model.TableCategory}}
	if f.ParentID != "none" {
		refs = append(refs, ref{&f.ParentID, table})
	}
	for _, r := range refs {
		if *r.value == "" {
			continue
		}
		id, err := parseID(r.table, *r.value)
		if err != nil {
			return err
		}
		*r.value = id
	}
	return nil
}

// resolveSlug picks the slug for a write and checks it is free in its collection
func resolveSlug(ctx context.Context, slugs SlugChecker, in model.SlugInput, excludeID string) (string, error) {
	slug, err := model.ResolveSlug(in)
	if errors.Is(err, model.ErrInvalidSlug) {
		field := "slug"
		if in.Slug == nil || strings.TrimSpace(*in.Slug) == "" {
			field = "custom_slug"
		}
		return "", invalidField(field, err.Error())
	}
	if err != nil {
		return "", err
	}
	if slug == "" {
		return "", invalidField("title", "title must contain at least one letter or digit")
	}

	taken, err := slugs.SlugTaken(ctx, slug, excludeID)
	if err != nil {
		return "", fmt.Errorf("check slug: %w", err)
	}
	if taken {
		return "", ErrDuplicateSlug
	}
	return slug, nil
}

// storeErr translates a write failure. A unique index violation becomes dup;
// everything else is wrapped as a storage failure.
func storeErr(op string, err error, dup error) error {
	if errors.Is(err, database.ErrDuplicate) {
		return dup
	}
	if errors.Is(err, database.ErrNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}

// parentOf returns the stored parent of id, or found=false when id does not exist
type parentOf func(ctx context.Context, id string) (parent *string, found bool, err error)

// checkParent validates a requested parent for the record selfID ("" on
// create) and returns the normalized parent id. A nil or empty request
// detaches the record. The walk rejects self-parenting, cycles through
// ancestors and chains deeper than model.MaxParentDepth.
func checkParent(ctx context.Context, table, selfID string, requested *string, lookup parentOf) (*string, error) {
	if requested == nil || *requested == "" {
		return nil, nil
	}
	parentID, ok := model.ParseRecordID(table, *requested)
	if !ok {
		return nil, invalidField("parent_id", "parent_id is not a valid id")
	}
	if selfID != "" && parentID == selfID {
		return nil, invalidField("parent_id", "cannot be its own parent")
	}

	cur := parentID
	for depth := 0; ; depth++ {
		next, found, err := lookup(ctx, cur)
		if err != nil {
			return nil, fmt.Errorf("load parent: %w", err)
		}
		if !found {
			if depth == 0 {
				return nil, invalidField("parent_id", ErrParentNotFound.Error())
			}
			break
		}
		if next == nil || *next == "" {
			break
		}
		if selfID != "" && *next == selfID {
			return nil, invalidField("parent_id", "would create a parent cycle")
		}
		if depth+1 >= model.MaxParentDepth {
			return nil, invalidField("parent_id", "parent chain is too deep")
		}
		cur = *next
	}
	return &parentID, nil
}

// normalizeRefs qualifies ids for table. Callers validate first, so
// malformed ids are passed through unchanged.
func normalizeRefs(table string, ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, raw := range ids {
		if id, ok := model.ParseRecordID(table, raw); ok {
			out = append(out, id)
			continue
		}
		out = append(out, raw)
	}
	return out
}

// normalizeRef qualifies an optional single reference; "" clears it
func normalizeRef(table string, raw *string) *string {
	if raw == nil || *raw == "" {
		return nil
	}
	id := normalizeRefs(table, []string{*raw})[0]
	return &id
}

// statusOr returns the requested status or fallback
func statusOr(requested *string, fallback model.Status) model.Status {
	if requested == nil {
		return fallback
	}
	return model.Status(*requested)
}

// populateAuthor looks up the author summary; a missing user leaves it nil
func populateAuthor(ctx context.Context, users AuthorLookup, authorID string) *model.AuthorSummary {
	if users == nil || authorID == "" {
		return nil
	}
	u, err := users.GetByID(ctx, authorID)
	if err != nil || u == nil {
		return nil
	}
	return u.Summary()
}

// clock returns now, defaulting to time.Now
func clock(now func() time.Time) func() time.Time {
	if now == nil {
		return time.Now
	}
	return now
}
