package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/forgo/folio/internal/model"
)

// parseListParams reads pagination, sort and filters from the query string.
// Range clamping is left to the service.
func parseListParams(r *http.Request) (model.ListParams, *model.ProblemDetails) {
	q := r.URL.Query()
	var params model.ListParams

	for _, p := range []struct {
		name string
		dst  *int
	}{{"page", &params.Page}, {"page_size", &params.PageSize}} {
		raw := q.Get(p.name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return params, model.NewValidationError([]model.FieldError{{Field: p.name, Message: p.name + " must be a number"}})
		}
		*p.dst = n
	}

	params.Sort = q.Get("sort")
	params.Filter = model.ListFilter{
		Status:      model.Status(q.Get("status")),
		AuthorID:    q.Get("author_id"),
		ParentID:    q.Get("parent_id"),
		CategoryID:  q.Get("category_id"),
		Tag:         strings.TrimSpace(q.Get("tag")),
		ContentType: q.Get("content_type"),
		MimeType:    q.Get("mime_type"),
		Location:    q.Get("location"),
		Query:       strings.TrimSpace(q.Get("q")),
	}
	return params, nil
}
