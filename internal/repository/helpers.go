package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/forgo/folio/internal/database"
	"github.com/surrealdb/surrealdb.go/pkg/models"
)

// errUnexpectedFormat is returned when SurrealDB hands back a shape we cannot decode.
var errUnexpectedFormat = errors.New("unexpected result format")

// field is one column in a SET clause. A nil value is written as NONE so the
// key is removed from the document.
type field struct {
	name  string
	value interface{}
}

// setClause renders fields as "a = $a, b = NONE" and records the bound values in vars.
// Field names are code constants, never request input.
func setClause(fields []field, vars map[string]interface{}) string {
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		if isNil(f.value) {
			parts = append(parts, f.name+" = NONE")
			continue
		}
		parts = append(parts, fmt.Sprintf("%s = $%s", f.name, f.name))
		vars[f.name] = f.value
	}
	return strings.Join(parts, ", ")
}

func isNil(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return true
	case *string:
		return t == nil
	case *float64:
		return t == nil
	}
	return false
}

// datetime converts an optional time into a SurrealDB datetime value.
func datetime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return &models.CustomDateTime{Time: t.UTC()}
}

// document converts nested structs to plain maps/slices so they are stored as
// SurrealDB objects using their json field names.
func document(v interface{}) interface{} {
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var out interface{}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil
	}
	return out
}

// stringsOrEmpty keeps arrays present in stored documents.
func stringsOrEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// statementResult returns the result array of the i-th statement in a Query response.
func statementResult(results []interface{}, i int) ([]interface{}, error) {
	if len(results) <= i {
		return nil, errUnexpectedFormat
	}
	resp, ok := results[i].(map[string]interface{})
	if !ok {
		return nil, errUnexpectedFormat
	}
	switch data := resp["result"].(type) {
	case []interface{}:
		return data, nil
	case nil:
		return nil, nil
	default:
		return []interface{}{data}, nil
	}
}

// decodeRecord converts one SurrealDB record into T. Record ids are flattened
// to "table:key" strings before decoding.
func decodeRecord[T any](result interface{}) (*T, error) {
	if result == nil {
		return nil, database.ErrNotFound
	}

	if arr, ok := result.([]interface{}); ok {
		if len(arr) == 0 {
			return nil, database.ErrNotFound
		}
		result = arr[0]
	}

	data, ok := result.(map[string]interface{})
	if !ok {
		return nil, errUnexpectedFormat
	}
	normalizeIDs(data)

	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	var out T
	if err := json.Unmarshal(jsonBytes, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// decodeRecords decodes every record of the first statement.
func decodeRecords[T any](results []interface{}) ([]*T, error) {
	rows, err := statementResult(results, 0)
	if err != nil {
		return nil, err
	}
	out := make([]*T, 0, len(rows))
	for _, row := range rows {
		rec, err := decodeRecord[T](row)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// normalizeIDs rewrites record-id values (the id itself and any stored links)
// to their string form.
func normalizeIDs(data map[string]interface{}) {
	for k, v := range data {
		switch v.(type) {
		case models.RecordID, *models.RecordID:
			data[k] = convertSurrealID(v)
		}
	}
	if id, ok := data["id"]; ok {
		data["id"] = convertSurrealID(id)
	}
}

// convertSurrealID converts a SurrealDB ID (which may be a complex object) to a string
func convertSurrealID(id interface{}) string {
	if str, ok := id.(string); ok {
		return str
	}

	if rid, ok := id.(models.RecordID); ok {
		return fmt.Sprintf("%s:%v", rid.Table, rid.ID)
	}
	if rid, ok := id.(*models.RecordID); ok && rid != nil {
		return fmt.Sprintf("%s:%v", rid.Table, rid.ID)
	}

	// Handle map format: {"tb": "page", "id": {"String": "demo"}} or similar
	if m, ok := id.(map[string]interface{}); ok {
		tb, _ := m["tb"].(string)
		if tb == "" {
			tb, _ = m["Table"].(string)
		}
		idPart := ""
		if idVal, ok := m["id"]; ok {
			idPart = extractIDValue(idVal)
		} else if idVal, ok := m["ID"]; ok {
			idPart = extractIDValue(idVal)
		}
		if tb != "" && idPart != "" {
			return tb + ":" + idPart
		}
		if idPart != "" {
			return idPart
		}
	}

	return fmt.Sprintf("%v", id)
}

// extractIDValue extracts the ID value which may be nested
func extractIDValue(val interface{}) string {
	if str, ok := val.(string); ok {
		return str
	}
	if m, ok := val.(map[string]interface{}); ok {
		if s, ok := m["String"].(string); ok {
			return s
		}
	}
	return fmt.Sprintf("%v", val)
}

// extractCount reads the count from a "SELECT count() ... GROUP ALL" statement.
// GROUP ALL over zero rows yields an empty result, which is a count of 0.
func extractCount(results []interface{}, i int) int {
	rows, err := statementResult(results, i)
	if err != nil || len(rows) == 0 {
		return 0
	}
	if data, ok := rows[0].(map[string]interface{}); ok {
		return extractCountValue(data["count"])
	}
	return 0
}

// extractCountValue converts various numeric types to int
func extractCountValue(v interface{}) int {
	switch c := v.(type) {
	case float64:
		return int(c)
	case float32:
		return int(c)
	case int:
		return c
	case int64:
		return int(c)
	case uint64:
		return int(c)
	}
	return 0
}

// getString extracts a string value from a map
func getString(m map[string]interface{}, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}
