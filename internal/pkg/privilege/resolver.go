// Package privilege holds the pure decision logic for reconciling a target
// user's assigned privileges against the server-maintained catalog: extracting
// the assigned set from loosely-shaped upstream payloads, diffing it against
// the catalog, and resolving user-selected tokens to submittable catalog ids.
package privilege

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// detailAliases is the field scan order for a user-detail payload's privilege
// list. The upstream detail endpoint has been observed to vary both casing and
// singular/plural across deployments.
var detailAliases = []string{
	"privileges",
	"Privileges",
	"privilege",
	"Privilege",
	"permissions",
	"Permissions",
}

// nameAliases is the field scan order for a privilege entry's display name.
var nameAliases = []string{"name", "privilegeName", "Name"}

// idAliases is the field scan order for a privilege entry's identifier.
var idAliases = []string{"privilegeId", "id"}

// CatalogEntry is one privilege the system recognizes. Entries arrive either
// as bare name strings or as objects carrying an id and a name.
type CatalogEntry struct {
	ID   int64
	Name string
}

// UnmarshalJSON accepts both wire shapes of a catalog entry.
func (e *CatalogEntry) UnmarshalJSON(b []byte) error {
	var bare string
	if err := json.Unmarshal(b, &bare); err == nil {
		e.Name = bare
		e.ID = 0
		return nil
	}

	var obj map[string]interface{}
	if err := json.Unmarshal(b, &obj); err != nil {
		return fmt.Errorf("catalog entry is neither string nor object: %w", err)
	}

	for _, key := range idAliases {
		if id, ok := numericID(obj[key]); ok {
			e.ID = id
			break
		}
	}
	for _, key := range nameAliases {
		if s, ok := obj[key].(string); ok && s != "" {
			e.Name = s
			break
		}
	}
	return nil
}

// DisplayName is the match key used when diffing against a user's assigned
// set. Entries without any name alias fall back to their id.
func (e CatalogEntry) DisplayName() string {
	if e.Name != "" {
		return e.Name
	}
	if e.ID > 0 {
		return fmt.Sprintf("Privilege %d", e.ID)
	}
	return ""
}

// Detail is a user-detail payload normalized to a predictable shape.
type Detail struct {
	Email      string
	Privileges []string
	Raw        map[string]interface{}
}

// NormalizeDetail extracts the assigned privilege list from a raw user-detail
// payload. Missing or mistyped fields coerce to empty; duplicates in the raw
// input are kept as-is. Pure transform, never panics.
func NormalizeDetail(raw map[string]interface{}) Detail {
	d := Detail{Privileges: []string{}, Raw: raw}
	if raw == nil {
		return d
	}
	if email, ok := raw["email"].(string); ok {
		d.Email = email
	}
	for _, key := range detailAliases {
		arr, ok := raw[key].([]interface{})
		if !ok || len(arr) == 0 {
			continue
		}
		d.Privileges = entryNames(arr)
		break
	}
	return d
}

// Available returns the catalog entries a user may still be granted: entries
// whose display name is not already among the user's assigned names. Exact
// case-sensitive comparison; idempotent on unchanged inputs.
func Available(catalog []CatalogEntry, detail Detail) []CatalogEntry {
	assigned := make(map[string]struct{}, len(detail.Privileges))
	for _, name := range detail.Privileges {
		assigned[name] = struct{}{}
	}

	out := make([]CatalogEntry, 0, len(catalog))
	for _, entry := range catalog {
		name := entry.DisplayName()
		if name == "" {
			continue
		}
		if _, have := assigned[name]; have {
			continue
		}
		out = append(out, entry)
	}
	return out
}

// ResolveIdentifiers resolves user-selected privilege tokens to catalog ids.
// Each token is tried as: an integer of any numeric type, a strict base-10
// string, a catalog lookup by id or name, and finally a loose integer parse.
// Tokens that fail every step are returned in unresolved so callers can report
// them; only strictly positive ids make it into the result. Duplicates are
// preserved: submission order mirrors selection order.
func ResolveIdentifiers(tokens []interface{}, catalog []CatalogEntry) (ids []int64, unresolved []string) {
	ids = make([]int64, 0, len(tokens))
	for _, token := range tokens {
		id, ok := resolveToken(token, catalog)
		if !ok || id <= 0 {
			unresolved = append(unresolved, fmt.Sprintf("%v", token))
			continue
		}
		ids = append(ids, id)
	}
	return ids, unresolved
}

func resolveToken(token interface{}, catalog []CatalogEntry) (int64, bool) {
	if id, ok := numericID(token); ok {
		return id, true
	}

	s, ok := token.(string)
	if !ok {
		return 0, false
	}

	if id, err := strconv.ParseInt(s, 10, 64); err == nil && strconv.FormatInt(id, 10) == s {
		return id, true
	}

	for _, entry := range catalog {
		if entry.ID > 0 && strconv.FormatInt(entry.ID, 10) == s {
			return entry.ID, true
		}
		// Keep scanning past id-less entries; the catalog can carry the
		// same name twice and a later entry may have a usable id.
		if entry.Name != "" && entry.Name == s && entry.ID > 0 {
			return entry.ID, true
		}
	}

	// Last resort: tolerate non-canonical numeric strings like "02".
	if id, err := strconv.ParseInt(s, 10, 64); err == nil {
		return id, true
	}
	return 0, false
}

func entryNames(arr []interface{}) []string {
	names := make([]string, 0, len(arr))
	for _, item := range arr {
		switch t := item.(type) {
		case string:
			names = append(names, t)
		case map[string]interface{}:
			named := false
			for _, key := range nameAliases {
				if s, ok := t[key].(string); ok && s != "" {
					names = append(names, s)
					named = true
					break
				}
			}
			if !named {
				names = append(names, fmt.Sprintf("%v", t))
			}
		default:
			names = append(names, fmt.Sprintf("%v", t))
		}
	}
	return names
}

// numericID reports whether v is an integral numeric value. JSON numbers
// decode as float64; fractional values are not identifiers.
func numericID(v interface{}) (int64, bool) {
	switch t := v.(type) {
	case int:
		return int64(t), true
	case int64:
		return t, true
	case float64:
		if t == float64(int64(t)) {
			return int64(t), true
		}
		return 0, false
	case json.Number:
		id, err := t.Int64()
		return id, err == nil
	default:
		return 0, false
	}
}
