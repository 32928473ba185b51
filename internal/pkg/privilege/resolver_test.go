package privilege

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var catalog = []CatalogEntry{
	{ID: 1, Name: "VIEW_USER"},
	{ID: 2, Name: "EDIT_USER"},
}

func TestCatalogEntry_UnmarshalJSON(t *testing.T) {
	var entries []CatalogEntry
	raw := `["VIEW_USER",{"id":2,"name":"EDIT_USER"},{"privilegeId":3,"privilegeName":"DELETE_USER"},{"Name":"LEGACY"}]`
	require.NoError(t, json.Unmarshal([]byte(raw), &entries))

	assert.Equal(t, CatalogEntry{Name: "VIEW_USER"}, entries[0])
	assert.Equal(t, CatalogEntry{ID: 2, Name: "EDIT_USER"}, entries[1])
	assert.Equal(t, CatalogEntry{ID: 3, Name: "DELETE_USER"}, entries[2])
	assert.Equal(t, CatalogEntry{Name: "LEGACY"}, entries[3])
}

func TestNormalizeDetail_AliasScan(t *testing.T) {
	raw := map[string]interface{}{
		"email": "a@b.com",
		"Privileges": []interface{}{
			"VIEW_USER",
			map[string]interface{}{"name": "EDIT_USER"},
		},
	}
	d := NormalizeDetail(raw)
	assert.Equal(t, "a@b.com", d.Email)
	assert.Equal(t, []string{"VIEW_USER", "EDIT_USER"}, d.Privileges)
}

func TestNormalizeDetail_MistypedCoercesToEmpty(t *testing.T) {
	cases := []map[string]interface{}{
		nil,
		{},
		{"privileges": "VIEW_USER"},
		{"privileges": 42},
		{"privileges": map[string]interface{}{"name": "x"}},
	}
	for _, raw := range cases {
		d := NormalizeDetail(raw)
		require.NotNil(t, d.Privileges)
		assert.Empty(t, d.Privileges)
	}
}

func TestNormalizeDetail_DuplicatesTolerated(t *testing.T) {
	d := NormalizeDetail(map[string]interface{}{
		"privileges": []interface{}{"VIEW_USER", "VIEW_USER"},
	})
	assert.Equal(t, []string{"VIEW_USER", "VIEW_USER"}, d.Privileges)
}

func TestAvailable(t *testing.T) {
	detail := NormalizeDetail(map[string]interface{}{
		"privileges": []interface{}{"VIEW_USER"},
	})
	got := Available(catalog, detail)
	assert.Equal(t, []CatalogEntry{{ID: 2, Name: "EDIT_USER"}}, got)
}

func TestAvailable_Idempotent(t *testing.T) {
	detail := NormalizeDetail(map[string]interface{}{
		"privileges": []interface{}{"EDIT_USER"},
	})
	first := Available(catalog, detail)
	second := Available(catalog, detail)
	assert.Equal(t, first, second)
}

func TestAvailable_CaseSensitiveMatch(t *testing.T) {
	// Casing drift between the two producing services is deliberately not
	// normalized; a lowercased assignment does not hide the catalog entry.
	detail := NormalizeDetail(map[string]interface{}{
		"privileges": []interface{}{"view_user"},
	})
	got := Available(catalog, detail)
	assert.Len(t, got, 2)
}

func TestAvailable_EmptyCatalog(t *testing.T) {
	got := Available(nil, NormalizeDetail(nil))
	assert.Empty(t, got)
}

func TestResolveIdentifiers_Scenario(t *testing.T) {
	ids, unresolved := ResolveIdentifiers([]interface{}{"2", "EDIT_USER", "bogus"}, catalog)
	assert.Equal(t, []int64{2, 2}, ids)
	assert.Equal(t, []string{"bogus"}, unresolved)
}

func TestResolveIdentifiers_NumericTokens(t *testing.T) {
	ids, unresolved := ResolveIdentifiers([]interface{}{float64(1), 2, "02"}, catalog)
	assert.Equal(t, []int64{1, 2, 2}, ids)
	assert.Empty(t, unresolved)
}

func TestResolveIdentifiers_NeverZeroOrNegative(t *testing.T) {
	ids, unresolved := ResolveIdentifiers([]interface{}{"0", "-3", float64(0), "NO_SUCH"}, catalog)
	assert.Empty(t, ids)
	assert.Len(t, unresolved, 4)
}

func TestResolveIdentifiers_NameWithoutID(t *testing.T) {
	// A catalog entry that only carries a name cannot produce a submittable id.
	bareCatalog := []CatalogEntry{{Name: "VIEW_USER"}}
	ids, unresolved := ResolveIdentifiers([]interface{}{"VIEW_USER"}, bareCatalog)
	assert.Empty(t, ids)
	assert.Equal(t, []string{"VIEW_USER"}, unresolved)
}

func TestResolveIdentifiers_DuplicateNameLaterID(t *testing.T) {
	// An id-less entry must not shadow a later entry carrying the same name.
	dupCatalog := []CatalogEntry{{Name: "EDIT_USER"}, {ID: 2, Name: "EDIT_USER"}}
	ids, unresolved := ResolveIdentifiers([]interface{}{"EDIT_USER"}, dupCatalog)
	assert.Equal(t, []int64{2}, ids)
	assert.Empty(t, unresolved)
}

func TestResolveIdentifiers_FractionalNumber(t *testing.T) {
	ids, unresolved := ResolveIdentifiers([]interface{}{2.5}, catalog)
	assert.Empty(t, ids)
	assert.Equal(t, []string{"2.5"}, unresolved)
}
