package claims

import (
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	xerrors "labadmin-service/internal/pkg/errors"
)

// mintToken builds an unsigned three-segment token carrying the given payload.
func mintToken(t *testing.T, payload map[string]interface{}) string {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"RS256","typ":"JWT"}`))
	return header + "." + base64.RawURLEncoding.EncodeToString(body) + ".sig"
}

func TestDecodePayload(t *testing.T) {
	payload, err := DecodePayload(mintToken(t, map[string]interface{}{"sub": "u-42"}))
	require.NoError(t, err)
	assert.Equal(t, "u-42", payload["sub"])
}

func TestDecodePayload_Malformed(t *testing.T) {
	cases := []string{
		"",
		"only-one-segment",
		"a.b",
		"a.!!!not-base64!!!.c",
		"a." + base64.RawURLEncoding.EncodeToString([]byte(`[1,2,3]`)) + ".c", // not an object
		"a." + base64.RawURLEncoding.EncodeToString([]byte(`not json`)) + ".c",
	}
	for _, token := range cases {
		payload, err := DecodePayload(token)
		assert.Nil(t, payload, "token %q", token)
		assert.Error(t, err, "token %q", token)
		var decErr *DecodeError
		assert.ErrorAs(t, err, &decErr, "token %q", token)
	}
}

func TestResolveIdentity_AliasPriority(t *testing.T) {
	// A lower-priority alias must not win over a higher one.
	token := mintToken(t, map[string]interface{}{
		"sub":    "from-sub",
		"nameid": "from-nameid",
		"uid":    "from-uid",
	})
	id, err := ResolveIdentity(token, nil)
	require.NoError(t, err)
	assert.Equal(t, "from-uid", id.UserID)
}

func TestResolveIdentity_LegacyClaimURI(t *testing.T) {
	token := mintToken(t, map[string]interface{}{
		nameIdentifierClaimURI: "legacy-7",
	})
	id, err := ResolveIdentity(token, nil)
	require.NoError(t, err)
	assert.Equal(t, "legacy-7", id.UserID)
}

func TestResolveIdentity_StoredWinsOverToken(t *testing.T) {
	token := mintToken(t, map[string]interface{}{"userId": "token-user"})
	stored := []byte(`{"userId":"stored-user"}`)

	id, err := ResolveIdentity(token, stored)
	require.NoError(t, err)
	assert.Equal(t, "stored-user", id.UserID)
	assert.NotNil(t, id.RawClaims)
}

func TestResolveIdentity_NestedStoredUser(t *testing.T) {
	id, err := ResolveIdentity("", []byte(`{"user":{"id":31}}`))
	require.NoError(t, err)
	assert.Equal(t, "31", id.UserID)
}

func TestResolveIdentity_InvalidStoredBlobFallsThrough(t *testing.T) {
	token := mintToken(t, map[string]interface{}{"userId": "token-user"})

	id, err := ResolveIdentity(token, []byte(`{not valid json`))
	require.NoError(t, err)
	assert.Equal(t, "token-user", id.UserID)
	assert.Nil(t, id.StoredUser)
}

func TestResolveIdentity_NumericClaim(t *testing.T) {
	id, err := ResolveIdentity(mintToken(t, map[string]interface{}{"userId": 1204}), nil)
	require.NoError(t, err)
	assert.Equal(t, "1204", id.UserID)
}

func TestResolveIdentity_Unresolved(t *testing.T) {
	cases := []struct {
		token  string
		stored []byte
	}{
		{"", nil},
		{"garbage", []byte(`broken`)},
		{mintTokenNoID(t), []byte(`{"email":"a@b.com"}`)},
	}
	for _, tc := range cases {
		id, err := ResolveIdentity(tc.token, tc.stored)
		assert.Nil(t, id)
		assert.ErrorIs(t, err, xerrors.ErrIdentityUnresolved)
	}
}

func mintTokenNoID(t *testing.T) string {
	return mintToken(t, map[string]interface{}{"email": "a@b.com"})
}

func TestResolvePrivileges_TokenAliasOrder(t *testing.T) {
	payload := Payload{
		"Privileges": []interface{}{"FROM_UPPER"},
		"privilege":  []interface{}{"FROM_LOWER_SINGULAR"},
	}
	got := ResolvePrivileges(payload, nil)
	assert.Equal(t, []string{"FROM_LOWER_SINGULAR"}, got)
}

func TestResolvePrivileges_NestedClaimsObject(t *testing.T) {
	payload := Payload{
		"claims": map[string]interface{}{
			"privileges": []interface{}{"VIEW_USER", "EDIT_USER"},
		},
	}
	got := ResolvePrivileges(payload, nil)
	assert.Equal(t, []string{"VIEW_USER", "EDIT_USER"}, got)
}

func TestResolvePrivileges_StoredFallback(t *testing.T) {
	stored := map[string]interface{}{
		"Roles": []interface{}{"LAB_MANAGER"},
	}
	got := ResolvePrivileges(Payload{"email": "a@b.com"}, stored)
	assert.Equal(t, []string{"LAB_MANAGER"}, got)
}

func TestResolvePrivileges_ObjectEntries(t *testing.T) {
	payload := Payload{
		"privileges": []interface{}{
			map[string]interface{}{"name": "VIEW_USER"},
			map[string]interface{}{"privilegeName": "EDIT_USER"},
		},
	}
	got := ResolvePrivileges(payload, nil)
	assert.Equal(t, []string{"VIEW_USER", "EDIT_USER"}, got)
}

func TestResolvePrivileges_EmptyIsNotAnError(t *testing.T) {
	got := ResolvePrivileges(nil, nil)
	require.NotNil(t, got)
	assert.Empty(t, got)

	// Mistyped privilege fields coerce to empty as well.
	got = ResolvePrivileges(Payload{"privileges": "VIEW_USER"}, nil)
	assert.Empty(t, got)
}

func TestHasPrivilege(t *testing.T) {
	set := []string{"VIEW_USER", "EDIT_USER"}
	assert.True(t, HasPrivilege(set, "VIEW_USER"))
	assert.False(t, HasPrivilege(set, "view_user")) // exact match, case-sensitive
	assert.False(t, HasPrivilege(nil, "VIEW_USER"))
}
