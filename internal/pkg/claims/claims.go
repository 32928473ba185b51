// Package claims resolves the current viewer's identity and effective
// privilege set from two independently mutable sources: a bearer token and a
// persisted session blob. Neither source is trusted to be well formed; every
// decode step degrades to "absent" instead of failing the caller.
package claims

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	xerrors "labadmin-service/internal/pkg/errors"
)

// Payload is the decoded, unverified body of an access token.
type Payload map[string]interface{}

// DecodeError reports why a token payload could not be decoded. Callers treat
// a decode failure as "no claims"; the error exists so the failure is still
// observable instead of silently swallowed.
type DecodeError struct {
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decode token payload: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("decode token payload: %s", e.Reason)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// DecodePayload decodes the middle segment of a compact JWT without verifying
// the signature. Verification belongs to the issuing service; this decode only
// feeds display and identity fallback logic.
func DecodePayload(token string) (Payload, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, &DecodeError{Reason: fmt.Sprintf("expected 3 segments, got %d", len(parts))}
	}

	seg := strings.ReplaceAll(parts[1], "-", "+")
	seg = strings.ReplaceAll(seg, "_", "/")

	raw, err := base64.RawStdEncoding.DecodeString(strings.TrimRight(seg, "="))
	if err != nil {
		return nil, &DecodeError{Reason: "invalid base64 segment", Err: err}
	}

	var payload Payload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, &DecodeError{Reason: "payload is not a JSON object", Err: err}
	}
	return payload, nil
}

// Identity is the resolved identity of the current viewer.
type Identity struct {
	UserID     string
	RawClaims  Payload
	StoredUser map[string]interface{}
}

// ResolveIdentity resolves the viewer's user id from the stored session blob
// and the bearer token, in that priority order. The structured session object
// always wins over token claims. A malformed token or blob degrades to absent;
// only the total absence of a candidate is an error.
func ResolveIdentity(token string, storedBlob []byte) (*Identity, error) {
	id := &Identity{}

	if token != "" {
		if payload, err := DecodePayload(token); err == nil {
			id.RawClaims = payload
		}
	}

	if len(storedBlob) > 0 {
		var stored map[string]interface{}
		if err := json.Unmarshal(storedBlob, &stored); err == nil {
			id.StoredUser = stored
		}
	}

	if uid := userIDFromStored(id.StoredUser); uid != "" {
		id.UserID = uid
		return id, nil
	}
	if uid := userIDFromClaims(id.RawClaims); uid != "" {
		id.UserID = uid
		return id, nil
	}

	return nil, xerrors.ErrIdentityUnresolved
}

// ResolvePrivileges returns the viewer's effective privilege set. Token claims
// are scanned first; the stored session user object is the fallback. An empty
// result is legitimate: an authenticated user may hold zero privileges.
func ResolvePrivileges(payload Payload, storedUser map[string]interface{}) []string {
	if privs := scanPrivilegeAliases(map[string]interface{}(payload)); len(privs) > 0 {
		return privs
	}
	if privs := scanPrivilegeAliases(storedUser); len(privs) > 0 {
		return privs
	}
	return []string{}
}

// HasPrivilege is an exact string-membership test. No hierarchy, no wildcards.
func HasPrivilege(effective []string, required string) bool {
	for _, p := range effective {
		if p == required {
			return true
		}
	}
	return false
}

func userIDFromStored(stored map[string]interface{}) string {
	if stored == nil {
		return ""
	}
	if v := scalarString(stored["userId"]); v != "" {
		return v
	}
	if v := scalarString(stored["id"]); v != "" {
		return v
	}
	if nested, ok := stored["user"].(map[string]interface{}); ok {
		if v := scalarString(nested["userId"]); v != "" {
			return v
		}
		if v := scalarString(nested["id"]); v != "" {
			return v
		}
	}
	return ""
}

func userIDFromClaims(payload Payload) string {
	if payload == nil {
		return ""
	}
	for _, alias := range userIDAliases {
		if v, ok := payload[alias]; ok {
			if s := scalarString(v); s != "" {
				return s
			}
		}
	}
	return ""
}

func scanPrivilegeAliases(obj map[string]interface{}) []string {
	if obj == nil {
		return nil
	}
	for _, path := range privilegeAliases {
		if list := stringList(lookupPath(obj, path)); len(list) > 0 {
			return list
		}
	}
	return nil
}

// lookupPath walks nested maps along an accessor path.
func lookupPath(obj map[string]interface{}, path []string) interface{} {
	var cur interface{} = obj
	for _, key := range path {
		m, ok := cur.(map[string]interface{})
		if !ok {
			return nil
		}
		cur, ok = m[key]
		if !ok {
			return nil
		}
	}
	return cur
}

// stringList coerces a decoded JSON value into a list of privilege names.
// Entries may be bare strings or objects carrying a name field.
func stringList(v interface{}) []string {
	arr, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(arr))
	for _, item := range arr {
		switch t := item.(type) {
		case string:
			out = append(out, t)
		case map[string]interface{}:
			for _, key := range []string{"name", "privilegeName", "Name"} {
				if s := scalarString(t[key]); s != "" {
					out = append(out, s)
					break
				}
			}
		}
	}
	return out
}

// scalarString renders a scalar claim value as a string. JSON numbers arrive
// as float64; integral values must not pick up a decimal point.
func scalarString(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%v", t)
	case json.Number:
		return t.String()
	case bool:
		return fmt.Sprintf("%v", t)
	default:
		return ""
	}
}
