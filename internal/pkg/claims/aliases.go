package claims

// The upstream identity service does not keep claim naming stable across
// issuance paths: casing and nesting vary. Every candidate spelling is listed
// here, in priority order, so schema drift stays a one-place fix.

// Legacy .NET-style claim URI still emitted by the oldest issuance path.
const nameIdentifierClaimURI = "http://schemas.xmlsoap.org/ws/2005/05/identity/claims/nameidentifier"

// userIDAliases are the token claim keys that may carry the subject's user id,
// tried in order. The stored session object is always consulted first and is
// handled separately (see ResolveIdentity).
var userIDAliases = []string{
	"userId",
	"UserId",
	"uid",
	"nameid",
	"sub",
	nameIdentifierClaimURI,
}

// privilegeAliases are accessor paths for the subject's privilege list,
// tried in order against token claims first, then against the stored
// session user object.
var privilegeAliases = [][]string{
	{"privilege"},
	{"privileges"},
	{"Privilege"},
	{"Privileges"},
	{"claims", "privilege"},
	{"claims", "privileges"},
	{"claims", "Privilege"},
	{"claims", "Privileges"},
	{"permissions"},
	{"Permissions"},
	{"roles"},
	{"Roles"},
}
