package user

// Summary is one row of the administrative user list as served by the
// upstream user service.
type Summary struct {
	UserID         string `json:"userId"`
	FullName       string `json:"fullName"`
	Email          string `json:"email"`
	DateOfBirth    string `json:"dateOfBirth"`
	Age            int    `json:"age"`
	Gender         string `json:"gender"`
	PhoneNumber    string `json:"phoneNumber"`
	IdentifyNumber string `json:"identifyNumber"`
	Address        string `json:"address"`
}

// Detail is the normalized result of the detail endpoint: the raw upstream
// payload plus the privilege list extracted from it, ready for display and
// catalog diffing.
type Detail struct {
	Email      string                 `json:"email"`
	RoleID     int64                  `json:"roleId,omitempty"`
	RoleName   string                 `json:"roleName,omitempty"`
	RoleCode   string                 `json:"roleCode,omitempty"`
	Privileges []string               `json:"privileges"`
	Raw        map[string]interface{} `json:"-"`
}

// Profile is the viewer's own editable profile.
type Profile struct {
	UserID      string `json:"userId"`
	FullName    string `json:"fullName"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Gender      string `json:"gender"`
	Age         int    `json:"age"`
	Address     string `json:"address"`
	DateOfBirth string `json:"dateOfBirth"`
}
