package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// AccountType is the enumerated role of a signed-in identity.
type AccountType int

const (
	AccountResident        AccountType = 0
	AccountServiceProvider AccountType = 1
	AccountAdministrator   AccountType = 2
)

func (t AccountType) String() string {
	switch t {
	case AccountResident:
		return "resident"
	case AccountServiceProvider:
		return "service-provider"
	case AccountAdministrator:
		return "administrator"
	default:
		return "unknown(" + strconv.Itoa(int(t)) + ")"
	}
}

func (t AccountType) IsValid() bool {
	return t >= AccountResident && t <= AccountAdministrator
}

// ID is an opaque identifier. The server may encode it as a JSON string or
// as a number; both decode to the same textual form.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string { return string(id) }

// UserProfile is the snapshot produced by one session resolution.
// Raw keeps the exact response body so fields this client does not model
// survive untouched.
type UserProfile struct {
	ID          ID              `json:"id"`
	FirstName   string          `json:"firstName"`
	LastName    string          `json:"lastName"`
	Email       string          `json:"email"`
	PhoneNumber string          `json:"phoneNumber"`
	AccountType AccountType     `json:"accountType"`
	IsArchived  bool            `json:"isArchived"`
	Raw         json.RawMessage `json:"-"`
}

// DecodeUserProfile parses a profile body and retains a private copy of it.
func DecodeUserProfile(body []byte) (*UserProfile, error) {
	var p UserProfile
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	p.Raw = append(json.RawMessage(nil), body...)
	return &p, nil
}

func (p *UserProfile) FullName() string {
	switch {
	case p.FirstName == "":
		return p.LastName
	case p.LastName == "":
		return p.FirstName
	default:
		return p.FirstName + " " + p.LastName
	}
}

func (p *UserProfile) IsAdmin() bool {
	return p.AccountType == AccountAdministrator
}

// Identity is the minimal payload returned by the token check endpoint.
type Identity struct {
	ID ID `json:"id"`
}
