package users

import "time"

// AccountType is the user's role. Stored and serialised as its integer.
type AccountType int

const (
	AccountResident        AccountType = 0
	AccountServiceProvider AccountType = 1
	AccountAdministrator   AccountType = 2
)

type User struct {
	ID           string
	FirstName    string
	LastName     string
	Email        string
	PhoneNumber  string
	PasswordHash []byte
	AccountType  AccountType
	IsArchived   bool
	CreatedAt    time.Time
}

// Profile is the public shape of a user returned by the API.
type Profile struct {
	ID          string      `json:"id"`
	FirstName   string      `json:"firstName"`
	LastName    string      `json:"lastName"`
	Email       string      `json:"email"`
	PhoneNumber string      `json:"phoneNumber"`
	AccountType AccountType `json:"accountType"`
	IsArchived  bool        `json:"isArchived"`
	CreatedAt   time.Time   `json:"createdAt"`
}

func (u *User) Profile() Profile {
	return Profile{
		ID:          u.ID,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
		AccountType: u.AccountType,
		IsArchived:  u.IsArchived,
		CreatedAt:   u.CreatedAt,
	}
}
