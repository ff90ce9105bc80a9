package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// Page is a Facebook page registered by a user.
type Page struct {
	ID   string `json:"page_id"`
	Name string `json:"page_name"`
}

// User is a dashboard account. Passwords are stored as bcrypt hashes.
type User struct {
	Username     string `json:"username"`
	PasswordHash string `json:"password_hash"`
	Pages        []Page `json:"pages"`
}

// HasPage reports whether the user already registered the given page.
func (u *User) HasPage(pageID string) bool {
	for _, p := range u.Pages {
		if p.ID == pageID {
			return true
		}
	}
	return false
}

// Claims defines the structure of the JWT claims.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}
