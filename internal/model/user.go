package model

type UserCreate struct {
	Email    string
	Name     string
	Timezone string
}

type User struct {
	ID int64
	UserCreate
}

type UserUpdate struct {
	Name     string
	Timezone string
}

// Credentials is the password-bearing projection of a user, kept separate
// so the hash never travels with profile data.
type Credentials struct {
	UserID       int64
	PasswordHash string
}
