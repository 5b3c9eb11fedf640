package domain

import "time"

// Role is the access level attached to an account. Values are stored verbatim
// in Mongo and inside token claims, so they must never be renamed casually.
type Role string

const (
	RoleUsuario Role = "Usuario"
	RoleAdmin   Role = "Admin"
	RoleGerente Role = "Gerente"
)

// ParseRole maps a raw string to a known Role. The legacy "Cajero" role was
// retired and is intentionally not accepted.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleUsuario, RoleAdmin, RoleGerente:
		return Role(s), true
	}
	return "", false
}

// User models an account in the store. PasswordHash is bcrypt output and is
// never serialized to clients.
type User struct {
	ID             string    `json:"id"`
	Nombre         string    `json:"nombre"`
	Apellido       string    `json:"apellido"`
	Edad           int       `json:"edad"`
	NumeroTelefono string    `json:"numeroTelefono"`
	Correo         string    `json:"correo"`
	PasswordHash   string    `json:"-"`
	Rol            Role      `json:"rol"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}
