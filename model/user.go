package model

import (
	"time"
)

// User is an application account. Passwords are stored as bcrypt hashes
// and never serialized in responses.
type User struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	FullName     string `gorm:"not null" json:"full_name"`
	Perfil       string `gorm:"not null" json:"perfil"`
	// NomeCliente scopes CLIENTE accounts to their own contracts.
	// Populated iff Perfil == PerfilCliente.
	NomeCliente string `json:"nome_cliente"`
}

func (User) TableName() string {
	return "users"
}

// User profile constants
const (
	PerfilGestor   = "GESTOR"
	PerfilAnalista = "ANALISTA"
	PerfilCliente  = "CLIENTE"
)

// ValidPerfil reports whether p is one of the closed profile values
func ValidPerfil(p string) bool {
	switch p {
	case PerfilGestor, PerfilAnalista, PerfilCliente:
		return true
	}
	return false
}
