package repository

import "github.com/jhoicas/LibroOro-api/internal/domain/entity"

// UserRepository persistencia de usuarios.
type UserRepository interface {
	Create(user *entity.User) error
	FindByEmail(email string) (*entity.User, error)
}
