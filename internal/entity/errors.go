package entity

import "errors"

var (
	ErrNotFound           = errors.New("registro não encontrado")
	ErrConflict           = errors.New("registro duplicado")
	ErrEmailAlreadyExists = errors.New("email já cadastrado")
)
