package service

import "errors"

// Domain outcomes the handlers translate into HTTP statuses. Services never
// leak gorm or driver errors past this boundary for expected failures.
var (
	ErrTrabalhoNotFound   = errors.New("trabalho not found")
	ErrArquivoNotFound    = errors.New("arquivo not found")
	ErrInvalidArquivo     = errors.New("invalid arquivo name")
	ErrUserExists         = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotificationFailed = errors.New("notification failed")
)
