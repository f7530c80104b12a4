package service

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNoEncontrado       = errors.New("recurso no encontrado")
	ErrConflicto          = errors.New("conflicto con el estado actual")
	ErrReferenciaInvalida = errors.New("referencia inválida")
	ErrValidacion         = errors.New("datos inválidos")
	// ErrAlmacenamientoNoConfigurado is returned by drawing operations when no bucket is set.
	ErrAlmacenamientoNoConfigurado = errors.New("almacenamiento de dibujos no configurado")
)

// ReferenciaInvalidaError names the request field whose foreign key does not resolve.
type ReferenciaInvalidaError struct {
	Campo   string
	Mensaje string
}

func (e *ReferenciaInvalidaError) Error() string { return e.Mensaje }

func (e *ReferenciaInvalidaError) Unwrap() error { return ErrReferenciaInvalida }

func referenciaInvalida(campo, msg string) error {
	return &ReferenciaInvalidaError{Campo: campo, Mensaje: msg}
}

// noEncontrado wraps ErrNoEncontrado with a client-facing message.
func noEncontrado(msg string) error {
	return &mensajeError{msg: msg, base: ErrNoEncontrado}
}

func conflicto(msg string) error {
	return &mensajeError{msg: msg, base: ErrConflicto}
}

func validacion(msg string) error {
	return &mensajeError{msg: msg, base: ErrValidacion}
}

// Mensaje extracts the client-facing part of an error built by this package.
func Mensaje(err error) string {
	var ref *ReferenciaInvalidaError
	if errors.As(err, &ref) {
		return ref.Mensaje
	}
	var m *mensajeError
	if errors.As(err, &m) {
		return m.msg
	}
	return err.Error()
}

type mensajeError struct {
	msg  string
	base error
}

func (e *mensajeError) Error() string { return e.msg }
func (e *mensajeError) Unwrap() error { return e.base }

// translate maps raw gorm errors onto the package sentinels.
// notFoundMsg is used when the row is missing.
func translate(err error, notFoundMsg string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return &mensajeError{msg: notFoundMsg, base: ErrNoEncontrado}
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return &mensajeError{msg: "El registro ya existe.", base: ErrConflicto}
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return &mensajeError{msg: "El registro está referenciado por otros datos.", base: ErrConflicto}
	}
	return err
}
