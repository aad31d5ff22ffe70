package storage

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
)

var (
	// ErrExists ya hay un resultado con ese nombre; nunca se sobrescribe
	ErrExists      = errors.New("el resultado ya existe")
	ErrNotFound    = errors.New("resultado no encontrado")
	ErrInvalidName = errors.New("nombre de resultado inválido")
)

// ResultStore almacén de solo-añadir para los registros de resultados
type ResultStore interface {
	// Create escribe data bajo name y falla con ErrExists si el nombre ya está ocupado.
	Create(ctx context.Context, name string, data []byte) error
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}

func checkName(name string) error {
	if name == "" || name != filepath.Base(name) || strings.ContainsAny(name, `/\`) || strings.HasPrefix(name, ".") {
		return ErrInvalidName
	}
	return nil
}
