package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return false
}

// whereBuilder arma cláusulas WHERE con placeholders posicionales ($1, $2, ...).
// El formato de cada condición lleva un único %d para la posición del argumento.
type whereBuilder struct {
	clauses []string
	args    []any
}

func (w *whereBuilder) add(format string, arg any) {
	w.args = append(w.args, arg)
	w.clauses = append(w.clauses, fmt.Sprintf(format, len(w.args)))
}

func (w *whereBuilder) sql() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.clauses, " AND ")
}

// page agrega LIMIT/OFFSET al final y devuelve query y args.
func (w *whereBuilder) page(query string, limit, offset int) (string, []any) {
	n := len(w.args)
	args := append(append([]any(nil), w.args...), limit, offset)
	return query + fmt.Sprintf(" LIMIT $%d OFFSET $%d", n+1, n+2), args
}
