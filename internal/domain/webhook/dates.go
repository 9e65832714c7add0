package webhook

import (
	"errors"
	"strings"
	"time"
)

// DefaultTimezone zona horaria en la que Bling emite fechas sin offset.
const DefaultTimezone = "America/Sao_Paulo"

// Formatos aceptados, en orden de prueba.
var erpDateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC3339Nano,
	time.RFC3339,
}

var errEmptyDate = errors.New("empty date")

// LoadLocation carga la zona indicada; si falla o viene vacía usa DefaultTimezone y por último UTC.
func LoadLocation(name string) *time.Location {
	if name == "" {
		name = DefaultTimezone
	}
	if loc, err := time.LoadLocation(name); err == nil {
		return loc
	}
	if loc, err := time.LoadLocation(DefaultTimezone); err == nil {
		return loc
	}
	return time.UTC
}

// ParseERPDate interpreta una fecha del ERP. Las fechas sin offset se leen en loc.
// Devuelve *Error de tipo KindInvalidDate nombrando el campo.
func ParseERPDate(field, value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	v := strings.TrimSpace(value)
	if v == "" || strings.HasPrefix(v, "0000-00-00") {
		return time.Time{}, InvalidDateError(field, value, errEmptyDate)
	}
	var lastErr error
	for _, layout := range erpDateLayouts {
		t, err := time.ParseInLocation(layout, v, loc)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, InvalidDateError(field, value, lastErr)
}
