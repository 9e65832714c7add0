// Package webhook contiene la lógica de dominio para la ingesta de webhooks del ERP Bling:
// validación de firma HMAC, parseo del sobre JSON, variantes de payload y errores tipados.
package webhook

import (
	"errors"
	"fmt"
)

// Kind clasifica los fallos del pipeline de ingesta.
type Kind string

const (
	KindContentType          Kind = "content_type"
	KindPayloadTooLarge      Kind = "payload_too_large"
	KindMissingSignature     Kind = "missing_signature"
	KindInvalidSignature     Kind = "invalid_signature"
	KindMalformedPayload     Kind = "malformed_payload"
	KindInvalidStructure     Kind = "invalid_structure"
	KindUnsupportedEventType Kind = "unsupported_event_type"
	KindInvalidDate          Kind = "invalid_date"
	KindStorage              Kind = "storage"
)

// Error es el error tipado del pipeline. Message es legible y se devuelve al emisor;
// Cause queda solo para el log de auditoría (error_detail).
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Detail devuelve el texto de la causa, o "" si no hay.
func (e *Error) Detail() string {
	if e.Cause == nil {
		return ""
	}
	return e.Cause.Error()
}

// AsError extrae un *Error de la cadena, o nil.
func AsError(err error) *Error {
	var werr *Error
	if errors.As(err, &werr) {
		return werr
	}
	return nil
}

// IsKind indica si err es un *Error del tipo dado.
func IsKind(err error, kind Kind) bool {
	werr := AsError(err)
	return werr != nil && werr.Kind == kind
}

func ContentTypeError(got string) *Error {
	return &Error{Kind: KindContentType, Message: fmt.Sprintf("Content-Type must be application/json, got %q", got)}
}

func PayloadTooLargeError(size, limit int) *Error {
	return &Error{Kind: KindPayloadTooLarge, Message: fmt.Sprintf("Payload too large: %d bytes exceeds limit of %d", size, limit)}
}

func MissingSignatureError() *Error {
	return &Error{Kind: KindMissingSignature, Message: "Missing signature header"}
}

func InvalidSignatureError() *Error {
	return &Error{Kind: KindInvalidSignature, Message: "Invalid HMAC signature"}
}

func MalformedPayloadError(cause error) *Error {
	return &Error{Kind: KindMalformedPayload, Message: "Malformed JSON payload: " + cause.Error(), Cause: cause}
}

func InvalidStructureError(reason string) *Error {
	return &Error{Kind: KindInvalidStructure, Message: "Invalid event structure: " + reason}
}

func UnsupportedEventTypeError(eventType string) *Error {
	return &Error{Kind: KindUnsupportedEventType, Message: "Unsupported event type: " + eventType}
}

func InvalidDateError(field, value string, cause error) *Error {
	return &Error{Kind: KindInvalidDate, Message: fmt.Sprintf("Invalid date in field %s: %q", field, value), Cause: cause}
}

func StorageError(op string, cause error) *Error {
	return &Error{Kind: KindStorage, Message: "Storage failure during " + op, Cause: cause}
}
