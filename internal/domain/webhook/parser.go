package webhook

import (
	"bytes"
	"errors"
	"mime"
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	go_json "github.com/goccy/go-json"
)

var errInvalidUTF8 = errors.New("body is not valid UTF-8")

// UnknownValue se registra en el log cuando eventId o event no pudieron extraerse.
const UnknownValue = "unknown"

// envelope forma del cuerpo JSON de Bling. EventTypeAlt tolera emisores que usan "eventType".
type envelope struct {
	EventID      FlexString         `json:"eventId" validate:"required"`
	Event        string             `json:"event"`
	EventTypeAlt string             `json:"eventType"`
	Data         go_json.RawMessage `json:"data"`
	Date         string             `json:"date"`
	Version      string             `json:"version"`
	CompanyID    FlexString         `json:"companyId"`
}

func (e *envelope) eventType() string {
	if t := strings.TrimSpace(e.Event); t != "" {
		return t
	}
	return strings.TrimSpace(e.EventTypeAlt)
}

// Parser deserializa y valida estructuralmente el sobre del webhook.
type Parser struct {
	validate *validator.Validate
}

// NewParser construye el parser con un validador que reporta nombres de campo JSON.
func NewParser() *Parser {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Parser{validate: v}
}

// CheckTransport valida Content-Type y presencia de firma antes de tocar el cuerpo.
func CheckTransport(contentType, signature string) error {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil || !strings.EqualFold(mediaType, "application/json") {
		return ContentTypeError(contentType)
	}
	if strings.TrimSpace(signature) == "" {
		return MissingSignatureError()
	}
	return nil
}

// Parse decodifica el cuerpo crudo y devuelve el evento tipado.
// La variante de Data se elige por el tipo de evento; tipos de familias desconocidas
// quedan con Data nil para que el enrutador los rechace.
func (p *Parser) Parse(raw []byte) (*Event, error) {
	// PostgreSQL rechaza JSON con bytes fuera de UTF-8; goccy los acepta dentro de strings
	if !utf8.Valid(raw) {
		return nil, MalformedPayloadError(errInvalidUTF8)
	}
	var env envelope
	if err := go_json.Unmarshal(raw, &env); err != nil {
		return nil, MalformedPayloadError(err)
	}
	if env.EventID == "" {
		return nil, InvalidStructureError("eventId is required")
	}
	eventType := env.eventType()
	if eventType == "" {
		return nil, InvalidStructureError("event is required")
	}
	data := bytes.TrimSpace(env.Data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, InvalidStructureError("data is required")
	}
	if data[0] != '{' {
		return nil, InvalidStructureError("data must be an object")
	}

	family, action := Classify(eventType)
	evt := &Event{
		EventID:   string(env.EventID),
		EventType: eventType,
		Family:    family,
		Action:    action,
		Date:      env.Date,
		Version:   env.Version,
		CompanyID: string(env.CompanyID),
		Raw:       raw,
	}
	if family == "" {
		return evt, nil
	}

	var payload Payload
	switch action {
	case ActionCreated, ActionUpdated:
		payload = &InvoicePayload{}
	case ActionDeleted:
		payload = &DeletedPayload{}
	default:
		return evt, nil
	}
	if err := go_json.Unmarshal(data, payload); err != nil {
		return nil, InvalidStructureError("data: " + err.Error())
	}
	if err := p.validate.Struct(payload); err != nil {
		return nil, InvalidStructureError(describeValidation(err))
	}
	evt.Data = payload
	return evt, nil
}

// Peek extrae eventId y event sin validar, para registrar intentos fallidos.
// Devuelve UnknownValue en lo que no pueda leer.
func Peek(raw []byte) (eventID, eventType string) {
	eventID, eventType = UnknownValue, UnknownValue
	var env envelope
	if err := go_json.Unmarshal(raw, &env); err != nil {
		return eventID, eventType
	}
	if env.EventID != "" {
		eventID = string(env.EventID)
	}
	if t := env.eventType(); t != "" {
		eventType = t
	}
	return eventID, eventType
}

func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			parts = append(parts, "data."+fe.Field()+" is required")
		case "oneof":
			parts = append(parts, "data."+fe.Field()+" must be one of ["+fe.Param()+"]")
		default:
			parts = append(parts, "data."+fe.Field()+" failed "+fe.Tag())
		}
	}
	return strings.Join(parts, "; ")
}
