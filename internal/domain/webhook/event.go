package webhook

import (
	"bytes"
	"strconv"
	"strings"

	go_json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"
)

// Familias de eventos que el enrutador reconoce.
const (
	FamilyInvoice         = "invoice"
	FamilyConsumerInvoice = "consumer_invoice"
)

// Acciones reconocidas (sufijo del tipo de evento).
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// Event es un evento de webhook ya validado estructuralmente.
// Data es nil cuando el tipo no pertenece a una familia conocida; el enrutador lo rechaza.
type Event struct {
	EventID   string
	EventType string
	Family    string
	Action    string
	Date      string
	Version   string
	CompanyID string
	Data      Payload
	Raw       []byte // cuerpo original tal como llegó
}

// Payload es la unión cerrada de variantes de data.
type Payload interface {
	isPayload()
	// ResourceExternalID devuelve el id del recurso en el ERP.
	ResourceExternalID() string
}

// Ref referencia a otra entidad del ERP ({"id": ...}).
type Ref struct {
	ID FlexString `json:"id"`
}

// InvoicePayload data de invoice.created / invoice.updated (y consumer_invoice.*).
type InvoicePayload struct {
	ID               FlexString      `json:"id" validate:"required"`
	Tipo             *int            `json:"tipo" validate:"required,oneof=0 1"`
	Situacao         int             `json:"situacao"`
	Numero           FlexString      `json:"numero"`
	DataEmissao      string          `json:"dataEmissao"`
	DataOperacao     string          `json:"dataOperacao"`
	Contato          *Ref            `json:"contato"`
	NaturezaOperacao *Ref            `json:"naturezaOperacao"`
	Loja             *Ref            `json:"loja"`
	ValorNota        decimal.Decimal `json:"valorNota"`
}

func (*InvoicePayload) isPayload() {}

func (p *InvoicePayload) ResourceExternalID() string { return string(p.ID) }

// DeletedPayload data de *.deleted: solo trae el id.
type DeletedPayload struct {
	ID FlexString `json:"id" validate:"required"`
}

func (*DeletedPayload) isPayload() {}

func (p *DeletedPayload) ResourceExternalID() string { return string(p.ID) }

// FlexString acepta un valor JSON string o número (Bling alterna entre ambos para ids).
type FlexString string

func (f *FlexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := go_json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexString(strings.TrimSpace(s))
		return nil
	}
	var n go_json.Number
	if err := go_json.Unmarshal(b, &n); err != nil {
		return err
	}
	if _, err := strconv.ParseFloat(n.String(), 64); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

func (r *Ref) value() *string {
	if r == nil || r.ID == "" {
		return nil
	}
	s := string(r.ID)
	return &s
}

// ContactID, OperationNatureID y StoreID devuelven nil cuando la referencia no viene.
func (p *InvoicePayload) ContactID() *string         { return p.Contato.value() }
func (p *InvoicePayload) OperationNatureID() *string { return p.NaturezaOperacao.value() }
func (p *InvoicePayload) StoreID() *string           { return p.Loja.value() }

// Classify extrae familia y acción del tipo de evento por prefijo y sufijo.
// Devuelve "" para la parte que no se reconoce.
func Classify(eventType string) (family, action string) {
	for _, f := range []string{FamilyInvoice, FamilyConsumerInvoice} {
		if strings.HasPrefix(eventType, f+".") {
			family = f
			break
		}
	}
	for _, a := range []string{ActionCreated, ActionUpdated, ActionDeleted} {
		if strings.HasSuffix(eventType, "."+a) {
			action = a
			break
		}
	}
	return family, action
}
