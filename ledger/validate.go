package ledger

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"mfgledger/models"
	"mfgledger/store"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// ValidationError lists the order form fields that are missing or invalid.
// Nothing is written when it is returned.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "invalid order: " + strings.Join(e.Fields, ", ")
}

var ErrTotalMismatch = errors.New("totalPayment does not equal price + shipping - fee")

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// formValidator reads the same binding tags gin uses, so a form validated here and
// one validated by ShouldBindJSON agree.
func formValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.SetTagName("binding")
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

func ValidateOrderInput(in models.OrderInput) error {
	in.Address = strings.TrimSpace(in.Address)
	err := formValidator().Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate order: %w", err)
	}
	ve := &ValidationError{}
	for _, fe := range verrs {
		ve.Fields = append(ve.Fields, fe.Field())
	}
	return ve
}

// TotalPayment is what the partner is owed for one order: price + shipping - fee.
func TotalPayment(price, shipping, fee float64) float64 {
	return decimal.NewFromFloat(price).
		Add(decimal.NewFromFloat(shipping)).
		Sub(decimal.NewFromFloat(fee)).
		InexactFloat64()
}

// CheckTotal recomputes an order's totalPayment and compares it, to the cent,
// with the stored one.
func CheckTotal(o models.Order) error {
	want := decimal.NewFromFloat(TotalPayment(o.Price, o.Shipping, o.Fee)).Round(2)
	got := decimal.NewFromFloat(o.TotalPayment).Round(2)
	if !want.Equal(got) {
		return fmt.Errorf("order %s: %w (stored %s, computed %s)", o.ID, ErrTotalMismatch, got, want)
	}
	return nil
}

// OrderDocument builds the document written for a validated form. createdAt is only
// stamped on creation; pass the zero time for an edit.
func OrderDocument(in models.OrderInput, createdAt time.Time) store.Document {
	price := 0.0
	if in.Price != nil {
		price = *in.Price
	}
	doc := store.Document{
		"agentId":      strings.TrimSpace(in.AgentID),
		"date":         in.Date,
		"deliveryDate": in.DeliveryDate,
		"address":      strings.TrimSpace(in.Address),
		"description":  in.Description,
		"photo":        in.Photo,
		"price":        price,
		"shipping":     in.Shipping,
		"fee":          in.Fee,
		"totalPayment": TotalPayment(price, in.Shipping, in.Fee),
		"monthKey":     monthKeyOfInput(in.Date),
	}
	if in.Photo == "" {
		doc["photo"] = nil
	}
	if !createdAt.IsZero() {
		doc["createdAt"] = createdAt
	}
	return doc
}

// ToDocument is the inverse of NormalizeOrder.
func ToDocument(o models.Order) store.Document {
	doc := store.Document{
		store.IDField:  o.ID,
		"agentId":      o.AgentID,
		"date":         o.Date,
		"deliveryDate": o.DeliveryDate,
		"address":      o.Address,
		"description":  o.Description,
		"photo":        o.Photo,
		"price":        o.Price,
		"shipping":     o.Shipping,
		"fee":          o.Fee,
		"totalPayment": o.TotalPayment,
		"monthKey":     o.MonthKey,
	}
	if !o.CreatedAt.IsZero() {
		doc["createdAt"] = o.CreatedAt
	}
	return doc
}

func monthKeyOfInput(date string) string {
	if t, err := ParseDate(date); err == nil {
		return MonthKeyOf(t)
	}
	return ""
}
