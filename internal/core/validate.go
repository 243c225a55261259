package core

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	// Decimals validate as floats so numeric tags like gt=0 apply.
	validate.RegisterCustomTypeFunc(func(v reflect.Value) any {
		d, ok := v.Interface().(decimal.Decimal)
		if !ok {
			return nil
		}
		f, _ := d.Float64()
		return f
	}, decimal.Decimal{})

	validate.RegisterCustomTypeFunc(func(v reflect.Value) any {
		d, ok := v.Interface().(Date)
		if !ok {
			return nil
		}
		return d.Time
	}, Date{})

	_ = validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
}

var fieldErrors = map[string]error{
	"Type":    ErrInvalidType,
	"Amount":  ErrInvalidAmount,
	"Date":    ErrInvalidDate,
	"Account": ErrInvalidAccount,
	"Name":    ErrEmptyCardName,
}

// Validate reports the first invalid field of a transaction input.
func (in TransactionInput) Validate() error {
	return check(in)
}

type cardInput struct {
	Name string `validate:"notblank"`
}

// ValidateCardName rejects blank credit card names.
func ValidateCardName(name string) error {
	return check(cardInput{Name: name})
}

func check(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	fe := verrs[0]
	if kind, ok := fieldErrors[fe.Field()]; ok {
		return fmt.Errorf("%w (%s failed on %q)", kind, fe.Field(), fe.Tag())
	}
	return fmt.Errorf("%w: %s failed on %q", ErrValidation, fe.Field(), fe.Tag())
}
