package service

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report fields by their json name
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("positive", func(fl validator.FieldLevel) bool {
		d, ok := fl.Field().Interface().(decimal.Decimal)
		return ok && d.IsPositive()
	})
	_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return IsCategory(fl.Field().String())
	})
	return v
}

// fieldMessages maps "<field>.<tag>" to the message shown next to the form field.
var fieldMessages = map[string]string{
	"name.required":     "Product name is required",
	"name.min":          "Product name is required",
	"name.max":          "Name must be less than 100 characters",
	"price.required":    "Price must be greater than 0",
	"price.positive":    "Price must be greater than 0",
	"category.required": "Category is required",
	"category.category": "Category must be one of: " + strings.Join(categories, ", "),
	"stock.required":    "Stock is required",
	"stock.min":         "Stock cannot be negative",
	"description.max":   "Description must be less than 500 characters",
}

// FieldErrors maps a field name to its validation message.
type FieldErrors map[string]string

// ValidationError is returned when a draft fails validation. No mutation happened.
type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fmt.Sprintf("validation failed for %s", strings.Join(fields, ", "))
}

// AsValidationError extracts the per-field errors from err, if it carries any.
func AsValidationError(err error) (FieldErrors, bool) {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return vErr.Fields, true
	}
	return nil, false
}

// Validate checks a draft or patch against its struct tags and returns nil when it passes.
func Validate(v any) FieldErrors {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return FieldErrors{"_": err.Error()}
	}
	out := make(FieldErrors, len(validationErrors))
	for _, fieldErr := range validationErrors {
		field := fieldErr.Field()
		if _, seen := out[field]; seen {
			continue
		}
		if msg, ok := fieldMessages[field+"."+fieldErr.Tag()]; ok {
			out[field] = msg
			continue
		}
		out[field] = "failed on rule: " + fieldErr.Tag()
	}
	return out
}

// FormInput is the raw text of the product form.
type FormInput struct {
	Name        string `json:"name"`
	Price       string `json:"price"`
	Category    string `json:"category"`
	Stock       string `json:"stock"`
	Description string `json:"description"`
}

// FormInputFromDto fills the form with the editable fields of an existing product.
func FormInputFromDto(p ProductDto) FormInput {
	return FormInput{
		Name:        p.Name,
		Price:       p.Price.StringFixed(2),
		Category:    p.Category,
		Stock:       strconv.FormatInt(int64(p.Stock), 10),
		Description: p.Description,
	}
}

// ParseForm converts raw form text into a typed draft. Numeric fields that cannot be
// parsed are reported with their own message; the remaining rules come from Validate.
// Empty numeric fields are read as 0.
func ParseForm(in FormInput) (ProductDraft, FieldErrors) {
	draft := ProductDraft{
		Name:        in.Name,
		Category:    in.Category,
		Description: in.Description,
	}
	parseErrs := FieldErrors{}

	if s := strings.TrimSpace(in.Price); s != "" {
		price, err := decimal.NewFromString(s)
		if err != nil {
			parseErrs["price"] = "Price must be a number"
		} else {
			draft.Price = price
		}
	}

	if s := strings.TrimSpace(in.Stock); s != "" {
		stock, err := strconv.ParseFloat(s, 64)
		switch {
		case err != nil || math.IsNaN(stock) || math.IsInf(stock, 0):
			parseErrs["stock"] = "Stock must be a number"
		case stock != math.Trunc(stock):
			parseErrs["stock"] = "Stock must be a whole number"
		case stock < 0:
			parseErrs["stock"] = "Stock cannot be negative"
		case stock > math.MaxInt32:
			parseErrs["stock"] = fmt.Sprintf("Stock must be at most %d", math.MaxInt32)
		default:
			draft.Stock = int32(stock)
		}
	}

	errs := Validate(draft)
	for field, msg := range parseErrs {
		if errs == nil {
			errs = FieldErrors{}
		}
		errs[field] = msg
	}
	return draft, errs
}
