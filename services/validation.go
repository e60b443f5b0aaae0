package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"hotel-admin/models"

	"github.com/go-playground/validator/v10"
)

// ValidationError carries one message per offending field (JSON names).
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for f, msg := range e.Fields {
		parts = append(parts, f+": "+msg)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func newValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	enum := func(tag string, ok func(string) bool) {
		_ = v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return ok(fl.Field().String())
		})
	}
	enum("roomtype", func(s string) bool { return models.RoomType(s).Valid() })
	enum("roomstatus", func(s string) bool { return models.RoomStatus(s).Valid() })
	enum("bookingstatus", func(s string) bool { return models.BookingStatus(s).Valid() })
	enum("paymentstatus", func(s string) bool { return models.PaymentStatus(s).Valid() })
	enum("maintenancestatus", func(s string) bool { return models.MaintenanceStatus(s).Valid() })
	enum("amenity", func(s string) bool {
		_, ok := models.AmenityByID(s)
		return ok
	})

	return v
}

// validateStruct runs the struct tags and converts failures into a ValidationError.
func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := &ValidationError{Fields: map[string]string{}}
	for _, fe := range verrs {
		out.Fields[fieldPath(fe)] = describe(fe)
	}
	return out
}

// fieldPath drops the top-level struct name from the namespace.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "url", "uri":
		return "must be a valid URL"
	case "gt", "gte", "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		if fe.Tag() == "gt" {
			return "must be greater than " + fe.Param()
		}
		return "must be at least " + fe.Param()
	case "gtfield":
		return "must be after " + lowerFirst(fe.Param())
	case "gtefield":
		return "must not be before " + lowerFirst(fe.Param())
	case "oneof":
		return "must be one of: " + fe.Param()
	case "roomtype", "roomstatus", "bookingstatus", "paymentstatus", "maintenancestatus":
		return describeEnum(fe.Tag())
	case "amenity":
		return fmt.Sprintf("unknown amenity %q", fe.Value())
	}
	return "is invalid (" + fe.Tag() + ")"
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

func describeEnum(tag string) string {
	switch tag {
	case "roomtype":
		return "must be one of: standard deluxe suite"
	case "roomstatus":
		return "must be one of: available occupied maintenance cleaning do-not-disturb"
	case "bookingstatus":
		return "must be one of: pending confirmed cancelled completed"
	case "paymentstatus":
		return "must be one of: pending completed failed refunded"
	case "maintenancestatus":
		return "must be one of: scheduled in-progress completed cancelled"
	}
	return "is invalid"
}
