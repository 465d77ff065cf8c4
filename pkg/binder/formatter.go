package binder

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"
	"github.com/segmentio/encoding/json"
)

const (
	date     = "date"
	gt       = "gt"
	gte      = "gte"
	lte      = "lte"
	mx       = "max"
	mn       = "min"
	ne       = "ne"
	oneof    = "oneof"
	required = "required"
)

func formatUnmarshalTypeError(err *json.UnmarshalTypeError) string {
	return fmt.Sprintf("%q should be of type %s", strings.Trim(err.Field, "."), err.Type)
}

func formatSchemaConversionError(err schema.ConversionError) string {
	return fmt.Sprintf("%q should be of type %s", err.Key, err.Type)
}

func formatValidationError(err validator.FieldError) string {
	field := err.Field()

	switch err.Tag() {
	case date:
		return fmt.Sprintf("%q should be in the format of YYYY-MM-DD", field)
	case gt:
		return fmt.Sprintf("%q must be greater than %s", field, err.Param())
	case gte:
		return fmt.Sprintf("%q must be greater than or equal to %s", field, err.Param())
	case lte:
		return fmt.Sprintf("%q must be less than or equal to %s", field, err.Param())
	case mx:
		//exhaustive:ignore
		switch err.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
			reflect.Float32, reflect.Float64:
			return fmt.Sprintf("%q must be less than or equal to %s", field, err.Param())
		default:
			resource := "character"
			if err.Param() != "1" {
				resource += "s"
			}
			return fmt.Sprintf("%q length must be less than or equal to %s %s", field, err.Param(), resource)
		}
	case mn:
		//exhaustive:ignore
		switch err.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
			reflect.Float32, reflect.Float64:
			return fmt.Sprintf("%q must be greater than or equal to %s", field, err.Param())
		default:
			resource := "character"
			if err.Param() != "1" {
				resource += "s"
			}
			return fmt.Sprintf("%q length must be greater than or equal to %s %s", field, err.Param(), resource)
		}
	case ne:
		return fmt.Sprintf("%q can't be %q", field, err.Param())
	case oneof:
		valids := []string{}
		for _, p := range strings.Fields(err.Param()) {
			valids = append(valids, fmt.Sprintf("%q", p))
		}
		return fmt.Sprintf("%q must be one of the following: %s", field, strings.Join(valids, ", "))
	case required:
		return fmt.Sprintf("%q is required", field)
	default:
		return fmt.Sprintf("%q is invalid", field)
	}
}
