package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// FieldError is one entry of the validation detail list.
type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Param   string `json:"param,omitempty"`
	Message string `json:"message,omitempty"`
}

// bindDetails rides under a 400 "Invalid request body". JSON marks a
// body that never decoded, Fields carries tag failures.
type bindDetails struct {
	JSON   string       `json:"json,omitempty"`
	Field  string       `json:"field,omitempty"`
	Reason string       `json:"reason,omitempty"`
	Fields []FieldError `json:"fields,omitempty"`
}

// BindJSON decodes and validates the body into out. On failure the 400
// is already written, callers just return.
func BindJSON(ctx *gin.Context, out interface{}) bool {
	if err := ctx.ShouldBindJSON(out); err != nil {
		RespondBadRequest(ctx, "Invalid request body", detailsFor(err, out))
		return false
	}
	return true
}

// All request payloads here are flat structs, which keeps the mapping
// simple: validator failures carry Go field names that translate
// through the json tag, while encoding/json already reports json keys.
func detailsFor(err error, out interface{}) bindDetails {
	var (
		vErrs   validator.ValidationErrors
		syntax  *json.SyntaxError
		badType *json.UnmarshalTypeError
	)

	switch {
	case errors.As(err, &vErrs):
		names := jsonNames(out)

		fields := make([]FieldError, 0, len(vErrs))
		for _, fe := range vErrs {
			name := names[fe.StructField()]
			if name == "" {
				name = fe.StructField()
			}

			fields = append(fields, FieldError{
				Field:   name,
				Rule:    fe.Tag(),
				Param:   fe.Param(),
				Message: ruleMessage(fe.Tag(), fe.Param()),
			})
		}
		return bindDetails{Fields: fields}

	// truncated and empty bodies surface as EOFs from the decoder, not
	// as SyntaxError
	case errors.As(err, &syntax),
		errors.Is(err, io.ErrUnexpectedEOF),
		errors.Is(err, io.EOF):
		return bindDetails{JSON: "invalid_json_syntax"}

	case errors.As(err, &badType):
		field := strings.TrimSpace(badType.Field)

		return bindDetails{
			JSON:  "invalid_json_type",
			Field: field,
			Fields: []FieldError{{
				Field:   field,
				Rule:    "type",
				Message: "must be of type " + badType.Type.String(),
			}},
		}

	default:
		return bindDetails{Reason: err.Error()}
	}
}

// jsonNames maps Go field names to their json keys for a flat struct.
func jsonNames(out interface{}) map[string]string {
	t := reflect.TypeOf(out)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil
	}

	names := make(map[string]string, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)

		name, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			name = sf.Name
		}
		names[sf.Name] = name
	}
	return names
}

var ruleMessages = map[string]string{
	"required": "is required",
	"email":    "must be a valid email address",
	"e164":     "must be an E.164 phone number",
}

func ruleMessage(rule, param string) string {
	if msg, ok := ruleMessages[rule]; ok {
		return msg
	}

	switch rule {
	case "min":
		return "must be at least " + param
	case "max":
		return "must be at most " + param
	case "len":
		return "must be exactly " + param
	case "oneof":
		return "must be one of " + strings.ReplaceAll(param, " ", ", ")
	}

	if param != "" {
		return "failed " + rule + " validation (" + param + ")"
	}
	return "failed " + rule + " validation"
}
