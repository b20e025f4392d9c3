// Package bind decodes request bodies and validates them with go-playground/validator.
// Messages use json field names and english translations.
package bind

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"ksefconnect/internal/core/nip"
	perr "ksefconnect/internal/platform/errors"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entrans "github.com/go-playground/validator/v10/translations/en"
)

// MaxBody caps request bodies. A KSeF token is well under 4KiB.
const MaxBody = 64 << 10

type engine struct {
	v     *validator.Validate
	trans ut.Translator
}

var (
	engineOnce sync.Once
	shared     engine
)

func get() engine {
	engineOnce.Do(func() {
		loc := en.New()
		trans, _ := ut.New(loc, loc).GetTranslator("en")
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(jsonName)
		_ = entrans.RegisterDefaultTranslations(v, trans)

		_ = v.RegisterValidation("nip", func(fl validator.FieldLevel) bool {
			_, ok := nip.Parse(fl.Field().String())
			return ok
		})
		for tag, text := range map[string]string{
			"min": "{0} must be at least {1} characters",
			"max": "{0} must be at most {1} characters",
			"nip": "{0} must be a valid NIP",
		} {
			registerMessage(v, trans, tag, text)
		}
		shared = engine{v: v, trans: trans}
	})
	return shared
}

func jsonName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return f.Name
	}
	return name
}

func registerMessage(v *validator.Validate, trans ut.Translator, tag, text string) {
	_ = v.RegisterTranslation(tag, trans,
		func(t ut.Translator) error { return t.Add(tag, text, true) },
		func(t ut.Translator, fe validator.FieldError) string {
			msg, _ := t.T(tag, fe.Field(), fe.Param())
			return msg
		},
	)
}

// ParseJSON decodes exactly one JSON object into T and validates it.
// Unknown fields, trailing data, empty and oversized bodies are JSON errors;
// failed validation is a validation error pointing at the first bad field.
func ParseJSON[T any](r *http.Request) (T, error) {
	var out T
	if r.Body == nil || r.Body == http.NoBody {
		return out, perr.JSONErrf("request body is required")
	}
	defer r.Body.Close()

	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, MaxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&out); err != nil {
		var tooBig *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return out, perr.JSONErrf("request body is required")
		case errors.As(err, &tooBig):
			return out, perr.JSONErrf("request body exceeds %d bytes", MaxBody)
		}
		return out, perr.JSONErrf("invalid JSON: %v", err)
	}
	if dec.More() {
		return out, perr.JSONErrf("unexpected data after the JSON object")
	}
	if err := Validate(out); err != nil {
		return out, err
	}
	return out, nil
}

// Validate runs struct tags on v
func Validate(v any) error {
	e := get()
	err := e.v.Struct(v)
	if err == nil {
		return nil
	}
	var fields validator.ValidationErrors
	if errors.As(err, &fields) && len(fields) > 0 {
		fe := fields[0]
		return perr.WithField(perr.New(perr.ErrorCodeValidation, fe.Translate(e.trans)), fe.Field())
	}
	return perr.Wrap(err, perr.ErrorCodeValidation, "validation failed")
}
