package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/application/auth"
	domerrors "github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/domain/errors"
)

// MaxJSONBodyBytes caps JSON request bodies.
const MaxJSONBodyBytes = 1 << 20

// NewValidator returns a validator that reports JSON field names and knows the
// password_strength rule.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("password_strength", func(fl validator.FieldLevel) bool {
		return auth.ValidatePassword(fl.Field().String()) == nil
	})
	return v
}

// decodeJSON reads a size-limited JSON body into dst and validates it.
func decodeJSON(w http.ResponseWriter, r *http.Request, v *validator.Validate, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxJSONBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return domerrors.Invalid("", "invalid body")
	}
	if err := v.Struct(dst); err != nil {
		return validationError(err)
	}
	return nil
}

func validationError(err error) error {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return domerrors.Invalid("", err.Error())
	}
	fe := ve[0]
	switch fe.Tag() {
	case "required":
		return domerrors.Invalid(fe.Field(), "is required")
	case "password_strength":
		return auth.ValidatePassword(fmt.Sprint(fe.Value()))
	case "max":
		return domerrors.Invalid(fe.Field(), "must not exceed "+fe.Param()+" characters")
	case "email":
		return domerrors.Invalid(fe.Field(), "must be a valid email address")
	default:
		return domerrors.Invalid(fe.Field(), "failed "+fe.Tag()+" validation")
	}
}
