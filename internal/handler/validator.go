package handler

import (
    "errors"
    "fmt"
    "reflect"
    "strings"

    "github.com/go-playground/validator/v10"

    "github.com/iliyamo/travel-marketplace/internal/apperr"
)

// Validator adapts go-playground/validator to echo.Validator.  Failures
// become 400 BAD_REQUEST naming the offending fields.
type Validator struct {
    v *validator.Validate
}

func NewValidator() *Validator {
    v := validator.New(validator.WithRequiredStructEnabled())
    v.RegisterTagNameFunc(func(f reflect.StructField) string {
        name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
        if name == "-" || name == "" {
            return f.Name
        }
        return name
    })
    return &Validator{v: v}
}

func (cv *Validator) Validate(i interface{}) error {
    err := cv.v.Struct(i)
    if err == nil {
        return nil
    }
    var verrs validator.ValidationErrors
    if !errors.As(err, &verrs) {
        return apperr.BadRequest("invalid body").WithError(err)
    }
    parts := make([]string, 0, len(verrs))
    for _, fe := range verrs {
        parts = append(parts, describe(fe))
    }
    return apperr.BadRequest(strings.Join(parts, "; ")).WithError(err)
}

func describe(fe validator.FieldError) string {
    switch fe.Tag() {
    case "required":
        return fe.Field() + " is required"
    case "email":
        return fe.Field() + " must be a valid email"
    case "min", "max", "gte", "lte":
        return fmt.Sprintf("%s must be %s %s", fe.Field(), fe.Tag(), fe.Param())
    case "oneof":
        return fmt.Sprintf("%s must be one of [%s]", fe.Field(), fe.Param())
    }
    return fe.Field() + " is invalid"
}
