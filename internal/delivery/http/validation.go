package http

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/cartwise/backend/internal/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// registerValidators teaches gin's validator about domain enums and json field names
func registerValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}

		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			tag := fld.Tag.Get("json")
			if tag == "-" || tag == "" {
				return fld.Name
			}
			if idx := strings.Index(tag, ","); idx >= 0 {
				tag = tag[:idx]
			}
			return tag
		})

		err := v.RegisterValidation("compareoption", func(fl validator.FieldLevel) bool {
			return domain.CompareOption(fl.Field().String()).Valid()
		})
		if err != nil {
			panic(fmt.Sprintf("register compareoption validator: %v", err))
		}
	})
}

// bindingErrorMessage turns a bind error into a short client-facing message
func bindingErrorMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "invalid request body"
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Namespace()
		if idx := strings.Index(field, "."); idx >= 0 {
			field = field[idx+1:]
		}
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", field))
		case "gte":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s", field, fe.Param()))
		case "lte":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s", field, fe.Param()))
		case "compareoption":
			msgs = append(msgs, fmt.Sprintf("%s must be one of last-1, last-3, last-5, all, custom", field))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s validation", field, fe.Tag()))
		}
	}
	return strings.Join(msgs, "; ")
}
