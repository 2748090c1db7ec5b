package http

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var configureValidatorOnce sync.Once

// configureValidator reporta errores con el nombre JSON del campo y registra el tag notblank.
func configureValidator() {
	configureValidatorOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("notblank", notBlank)
	})
}

// notBlank rechaza strings compuestos solo por espacios.
func notBlank(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.String {
		return true
	}
	return strings.TrimSpace(field.String()) != ""
}

var fieldLabels = map[string]string{
	"loginName":   "Login name",
	"email":       "Email",
	"rawPassword": "Password",
	"firstName":   "First name",
	"secondName":  "Second name",
	"identifier":  "Email or username",
	"address":     "Address",
	"headline":    "Headline",
	"dobDay":      "Day of birth",
	"dobMonth":    "Month of birth",
	"dobYear":     "Year of birth",
	"phoneNo":     "Phone number",
	"gender":      "Gender",
}

// bindJSON decodifica y valida el body. Si falla devuelve el mapa campo -> mensaje.
func bindJSON(c *gin.Context, req any) (map[string]string, bool) {
	err := c.ShouldBindJSON(req)
	if err == nil {
		return nil, true
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"body": "invalid JSON body"}, false
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		if _, exists := out[fe.Field()]; exists {
			continue
		}
		out[fe.Field()] = fieldMessage(fe)
	}
	return out, false
}

func fieldMessage(fe validator.FieldError) string {
	label, ok := fieldLabels[fe.Field()]
	if !ok {
		label = fe.Field()
	}
	unit := ""
	if fe.Kind() == reflect.String {
		unit = " characters"
	}
	switch fe.Tag() {
	case "required", "notblank":
		return label + " field is required"
	case "email":
		return label + " is invalid"
	case "min":
		return fmt.Sprintf("%s must be at least %s%s", label, fe.Param(), unit)
	case "max":
		return fmt.Sprintf("%s must be at most %s%s", label, fe.Param(), unit)
	default:
		return label + " is invalid"
	}
}
