package controllers

import (
	"errors"
	"net/http"
	"regexp"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// Kenyan mobile numbers: 07XX/01XX local form or the +254 international form.
var phonePattern = regexp.MustCompile(`^(?:\+?254|0)[17]\d{8}$`)

// bindJSON binds the request body and, on failure, writes the field-level
// validation response. Returns false when the request was rejected.
func bindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "validation failed",
			"fields": fieldErrors(err),
		})
		return false
	}
	return true
}

// fieldErrors converts binding errors into messages keyed by field name.
func fieldErrors(err error) map[string]string {
	fields := map[string]string{}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			fields[toSnake(fe.Field())] = messageFor(fe)
		}
		return fields
	}
	fields["body"] = err.Error()
	return fields
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	case "min":
		return "too short"
	default:
		return "invalid value"
	}
}

// requirePhone validates the Kenyan phone format and writes the field error
// itself when the value is malformed.
func requirePhone(c *gin.Context, field, phone string) bool {
	if !phonePattern.MatchString(phone) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "validation failed",
			"fields": map[string]string{field: "must be a valid Kenyan phone number"},
		})
		return false
	}
	return true
}

func toSnake(name string) string {
	var b strings.Builder
	for i, r := range name {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
