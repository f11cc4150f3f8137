package dto

import (
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"echeck-gateway/internal/check"
	"echeck-gateway/internal/core/domain"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	safeStringRe = regexp.MustCompile(`^[a-zA-Z0-9_\-\.:]+$`)
	digitsRe     = regexp.MustCompile(`^[0-9]+$`)
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		RegisterValidators(v)
	}
}

// RegisterValidators installs the custom tags on v.
func RegisterValidators(v *validator.Validate) {
	_ = v.RegisterValidation("safe_id", validateSafeID)
	_ = v.RegisterValidation("aba_routing", validateABARouting)
	_ = v.RegisterValidation("digits", validateDigits)
	_ = v.RegisterValidation("delivery_method", validateDeliveryMethod)
}

// validateSafeID allows alphanumeric, underscore, dash, dot and colon.
func validateSafeID(fl validator.FieldLevel) bool {
	return safeStringRe.MatchString(fl.Field().String())
}

// validateABARouting requires nine digits passing the ABA checksum.
func validateABARouting(fl validator.FieldLevel) bool {
	return check.ValidRoutingNumber(fl.Field().String())
}

func validateDigits(fl validator.FieldLevel) bool {
	return digitsRe.MatchString(fl.Field().String())
}

func validateDeliveryMethod(fl validator.FieldLevel) bool {
	return domain.DeliveryMethod(fl.Field().String()).Valid()
}

// SanitizeStruct trims whitespace and drops control characters from every
// exported string field (including *string) of a struct pointer. Fields
// tagged `sanitize:"-"` are left alone.
func SanitizeStruct(v interface{}) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Struct {
		return
	}
	sanitizeFields(rv.Elem())
}

func sanitizeFields(rv reflect.Value) {
	rt := rv.Type()
	for i := 0; i < rv.NumField(); i++ {
		f := rv.Field(i)
		if !f.CanSet() || rt.Field(i).Tag.Get("sanitize") == "-" {
			continue
		}
		switch f.Kind() {
		case reflect.String:
			f.SetString(sanitize(f.String()))
		case reflect.Ptr:
			if f.IsNil() {
				continue
			}
			elem := f.Elem()
			if elem.Kind() == reflect.String {
				elem.SetString(sanitize(elem.String()))
			}
		}
	}
}

func sanitize(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(s)
}
