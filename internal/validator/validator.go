// internal/validator/validator.go
package validator

import (
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"

	"finance-tracker/internal/domain"

	"github.com/go-playground/validator/v10"
)

var Validate *validator.Validate

var nonBlank = regexp.MustCompile(`\S`)

func init() {
	Validate = validator.New(validator.WithRequiredStructEnabled())

	// report fields by their json names so errors map onto request keys
	Validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// "2024-12"
	_ = Validate.RegisterValidation("yearmonth", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(domain.MonthLayout, fl.Field().String())
		return err == nil
	})

	// "2024-12-31"
	_ = Validate.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		_, err := domain.ParseDate(fl.Field().String())
		return err == nil
	})

	// not empty and not only whitespace
	_ = Validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return nonBlank.MatchString(fl.Field().String())
	})

	// length in bytes, for inputs such as bcrypt passwords capped by size
	_ = Validate.RegisterValidation("maxbytes", func(fl validator.FieldLevel) bool {
		limit, err := strconv.Atoi(fl.Param())
		if err != nil {
			return false
		}
		return len(fl.Field().String()) <= limit
	})

	// amount that survives normalization ("1.234,56", "R$ 10", 12.5)
	_ = Validate.RegisterValidation("money", func(fl validator.FieldLevel) bool {
		_, err := domain.NormalizeAmount(fl.Field().String())
		return err == nil
	})
}
