// Package dto holds the request and response shapes of the HTTP API.
// Every request type has exactly one Validate method.
package dto

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/yeremiapane/restaurant-hub/models"
	"github.com/yeremiapane/restaurant-hub/utils"
)

const DateLayout = "2006-01-02"

var (
	validate   = validator.New()
	timeFormat = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d(:[0-5]\d)?$`)
)

func init() {
	// Prices travel as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	_ = validate.RegisterValidation("date", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(DateLayout, fl.Field().String())
		return err == nil
	})
	_ = validate.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		return timeFormat.MatchString(fl.Field().String())
	})
	_ = validate.RegisterValidation("dishcategory", func(fl validator.FieldLevel) bool {
		return models.IsDishCategory(fl.Field().String())
	})
	_ = validate.RegisterValidation("restaurantcategory", func(fl validator.FieldLevel) bool {
		return models.IsRestaurantCategory(fl.Field().String())
	})
	_ = validate.RegisterValidation("linestatus", func(fl validator.FieldLevel) bool {
		return models.IsValidLineStatus(fl.Field().String())
	})
}

// validateStruct runs the struct tags and folds the failures into a
// single ValidationError naming each offending field.
func validateStruct(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return utils.NewValidationError(err.Error())
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s: %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s: %s", fe.Field(), fe.Tag()))
		}
	}
	return utils.NewValidationError("invalid fields: " + strings.Join(msgs, ", "))
}

// NormalizeClock turns "18:30:00" or "18:30" into "18:30".
func NormalizeClock(v string) string {
	if len(v) >= 5 {
		return v[:5]
	}
	return v
}
