package http

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/Kushal-Harsora/questionaire/booking"
)

// RegisterValidations adds the custom tags used by the request forms to
// gin's validator.
func RegisterValidations() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}

	return v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return booking.ValidPhone(fl.Field().String())
	})
}
