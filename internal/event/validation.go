package event

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidators adds the eventcategory, difficulty and eventstatus
// tags to gin's validator.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	if err := v.RegisterValidation("eventcategory", func(fl validator.FieldLevel) bool {
		return Category(fl.Field().String()).Valid()
	}); err != nil {
		return err
	}
	if err := v.RegisterValidation("difficulty", func(fl validator.FieldLevel) bool {
		return Difficulty(fl.Field().String()).Valid()
	}); err != nil {
		return err
	}
	return v.RegisterValidation("eventstatus", func(fl validator.FieldLevel) bool {
		return Status(fl.Field().String()).Valid()
	})
}
