package handler

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/motoshop/directory-api/internal/model"
)

// Registers the servicecategory binding tag used by request payloads.
func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("servicecategory", func(fl validator.FieldLevel) bool {
			return model.ServiceCategory(fl.Field().String()).Valid()
		})
	}
}
