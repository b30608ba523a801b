package handlers

import (
	"errors"
	"sync"

	"fleetreport/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// RegisterValidators adds the custom binding rules used by request structs:
// isodate accepts YYYY-MM-DD.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
			_, err := utils.ParseDate(fl.Field().String())
			return err == nil
		})
	})
}

// validationDetails lists the failed field rules, or the raw message for
// decoding errors.
func validationDetails(err error) any {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err.Error()
	}
	out := make([]gin.H, 0, len(ve))
	for _, fe := range ve {
		out = append(out, gin.H{"field": fe.Field(), "rule": fe.Tag(), "param": fe.Param()})
	}
	return out
}
