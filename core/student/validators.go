package student

import (
	"github.com/go-playground/validator/v10"

	"github.com/meshwar/roster/core"
)

var (
	attStatusTag  = "attstatus"
	attStatusText = "invalid attendance status"
)

func init() {
	// register validators
	_ = core.Validate.RegisterValidation(attStatusTag, attStatusValidation)
	core.RegisterCustomTranslation(core.Validate, core.Translator, attStatusTag, attStatusText)
}

// attStatusValidation checks that the provided status is a known attendance status.
func attStatusValidation(fl validator.FieldLevel) bool {
	status := fl.Field().String()
	return status == StatusPresent || status == StatusAbsent
}
