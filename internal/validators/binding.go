package validators

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/BruksfildServices01/barber-pos/internal/domain/sale"
	"github.com/BruksfildServices01/barber-pos/internal/models"
)

// Register adds the custom rules to gin's binding engine. Call once at
// startup, before routes serve requests.
func Register() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected binding engine %T", binding.Validator.Engine())
	}
	return RegisterOn(v)
}

func RegisterOn(v *validator.Validate) error {
	if err := v.RegisterValidation("payment_method", paymentMethod); err != nil {
		return err
	}
	return v.RegisterValidation("item_type", itemType)
}

func paymentMethod(fl validator.FieldLevel) bool {
	m := strings.ToLower(strings.TrimSpace(fl.Field().String()))
	return m == "" || sale.IsPaymentMethod(m)
}

func itemType(fl validator.FieldLevel) bool {
	t := strings.ToLower(strings.TrimSpace(fl.Field().String()))
	return t == models.ItemTypeService || t == models.ItemTypeProduct
}

// Message turns the first validator error into "<field> <problem>".
func Message(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return err.Error()
	}

	fe := verrs[0]
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "email":
		return field + " must be a valid email"
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", field, fe.Param())
	case "payment_method":
		return field + " must be one of cash, card, yape, plin"
	case "item_type":
		return field + " must be service or product"
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}
