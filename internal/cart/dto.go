package cart

import (
	errors "github.com/nhatminh-dev/drinkstore/internal"
	"github.com/nhatminh-dev/drinkstore/internal/core/common/validation"
)

type AddItemDTO struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

func (dto *AddItemDTO) Validate() error {
	validator := validation.NewValidator()
	validator.Field("product_id", dto.ProductID).Required()
	validator.Field("quantity", dto.Quantity).Positive(errors.ErrCodeInvalidQuantity)

	if appErr := validator.Validate(); appErr != nil {
		return appErr
	}
	return nil
}
