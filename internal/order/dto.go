package order

import (
	errors "github.com/nhatminh-dev/drinkstore/internal"
	"github.com/nhatminh-dev/drinkstore/internal/core/common/validation"
)

type CreateOrderDTO struct {
	CustomerID int64                `json:"customer_id"`
	Note       *string              `json:"note,omitempty"`
	Items      []CreateOrderItemDTO `json:"items"`
}

type CreateOrderItemDTO struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

func (dto *CreateOrderDTO) Validate() error {
	validator := validation.NewValidator()
	validator.Field("customer_id", dto.CustomerID).Required()

	if appErr := validator.Validate(); appErr != nil {
		return appErr
	}

	if len(dto.Items) == 0 {
		return errors.NewValidationError("order must contain at least one item", errors.ErrCodeValidationFailed)
	}

	for _, item := range dto.Items {
		itemValidator := validation.NewValidator()
		itemValidator.Field("product_id", item.ProductID).Required()
		itemValidator.Field("quantity", item.Quantity).Positive(errors.ErrCodeInvalidQuantity)
		if appErr := itemValidator.Validate(); appErr != nil {
			return appErr
		}
	}

	return nil
}

type UpdateStatusDTO struct {
	Status string `json:"status"`
}

func (dto *UpdateStatusDTO) Validate() error {
	validator := validation.NewValidator()
	validator.Field("status", dto.Status).Required()

	if appErr := validator.Validate(); appErr != nil {
		return appErr
	}
	return nil
}
