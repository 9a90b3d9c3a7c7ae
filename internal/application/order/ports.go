package order

import (
	"context"

	appPayment "github.com/Zhima-Mochi/minishop-store/internal/application/payment"
	domain "github.com/Zhima-Mochi/minishop-store/internal/domain/order"
)

// PaymentPort is the payment step run at the end of every placement.
type PaymentPort interface {
	ProcessPayment(ctx context.Context, o *domain.Order) *appPayment.ProcessPaymentResult
}
