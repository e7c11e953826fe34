package dispatch

import (
	"errors"
	"fmt"

	"github.com/fjod/go_storefront/internal/domain"
)

var (
	ErrUnknownAction   = errors.New("unknown action")
	ErrMissingArgument = errors.New("missing argument")
)

type Action string

const (
	ActionDetails        Action = "details"
	ActionAddToCart      Action = "add-to-cart"
	ActionAddToWishlist  Action = "add-to-wishlist"
	ActionRemove         Action = "remove"
	ActionChangeQuantity Action = "change-quantity"
	ActionSelectPayment  Action = "select-payment"
	ActionSubmit         Action = "submit"
	ActionCancel         Action = "cancel"
	ActionCheckout       Action = "checkout"
	ActionMoveToCart     Action = "move-to-cart"
)

// Actions is the closed set accepted by Table.Dispatch.
var Actions = []Action{
	ActionDetails,
	ActionAddToCart,
	ActionAddToWishlist,
	ActionRemove,
	ActionChangeQuantity,
	ActionSelectPayment,
	ActionSubmit,
	ActionCancel,
	ActionCheckout,
	ActionMoveToCart,
}

const (
	TargetCart     = "cart"
	TargetWishlist = "wishlist"
)

// Command is one shopper action. Only the fields its action needs are read.
type Command struct {
	Action    Action                   `json:"action"`
	ProductID int64                    `json:"product_id,omitempty"`
	Target    string                   `json:"target,omitempty"`
	Delta     int                      `json:"delta,omitempty"`
	Payment   *domain.PaymentSelection `json:"payment,omitempty"`
	Customer  *domain.Customer         `json:"customer,omitempty"`
}

func (c Command) requireProduct() error {
	if c.ProductID <= 0 {
		return fmt.Errorf("%w: product_id for %s", ErrMissingArgument, c.Action)
	}
	return nil
}
