package domain

type CheckoutState string

const (
	CheckoutStateIdle            CheckoutState = "IDLE"
	CheckoutStateFormOpen        CheckoutState = "FORM_OPEN"
	CheckoutStatePaymentSelected CheckoutState = "PAYMENT_SELECTED"
	CheckoutStateSubmitted       CheckoutState = "SUBMITTED"
	CheckoutStateCancelled       CheckoutState = "CANCELLED"
)

var checkoutTransitions = map[CheckoutState][]CheckoutState{
	CheckoutStateIdle:            {CheckoutStateFormOpen},
	CheckoutStateFormOpen:        {CheckoutStatePaymentSelected, CheckoutStateCancelled},
	CheckoutStatePaymentSelected: {CheckoutStatePaymentSelected, CheckoutStateSubmitted, CheckoutStateCancelled},
	CheckoutStateSubmitted:       {CheckoutStateIdle},
	CheckoutStateCancelled:       {CheckoutStateIdle},
}

func CanTransitionTo(from, to CheckoutState) bool {
	for _, s := range checkoutTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// IsTerminal reports states that immediately hand control back to Idle.
func (s CheckoutState) IsTerminal() bool {
	return s == CheckoutStateSubmitted || s == CheckoutStateCancelled
}

// String representation (for logging)
func (s CheckoutState) String() string {
	return string(s)
}
