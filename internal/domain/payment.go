package domain

import "strings"

type PaymentMethod string

const (
	PaymentEasypaisa      PaymentMethod = "easypaisa"
	PaymentJazzCash       PaymentMethod = "jazzcash"
	PaymentBankTransfer   PaymentMethod = "bank"
	PaymentCashOnDelivery PaymentMethod = "cod"
)

var PaymentMethods = []PaymentMethod{
	PaymentEasypaisa,
	PaymentJazzCash,
	PaymentBankTransfer,
	PaymentCashOnDelivery,
}

func (m PaymentMethod) IsValid() bool {
	for _, pm := range PaymentMethods {
		if pm == m {
			return true
		}
	}
	return false
}

func (m PaymentMethod) IsMobileWallet() bool {
	return m == PaymentEasypaisa || m == PaymentJazzCash
}

func (m PaymentMethod) DisplayName() string {
	switch m {
	case PaymentEasypaisa:
		return "Easypaisa"
	case PaymentJazzCash:
		return "JazzCash"
	case PaymentBankTransfer:
		return "Bank Transfer"
	case PaymentCashOnDelivery:
		return "Cash on Delivery"
	default:
		return string(m)
	}
}

func (m PaymentMethod) String() string {
	return string(m)
}

// Bank is one of the banks offered for bank transfer.
type Bank struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

var Banks = []Bank{
	{Code: "hbl", Name: "HBL - Habib Bank Limited"},
	{Code: "ubl", Name: "UBL - United Bank Limited"},
	{Code: "mcb", Name: "MCB - Muslim Commercial Bank"},
	{Code: "abl", Name: "ABL - Allied Bank Limited"},
	{Code: "nbl", Name: "NBL - National Bank of Pakistan"},
	{Code: "js", Name: "JS Bank"},
	{Code: "meezan", Name: "Meezan Bank"},
}

// PaymentSelection is the chosen method plus its method-specific fields.
type PaymentSelection struct {
	Method        PaymentMethod `json:"method"`
	WalletNumber  string        `json:"wallet_number,omitempty"`
	BankName      string        `json:"bank_name,omitempty"`
	AccountNumber string        `json:"account_number,omitempty"`
}

// MissingFields lists the method-specific fields left empty.
func (p PaymentSelection) MissingFields() []string {
	var missing []string
	switch {
	case p.Method.IsMobileWallet():
		if strings.TrimSpace(p.WalletNumber) == "" {
			missing = append(missing, "wallet_number")
		}
	case p.Method == PaymentBankTransfer:
		if strings.TrimSpace(p.BankName) == "" {
			missing = append(missing, "bank_name")
		}
		if strings.TrimSpace(p.AccountNumber) == "" {
			missing = append(missing, "account_number")
		}
	}
	return missing
}
