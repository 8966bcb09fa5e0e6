package settings

import (
	"fmt"
	"net/url"
	"strings"
)

// PaymentSettings are the manual payment instructions shown when a reader
// hits the entitlement gate. There is no payment processing behind them: the
// reader pays out of band and sends proof over WhatsApp.
type PaymentSettings struct {
	MobileNumber    string `json:"payment_mobile_number"`
	MobileName      string `json:"payment_mobile_name"`
	BankName        string `json:"payment_bank_name"`
	BankAccount     string `json:"payment_bank_account"`
	BankBeneficiary string `json:"payment_bank_beneficiary"`
	WhatsApp        string `json:"payment_whatsapp"`
	Amount          string `json:"payment_amount"`
}

// DefaultPaymentSettings are the hard-coded fallbacks used when the settings
// store is unavailable or a key is missing.
func DefaultPaymentSettings() PaymentSettings {
	return PaymentSettings{
		MobileNumber:    "+243 998 102 000",
		MobileName:      "Kot Gracia",
		BankName:        "Equity BCDC",
		BankAccount:     "500005286303929",
		BankBeneficiary: "KOT MUNON GRÂCE",
		WhatsApp:        "+243998102000",
		Amount:          "5",
	}
}

const proofMessage = "Bonjour, j'ai effectué le paiement pour le téléchargement d'un document. Voici ma preuve de paiement :"

// WhatsAppLink builds the wa.me deep link used to send proof of payment.
// Spaces are percent-encoded, not '+': wa.me renders '+' literally in the
// prefilled message.
func (s PaymentSettings) WhatsAppLink() string {
	number := strings.ReplaceAll(s.WhatsApp, " ", "")
	number = strings.TrimPrefix(number, "+")
	text := strings.ReplaceAll(url.QueryEscape(proofMessage), "+", "%20")
	return fmt.Sprintf("https://wa.me/%s?text=%s", number, text)
}

// Instructions is the payload rendered beneath the gate's unlock narrative.
type Instructions struct {
	Settings     PaymentSettings `json:"settings"`
	WhatsAppLink string          `json:"whatsapp_link"`
	AmountUSD    string          `json:"amount_usd"`
}

func (s PaymentSettings) Instructions() Instructions {
	return Instructions{Settings: s, WhatsAppLink: s.WhatsAppLink(), AmountUSD: s.Amount}
}
