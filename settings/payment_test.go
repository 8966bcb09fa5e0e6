package settings

import (
	"strings"
	"testing"
)

func TestWhatsAppLinkNormalizesNumber(t *testing.T) {
	s := PaymentSettings{WhatsApp: "+243 998 102 000"}
	link := s.WhatsAppLink()
	if !strings.HasPrefix(link, "https://wa.me/243998102000?text=") {
		t.Fatalf("unexpected link: %s", link)
	}
	if strings.ContainsAny(strings.TrimPrefix(link, "https://"), " +") {
		t.Fatalf("link not fully escaped: %s", link)
	}
	if !strings.Contains(link, "Bonjour") {
		t.Fatalf("proof message missing from link: %s", link)
	}
	if !strings.Contains(link, "%20") {
		t.Fatalf("spaces must be percent-encoded: %s", link)
	}
}

func TestInstructionsCarriesAmount(t *testing.T) {
	s := DefaultPaymentSettings()
	ins := s.Instructions()
	if ins.AmountUSD != s.Amount {
		t.Fatalf("expected amount %q, got %q", s.Amount, ins.AmountUSD)
	}
	if ins.Settings != s {
		t.Fatalf("instructions must embed the source settings")
	}
	if ins.WhatsAppLink == "" {
		t.Fatalf("missing whatsapp link")
	}
}

func TestApplyCoversEveryKnownKey(t *testing.T) {
	var s PaymentSettings
	for _, key := range settingKeys {
		apply(&s, key, "v-"+key)
	}
	want := PaymentSettings{
		MobileNumber:    "v-payment_mobile_number",
		MobileName:      "v-payment_mobile_name",
		BankName:        "v-payment_bank_name",
		BankAccount:     "v-payment_bank_account",
		BankBeneficiary: "v-payment_bank_beneficiary",
		WhatsApp:        "v-payment_whatsapp",
		Amount:          "v-payment_amount",
	}
	if s != want {
		t.Fatalf("apply missed a key: %+v", s)
	}
}

func TestApplyIgnoresUnknownKey(t *testing.T) {
	s := DefaultPaymentSettings()
	apply(&s, "payment_secret_backdoor", "x")
	if s != DefaultPaymentSettings() {
		t.Fatalf("unknown key must not mutate settings")
	}
}

func TestKnownKey(t *testing.T) {
	if !knownKey("payment_amount") {
		t.Fatalf("payment_amount should be known")
	}
	if knownKey("stripe_secret_key") {
		t.Fatalf("stripe_secret_key should be rejected")
	}
}
