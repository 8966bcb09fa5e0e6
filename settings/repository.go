package settings

import (
	"database/sql"
	"log"
)

// settingKeys maps site_settings keys to PaymentSettings fields.
var settingKeys = []string{
	"payment_mobile_number",
	"payment_mobile_name",
	"payment_bank_name",
	"payment_bank_account",
	"payment_bank_beneficiary",
	"payment_whatsapp",
	"payment_amount",
}

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// GetPaymentSettings merges stored payment keys over the hard-coded
// defaults. A fetch failure degrades to the defaults and is logged, never
// surfaced to the reader.
func (r *Repository) GetPaymentSettings() PaymentSettings {
	s := DefaultPaymentSettings()
	rows, err := r.db.Query("SELECT `key`, IFNULL(value,'') FROM site_settings WHERE category='payment'")
	if err != nil {
		log.Printf("[SETTINGS][payment] fetch failed, using defaults: %v", err)
		return s
	}
	defer rows.Close()
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			log.Printf("[SETTINGS][payment] scan failed, using defaults: %v", err)
			return DefaultPaymentSettings()
		}
		if value == "" {
			continue
		}
		apply(&s, key, value)
	}
	if err := rows.Err(); err != nil {
		log.Printf("[SETTINGS][payment] iteration failed, using defaults: %v", err)
		return DefaultPaymentSettings()
	}
	return s
}

func apply(s *PaymentSettings, key, value string) {
	switch key {
	case "payment_mobile_number":
		s.MobileNumber = value
	case "payment_mobile_name":
		s.MobileName = value
	case "payment_bank_name":
		s.BankName = value
	case "payment_bank_account":
		s.BankAccount = value
	case "payment_bank_beneficiary":
		s.BankBeneficiary = value
	case "payment_whatsapp":
		s.WhatsApp = value
	case "payment_amount":
		s.Amount = value
	}
}

// SeedDefaults inserts any missing payment key so the admin screen starts
// from the real values instead of blanks. Existing rows are left untouched.
func (r *Repository) SeedDefaults() error {
	defaults := DefaultPaymentSettings()
	values := map[string]string{
		"payment_mobile_number":    defaults.MobileNumber,
		"payment_mobile_name":      defaults.MobileName,
		"payment_bank_name":        defaults.BankName,
		"payment_bank_account":     defaults.BankAccount,
		"payment_bank_beneficiary": defaults.BankBeneficiary,
		"payment_whatsapp":         defaults.WhatsApp,
		"payment_amount":           defaults.Amount,
	}
	for _, key := range settingKeys {
		_, err := r.db.Exec(
			"INSERT IGNORE INTO site_settings (category, `key`, value) VALUES ('payment', ?, ?)",
			key, values[key],
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// UpsertPaymentSetting writes one payment key.
func (r *Repository) UpsertPaymentSetting(key, value string) error {
	_, err := r.db.Exec(
		"INSERT INTO site_settings (category, `key`, value) VALUES ('payment', ?, ?) ON DUPLICATE KEY UPDATE value=VALUES(value)",
		key, value,
	)
	return err
}

func knownKey(key string) bool {
	for _, k := range settingKeys {
		if k == key {
			return true
		}
	}
	return false
}
