package marketing

import (
	"database/sql"
	"log"
	"time"

	"plume-backend/config"
	"plume-backend/email"
)

// Service periodically suggests the premium tier to free readers.
type Service struct {
	db *sql.DB
}

func NewService(db *sql.DB) *Service {
	return &Service{db: db}
}

// Start launches the daily campaign ticker. With billing disabled the
// campaign never runs: suppressed monetization means no upsell email either.
func (s *Service) Start() {
	if !config.BillingEnabled {
		log.Printf("[MARKETING] billing disabled, campaign not started")
		return
	}
	ticker := time.NewTicker(24 * time.Hour)
	go func() {
		for range ticker.C {
			if err := s.notifyFreeUsers(); err != nil {
				log.Printf("[MARKETING] error notifying free users: %v", err)
			}
		}
	}()
}

func (s *Service) notifyFreeUsers() error {
	rows, err := s.db.Query(`SELECT user_id, email FROM user_profiles WHERE subscription_type = 'free'`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var id int
		var mail string
		if err := rows.Scan(&id, &mail); err != nil {
			return err
		}
		if err := email.SendUpgradeSuggestion(mail); err != nil {
			log.Printf("[MARKETING] failed sending upgrade email to %s: %v", mail, err)
			continue
		}
		log.Printf("[MARKETING] upgrade suggestion sent to user %d", id)
	}
	return rows.Err()
}
