package entitlement

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const profileColumns = `id, user_id, email, IFNULL(full_name,''), subscription_type, subscription_updated_at, created_at, updated_at`

func scanProfile(row interface{ Scan(...any) error }) (*Profile, error) {
	var p Profile
	var updatedAt sql.NullTime
	if err := row.Scan(&p.ID, &p.UserID, &p.Email, &p.FullName, &p.SubscriptionType, &updatedAt, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	if updatedAt.Valid {
		t := updatedAt.Time
		p.SubscriptionUpdatedAt = &t
	}
	return &p, nil
}

func (r *Repository) GetProfileByUserID(userID int) (*Profile, error) {
	row := r.db.QueryRow(`SELECT `+profileColumns+` FROM user_profiles WHERE user_id=? LIMIT 1`, userID)
	return scanProfile(row)
}

func (r *Repository) GetProfileByEmail(email string) (*Profile, error) {
	row := r.db.QueryRow(`SELECT `+profileColumns+` FROM user_profiles WHERE email=? LIMIT 1`, email)
	return scanProfile(row)
}

// EnsureProfile creates the free-tier profile for a user if none exists.
// Registration calls this so exactly one profile exists per user.
func (r *Repository) EnsureProfile(userID int, email, fullName string) (*Profile, error) {
	existing, err := r.GetProfileByUserID(userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}
	id := uuid.NewString()
	_, err = r.db.Exec(
		`INSERT INTO user_profiles (id, user_id, email, full_name, subscription_type) VALUES (?,?,?,?,?)`,
		id, userID, email, fullName, string(SubscriptionFree),
	)
	if err != nil {
		return nil, err
	}
	return r.GetProfileByUserID(userID)
}

// ListProfiles returns all profiles, newest first, optionally filtered by tier.
func (r *Repository) ListProfiles(filter SubscriptionType) ([]Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM user_profiles`
	args := []any{}
	if filter != "" {
		query += ` WHERE subscription_type=?`
		args = append(args, string(filter))
	}
	query += ` ORDER BY created_at DESC`
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	profiles := []Profile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, *p)
	}
	return profiles, rows.Err()
}

// SetSubscriptionType flips a user's tier and stamps
// subscription_updated_at. On a rejected write the prior tier stays intact;
// there is no partial state to roll back.
func (r *Repository) SetSubscriptionType(userID int, t SubscriptionType) error {
	if !t.Valid() {
		return fmt.Errorf("invalid subscription type %q", t)
	}
	existing, err := r.GetProfileByUserID(userID)
	if err != nil {
		return err
	}
	if existing == nil {
		return fmt.Errorf("no profile for user %d", userID)
	}
	_, err = r.db.Exec(
		`UPDATE user_profiles SET subscription_type=?, subscription_updated_at=NOW(), updated_at=NOW() WHERE user_id=?`,
		string(t), userID,
	)
	return err
}
