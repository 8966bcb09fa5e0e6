package migrations

import (
	"database/sql"
	"fmt"
	"time"
)

type User struct {
	ID        int       `db:"id"`
	FirstName string    `db:"first_name"`
	LastName  string    `db:"last_name"`
	Email     string    `db:"email"`
	Password  string    `db:"password"`
	Role      string    `db:"role"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

var db *sql.DB

// Init sets the DB connection for migrations and queries
func Init(database *sql.DB) {
	db = database
}

// Migrate creates required tables if they do not exist
func Migrate() error {
	if db == nil {
		return fmt.Errorf("db is not initialized")
	}
	createUsers := `
	CREATE TABLE IF NOT EXISTS users (
		id INT AUTO_INCREMENT PRIMARY KEY,
		first_name VARCHAR(100) NOT NULL,
		last_name VARCHAR(100) NOT NULL,
		email VARCHAR(191) NOT NULL UNIQUE,
		password VARCHAR(191) NOT NULL,
		role VARCHAR(50) NOT NULL DEFAULT 'user',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`
	if _, err := db.Exec(createUsers); err != nil {
		return err
	}

	createProfiles := `
	CREATE TABLE IF NOT EXISTS user_profiles (
		id CHAR(36) PRIMARY KEY,
		user_id INT NOT NULL UNIQUE,
		email VARCHAR(191) NOT NULL,
		full_name VARCHAR(200) DEFAULT '',
		subscription_type VARCHAR(20) NOT NULL DEFAULT 'free',
		subscription_updated_at DATETIME NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`
	if _, err := db.Exec(createProfiles); err != nil {
		return err
	}

	createPublications := `
	CREATE TABLE IF NOT EXISTS publications (
		id CHAR(36) PRIMARY KEY,
		title VARCHAR(255) NOT NULL,
		author VARCHAR(200) NOT NULL,
		description TEXT,
		category VARCHAR(20) NOT NULL,
		cover_image_url VARCHAR(500) DEFAULT '',
		file_url VARCHAR(500) DEFAULT '',
		page_count INT NOT NULL DEFAULT 0,
		preview_page_count INT NOT NULL DEFAULT 0,
		views_count INT NOT NULL DEFAULT 0,
		is_published TINYINT(1) NOT NULL DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`
	if _, err := db.Exec(createPublications); err != nil {
		return err
	}

	createSettings := `
	CREATE TABLE IF NOT EXISTS site_settings (
		id INT AUTO_INCREMENT PRIMARY KEY,
		category VARCHAR(50) NOT NULL,
		` + "`key`" + ` VARCHAR(100) NOT NULL UNIQUE,
		value TEXT,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`
	if _, err := db.Exec(createSettings); err != nil {
		return err
	}

	createMessages := `
	CREATE TABLE IF NOT EXISTS contact_messages (
		id CHAR(36) PRIMARY KEY,
		name VARCHAR(200) NOT NULL,
		email VARCHAR(191) NOT NULL,
		subject VARCHAR(255) DEFAULT '',
		message TEXT NOT NULL,
		is_read TINYINT(1) NOT NULL DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`
	if _, err := db.Exec(createMessages); err != nil {
		return err
	}
	return nil
}

// SeedDefaultAdmin inserts the default administrator account if none exists
func SeedDefaultAdmin() error {
	if db == nil {
		return fmt.Errorf("db is not initialized")
	}
	var count int
	if err := db.QueryRow("SELECT COUNT(1) FROM users WHERE role = 'admin'").Scan(&count); err != nil {
		return err
	}
	if count == 0 {
		_, err := db.Exec(
			"INSERT INTO users (first_name, last_name, email, password, role) VALUES (?, ?, ?, ?, ?)",
			"Admin", "Plume d'Or", "kmgmultiservices98@gmail.com", "changemoi", "admin",
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// GetUserByEmail retrieves a user from DB by email
func GetUserByEmail(email string) *User {
	if db == nil {
		return nil
	}
	row := db.QueryRow("SELECT id, first_name, last_name, email, password, role, created_at, updated_at FROM users WHERE email = ? LIMIT 1", email)
	var u User
	if err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.Password, &u.Role, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil
	}
	return &u
}

// GetUserByID retrieves a user by its ID
func GetUserByID(id int) *User {
	if db == nil {
		return nil
	}
	row := db.QueryRow("SELECT id, first_name, last_name, email, password, role, created_at, updated_at FROM users WHERE id = ? LIMIT 1", id)
	var u User
	if err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.Password, &u.Role, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil
	}
	return &u
}

// UpdateUserPassword updates the password for the given user id
func UpdateUserPassword(id int, password string) error {
	if db == nil {
		return fmt.Errorf("db is not initialized")
	}
	_, err := db.Exec("UPDATE users SET password = ?, updated_at = NOW() WHERE id = ?", password, id)
	return err
}

// CreateUser inserts a new user record and returns its id
func CreateUser(firstName, lastName, email, password, role string) (int, error) {
	if db == nil {
		return 0, fmt.Errorf("db is not initialized")
	}
	res, err := db.Exec(
		"INSERT INTO users (first_name, last_name, email, password, role) VALUES (?, ?, ?, ?, ?)",
		firstName, lastName, email, password, role,
	)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return int(id), nil
}

// EmailExists checks if a user with the given email exists
func EmailExists(email string) (bool, error) {
	if db == nil {
		return false, fmt.Errorf("db is not initialized")
	}
	var count int
	if err := db.QueryRow("SELECT COUNT(1) FROM users WHERE email = ?", email).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// IsAdmin reports whether the user carries an administrative role
func IsAdmin(u *User) bool {
	return u != nil && (u.Role == "admin" || u.Role == "super_admin")
}
