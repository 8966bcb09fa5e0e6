package login

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	mailer "plume-backend/email"
	"plume-backend/migrations"

	"github.com/gin-gonic/gin"
)

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Remember bool   `json:"remember"`
}

// blacklist for manual logout (tokens -> expiry). Not persisted; acceptable for MVP.
var blacklist = map[string]int64{}

// tokenPayload minimal JWT-like payload
type tokenPayload struct {
	Email string `json:"email"`
	Exp   int64  `json:"exp"`
	Rem   bool   `json:"rem"` // remember flag
	Jti   string `json:"jti"` // unique id
}

// profileEnsurer is set by main so registration creates the free-tier
// entitlement profile without coupling this package to the entitlement
// repository.
var profileEnsurer = func(userID int, email, fullName string) {}

// RegisterProfileEnsurer wires the entitlement profile creation hook.
func RegisterProfileEnsurer(fn func(userID int, email, fullName string)) {
	profileEnsurer = fn
}

func sessionDurations(remember bool) time.Duration {
	defHours := 12
	if v := os.Getenv("SESSION_DEFAULT_HOURS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			defHours = n
		}
	}
	remDays := 30
	if v := os.Getenv("SESSION_REMEMBER_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			remDays = n
		}
	}
	if remember {
		return time.Hour * 24 * time.Duration(remDays)
	}
	return time.Hour * time.Duration(defHours)
}

func sessionSecret() []byte {
	s := os.Getenv("SESSION_SECRET")
	if s == "" {
		s = "dev-insecure-secret"
	}
	return []byte(s)
}

func signToken(email string, dur time.Duration, remember bool) (string, int64, error) {
	exp := time.Now().Add(dur).Unix()
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	payloadBytes, _ := json.Marshal(tokenPayload{Email: email, Exp: exp, Rem: remember, Jti: generateJTI()})
	payload := base64.RawURLEncoding.EncodeToString(payloadBytes)
	mac := hmac.New(sha256.New, sessionSecret())
	mac.Write([]byte(header + "." + payload))
	sig := base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
	return header + "." + payload + "." + sig, exp, nil
}

func parseToken(token string) (tokenPayload, bool) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return tokenPayload{}, false
	}
	unsigned := parts[0] + "." + parts[1]
	mac := hmac.New(sha256.New, sessionSecret())
	mac.Write([]byte(unsigned))
	expected := base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(expected), []byte(parts[2])) {
		return tokenPayload{}, false
	}
	pb, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return tokenPayload{}, false
	}
	var tp tokenPayload
	if err := json.Unmarshal(pb, &tp); err != nil {
		return tokenPayload{}, false
	}
	if tp.Exp < time.Now().Unix() {
		return tokenPayload{}, false
	}
	if exp, blk := blacklist[token]; blk && exp >= time.Now().Unix() {
		return tokenPayload{}, false
	}
	return tp, true
}

func generateJTI() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return time.Now().Format("20060102150405")
	}
	return hex.EncodeToString(b)
}

// GetEmailFromToken validates signature + expiry and returns email
func GetEmailFromToken(token string) (string, bool) {
	tp, ok := parseToken(token)
	if !ok {
		return "", false
	}
	return tp.Email, true
}

// BearerToken extracts the bearer token from the Authorization header.
func BearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(h, "Bearer ")
}

// CurrentUser resolves the request's user from its bearer token, or nil for
// anonymous/invalid tokens.
func CurrentUser(c *gin.Context) *migrations.User {
	token := BearerToken(c)
	if token == "" {
		return nil
	}
	email, ok := GetEmailFromToken(token)
	if !ok {
		return nil
	}
	return migrations.GetUserByEmail(email)
}

// AdminRequired guards administrative routes.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token invalide ou absent"})
			return
		}
		if !migrations.IsAdmin(user) {
			log.Printf("[AUTH][admin] forbidden user_id=%d email=%s role=%s", user.ID, user.Email, user.Role)
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Accès réservé aux administrateurs"})
			return
		}
		c.Set("user_id", user.ID)
		c.Next()
	}
}

func userResponse(user *migrations.User) gin.H {
	return gin.H{
		"id":         user.ID,
		"first_name": user.FirstName,
		"last_name":  user.LastName,
		"email":      user.Email,
		"full_name":  user.FirstName + " " + user.LastName,
		"role":       user.Role,
		"created_at": user.CreatedAt.Format(time.RFC3339),
		"updated_at": user.UpdatedAt.Format(time.RFC3339),
	}
}

func Handler(c *gin.Context) {
	var creds Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	creds.Email = strings.TrimSpace(strings.ToLower(creds.Email))
	creds.Password = strings.TrimSpace(creds.Password)

	user := migrations.GetUserByEmail(creds.Email)
	if user != nil && user.Password == creds.Password {
		dur := sessionDurations(creds.Remember)
		token, exp, _ := signToken(user.Email, dur, creds.Remember)
		c.JSON(http.StatusOK, gin.H{"token": token, "user": userResponse(user), "expires_at": exp, "remember": creds.Remember})
	} else {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Identifiants invalides"})
	}
}

func SessionHandler(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token invalide"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": BearerToken(c), "user": userResponse(user)})
}

// LogoutHandler invalidates the token
func LogoutHandler(c *gin.Context) {
	token := BearerToken(c)
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Token requis"})
		return
	}
	// Add to blacklist until its natural expiry (best effort)
	if tp, ok := parseToken(token); ok {
		blacklist[token] = tp.Exp
	}
	c.JSON(http.StatusOK, gin.H{"message": "Session fermée"})
}

type RegisterPayload struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

func RegisterHandler(c *gin.Context) {
	var p RegisterPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}
	if p.Email == "" || p.Password == "" || p.FirstName == "" || p.LastName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Champs requis manquants"})
		return
	}
	p.Email = strings.TrimSpace(strings.ToLower(p.Email))
	if exists, err := migrations.EmailExists(p.Email); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur de validation de l'utilisateur"})
		return
	} else if exists {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Cet e-mail est déjà enregistré"})
		return
	}
	userID, err := migrations.CreateUser(p.FirstName, p.LastName, p.Email, p.Password, "user")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Impossible de créer l'utilisateur"})
		return
	}
	fullName := p.FirstName + " " + p.LastName
	profileEnsurer(userID, p.Email, fullName)
	if err := mailer.SendWelcome(p.Email); err != nil {
		log.Printf("send welcome email failed for %s: %v", p.Email, err)
	}
	if err := mailer.SendAdminSignupNotification(p.Email, fullName); err != nil {
		log.Printf("send signup notification failed for %s: %v", p.Email, err)
	}
	c.Status(http.StatusCreated)
}

type ForgotPayload struct {
	Email string `json:"email"`
}

func ForgotPasswordHandler(c *gin.Context) {
	var p ForgotPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}
	// We acknowledge the request to reset the password.
	c.JSON(http.StatusOK, gin.H{"message": "Si le compte existe, des instructions seront envoyées"})
}

type ChangePasswordPayload struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

func ChangePasswordHandler(c *gin.Context) {
	var p ChangePasswordPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}
	user := CurrentUser(c)
	if user == nil || user.Password != p.OldPassword {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Identifiants invalides"})
		return
	}
	if err := migrations.UpdateUserPassword(user.ID, p.NewPassword); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Impossible de mettre à jour le mot de passe"})
		return
	}
	if err := mailer.SendPasswordChanged(user.Email); err != nil {
		log.Printf("send password change email failed for %s: %v", user.Email, err)
	}
	c.JSON(http.StatusOK, gin.H{"message": "Mot de passe mis à jour"})
}

// RefreshHandler issues a new token preserving remember flag while previous token is blacklisted.
func RefreshHandler(c *gin.Context) {
	token := BearerToken(c)
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token requis"})
		return
	}
	tp, ok := parseToken(token)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token invalide ou expiré"})
		return
	}
	dur := time.Until(time.Unix(tp.Exp, 0))
	// Recalculate full duration based on remember flag if remaining <50% to extend period
	baseDur := sessionDurations(tp.Rem)
	if dur < baseDur/2 {
		dur = baseDur
	}
	newToken, newExp, _ := signToken(tp.Email, dur, tp.Rem)
	blacklist[token] = tp.Exp
	c.JSON(http.StatusOK, gin.H{"token": newToken, "expires_at": newExp, "remember": tp.Rem})
}
