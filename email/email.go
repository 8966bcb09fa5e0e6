package email

import (
	"fmt"
	"log"
	"net/smtp"
	"os"
)

func send(to, subject, body string) error {
	host := os.Getenv("SMTP_HOST")
	port := os.Getenv("SMTP_PORT")
	user := os.Getenv("SMTP_USER")
	pass := os.Getenv("SMTP_PASS")
	from := os.Getenv("SMTP_FROM")
	if from == "" {
		from = user
	}
	if host == "" || port == "" || user == "" || pass == "" || from == "" {
		return fmt.Errorf("SMTP environment variables missing")
	}
	addr := fmt.Sprintf("%s:%s", host, port)
	auth := smtp.PlainAuth("", user, pass, host)
	msg := []byte(fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s", from, to, subject, body))
	return smtp.SendMail(addr, auth, from, []string{to}, msg)
}

func adminEmail() string {
	if v := os.Getenv("ADMIN_EMAIL"); v != "" {
		return v
	}
	return "kmgmultiservices98@gmail.com"
}

func SendWelcome(to string) error {
	subject := "Bienvenue sur Plume d'Or Académie"
	body := "Merci de votre inscription. Bienvenue dans la bibliothèque !"
	if err := send(to, subject, body); err != nil {
		return err
	}
	log.Printf("[EMAIL] welcome sent to %s", to)
	return nil
}

func SendPasswordChanged(to string) error {
	subject := "Mot de passe mis à jour"
	body := "Votre mot de passe a été modifié. Si ce n'était pas vous, contactez le support."
	if err := send(to, subject, body); err != nil {
		return err
	}
	log.Printf("[EMAIL] password change notification sent to %s", to)
	return nil
}

// SendAdminSignupNotification alerts the administrator about a new member.
func SendAdminSignupNotification(userEmail, fullName string) error {
	subject := "Nouveau membre inscrit sur Plume d'Or Académie"
	if fullName == "" {
		fullName = "Non spécifié"
	}
	body := fmt.Sprintf("Un nouveau membre vient de s'inscrire.\n\nNom : %s\nE-mail : %s", fullName, userEmail)
	if err := send(adminEmail(), subject, body); err != nil {
		return err
	}
	log.Printf("[EMAIL] signup notification sent for %s", userEmail)
	return nil
}

// SendAdminContactNotification alerts the administrator about a new contact message.
func SendAdminContactNotification(name, fromEmail, subjectLine, message string) error {
	subject := "Nouveau message de contact - Plume d'Or"
	body := fmt.Sprintf("Nouveau message reçu via le formulaire de contact.\n\nNom : %s\nE-mail : %s\nSujet : %s\n\n%s",
		name, fromEmail, subjectLine, message)
	if err := send(adminEmail(), subject, body); err != nil {
		return err
	}
	log.Printf("[EMAIL] contact notification sent for %s", fromEmail)
	return nil
}

// SendUpgradeSuggestion promotes the premium tier to a free-tier reader.
func SendUpgradeSuggestion(to string) error {
	subject := "Passez à Premium sur Plume d'Or"
	body := "Accédez à tous les documents et au téléchargement illimité en passant à Premium."
	if err := send(to, subject, body); err != nil {
		return err
	}
	log.Printf("[EMAIL] upgrade suggestion sent to %s", to)
	return nil
}
