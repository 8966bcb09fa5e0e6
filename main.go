package main

import (
	"log"

	"plume-backend/conn"
	"plume-backend/contact"
	"plume-backend/entitlement"
	"plume-backend/gate"
	"plume-backend/login"
	"plume-backend/marketing"
	"plume-backend/migrations"
	"plume-backend/profile"
	"plume-backend/publications"
	"plume-backend/settings"
	"plume-backend/stats"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("[BOOT] no .env file loaded: %v", err)
	}

	db, err := conn.NewMySQL()
	if err != nil {
		log.Fatalf("[BOOT] database connection failed: %v", err)
	}
	migrations.Init(db)
	if err := migrations.Migrate(); err != nil {
		log.Fatalf("[BOOT] migration failed: %v", err)
	}
	if err := migrations.SeedDefaultAdmin(); err != nil {
		log.Printf("[BOOT] seed admin failed: %v", err)
	}

	entRepo := entitlement.NewRepository(db)
	entCache := entitlement.NewCache(entRepo)
	pubRepo := publications.NewRepository(db)
	settingsRepo := settings.NewRepository(db)
	if err := settingsRepo.SeedDefaults(); err != nil {
		log.Printf("[BOOT] seed payment settings failed: %v", err)
	}
	contactRepo := contact.NewRepository(db)

	// Registration creates the free-tier entitlement profile.
	login.RegisterProfileEnsurer(func(userID int, email, fullName string) {
		if _, err := entRepo.EnsureProfile(userID, email, fullName); err != nil {
			log.Printf("[BOOT] ensure profile failed user_id=%d: %v", userID, err)
		}
	})

	r := gin.Default()

	r.POST("/login", login.Handler)
	r.POST("/register", login.RegisterHandler)
	r.GET("/session", login.SessionHandler)
	r.POST("/logout", login.LogoutHandler)
	r.POST("/refresh", login.RefreshHandler)
	r.POST("/forgot-password", login.ForgotPasswordHandler)
	r.POST("/change-password", login.ChangePasswordHandler)

	adminRequired := login.AdminRequired()

	profile.NewHandler(entRepo).RegisterRoutes(r)
	publications.NewHandler(pubRepo).RegisterRoutes(r, adminRequired)
	settings.NewHandler(settingsRepo).RegisterRoutes(r, adminRequired)
	contact.NewHandler(contactRepo).RegisterRoutes(r, adminRequired)
	entitlement.NewHandler(entRepo, entCache).RegisterRoutes(r, adminRequired)
	stats.NewHandler(db).RegisterRoutes(r, adminRequired)

	accessGate := gate.New(entCache)
	keeper := gate.NewSessionKeeper()
	gate.NewHandler(accessGate, pubRepo, settingsRepo, keeper).RegisterRoutes(r)

	// Uploaded covers and documents. The gate's download redirect points
	// here; serving them statically is the documented non-DRM tradeoff.
	r.Static("/media", "./media")

	marketing.NewService(db).Start()

	if err := r.Run(":8080"); err != nil {
		log.Fatalf("[BOOT] server exited: %v", err)
	}
}
