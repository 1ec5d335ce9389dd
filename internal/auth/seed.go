package auth

import (
	"context"
	"log"

	"github.com/SHYAMSUNDAR2396/Eco-Tourism-Backend/config"
)

// SeedAdmin creates the bootstrap admin from ADMIN_* settings when no
// admin account exists yet. Admin signup needs an admin caller, so
// without this the first admin could never be created.
func SeedAdmin(ctx context.Context, repo Repository, cfg *config.Config) (*User, error) {
	exists, err := repo.AdminExists(ctx)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, nil
	}
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		log.Println("⚠️ No admin account exists and ADMIN_EMAIL/ADMIN_PASSWORD are unset")
		return nil, nil
	}

	svc := &service{repo: repo}
	admin, err := svc.create(ctx, SignupInput{
		Name:     cfg.AdminName,
		Email:    cfg.AdminEmail,
		Password: cfg.AdminPassword,
	}, RoleAdmin)
	if err != nil {
		return nil, err
	}
	log.Printf("✅ Bootstrap admin created: %s", admin.Email)
	return admin, nil
}
