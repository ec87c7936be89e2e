// Command seed provisions the administrator account. Safe to re-run: an
// existing admin account is updated in place.
package main

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"inkwell/internal/config"
	"inkwell/internal/db"
	"inkwell/internal/model"
	"inkwell/internal/repository"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if cfg.Admin.Email == "" || cfg.Admin.Password == "" {
		log.Fatal("BLOG_ADMIN_EMAIL and BLOG_ADMIN_PASSWORD are required")
	}

	gormDB, err := db.NewMySQL(cfg.MySQL.DSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}
	if err := gormDB.AutoMigrate(&model.User{}, &model.BlogPost{}, &model.Comment{}); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	users := repository.NewUserRepository(gormDB)
	ctx := context.Background()

	created, err := seedAdmin(ctx, users, cfg.Admin.Email, cfg.Admin.Password, cfg.Admin.Name)
	if err != nil {
		log.Fatalf("seed admin: %v", err)
	}
	if created {
		log.Infof("admin account created: %s", cfg.Admin.Email)
	} else {
		log.Infof("admin account updated: %s", cfg.Admin.Email)
	}
}

func seedAdmin(ctx context.Context, users repository.UserRepository, email, password, name string) (created bool, err error) {
	existing, err := users.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	if existing != nil {
		existing.Name = name
		existing.Role = model.RoleAdmin
		if err := existing.SetPassword(password); err != nil {
			return false, err
		}
		return false, users.Update(ctx, existing)
	}

	admin := &model.User{Name: name, Email: email, Role: model.RoleAdmin}
	if err := admin.SetPassword(password); err != nil {
		return false, err
	}
	return true, users.Create(ctx, admin)
}
