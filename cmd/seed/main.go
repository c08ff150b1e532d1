package main

import (
	"context"
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"goodcitizen/internal/config"
	"goodcitizen/internal/db"
	"goodcitizen/internal/model"
	"goodcitizen/internal/repository"
)

type seedUser struct {
	name                 string
	email                string
	phone                string
	password             string
	role                 model.Role
	points               int
	reputation           float64
	reportsCount         int
	verifiedReportsCount int
}

var seedUsers = []seedUser{
	{
		name:     "Admin User",
		email:    "admin@goodcitizen.com",
		phone:    "9999999999",
		password: "admin123",
		role:     model.RoleAdmin,
	},
	{
		name:                 "John Doe",
		email:                "john@example.com",
		phone:                "9876543210",
		password:             "password123",
		role:                 model.RoleUser,
		points:               150,
		reputation:           75,
		reportsCount:         20,
		verifiedReportsCount: 15,
	},
	{
		name:                 "Jane Smith",
		email:                "jane@example.com",
		phone:                "9876543211",
		password:             "password123",
		role:                 model.RoleUser,
		points:               200,
		reputation:           80,
		reportsCount:         25,
		verifiedReportsCount: 20,
	},
}

var seedAuthorities = []model.Authority{
	{
		Name:          "Traffic Police - Central Zone",
		Email:         "traffic.central@authority.gov",
		ContactNumber: "1800-111-222",
		Department:    model.DepartmentTrafficPolice,
		Jurisdiction:  "Central Zone",
		Categories: []model.ReportCategory{
			model.CategoryHelmetViolation,
			model.CategoryTrafficViolation,
			model.CategoryIllegalParking,
		},
		IsActive: true,
	},
	{
		Name:          "Municipal Corporation - North",
		Email:         "municipal.north@authority.gov",
		ContactNumber: "1800-333-444",
		Department:    model.DepartmentMunicipal,
		Jurisdiction:  "North Zone",
		Categories: []model.ReportCategory{
			model.CategoryLittering,
			model.CategoryOthers,
		},
		IsActive: true,
	},
	{
		Name:          "Environmental Protection Agency",
		Email:         "env.protection@authority.gov",
		ContactNumber: "1800-555-666",
		Department:    model.DepartmentEnvironmental,
		Jurisdiction:  "City-wide",
		Categories: []model.ReportCategory{
			model.CategoryLittering,
			model.CategoryOthers,
		},
		IsActive: true,
	},
}

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Authority{},
		&model.Report{},
		&model.PeerVerification{},
		&model.Redemption{},
	); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	ctx := context.Background()
	userRepo := repository.NewUserRepository(gormDB)
	authorityRepo := repository.NewAuthorityRepository(gormDB)

	created, updated, err := upsertUsers(ctx, userRepo, seedUsers)
	if err != nil {
		log.Fatalf("Failed to seed users: %v", err)
	}
	log.Printf("Users seeded: %d created, %d updated", created, updated)

	created, updated, err = upsertAuthorities(ctx, authorityRepo, seedAuthorities)
	if err != nil {
		log.Fatalf("Failed to seed authorities: %v", err)
	}
	log.Printf("Authorities seeded: %d created, %d updated", created, updated)

	log.Println("Seed completed successfully!")
	log.Println("Login credentials:")
	log.Println("  Admin  - admin@goodcitizen.com / admin123")
	log.Println("  User 1 - john@example.com / password123")
	log.Println("  User 2 - jane@example.com / password123")
}

func upsertUsers(ctx context.Context, repo repository.UserRepository, users []seedUser) (created int, updated int, err error) {
	for _, u := range users {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
		if err != nil {
			return created, updated, fmt.Errorf("hash password for %s: %w", u.email, err)
		}

		existing, err := repo.FindByEmail(ctx, u.email)
		if err != nil && err != gorm.ErrRecordNotFound {
			return created, updated, fmt.Errorf("lookup user %s: %w", u.email, err)
		}

		if existing != nil {
			existing.Name = u.name
			existing.Phone = u.phone
			existing.PasswordHash = string(hash)
			existing.Role = u.role
			existing.Points = u.points
			existing.Reputation = u.reputation
			existing.ReportsCount = u.reportsCount
			existing.VerifiedReportsCount = u.verifiedReportsCount
			if err := repo.Update(ctx, existing); err != nil {
				return created, updated, fmt.Errorf("update user %s: %w", u.email, err)
			}
			updated++
			continue
		}

		user := &model.User{
			Name:                 u.name,
			Email:                u.email,
			Phone:                u.phone,
			PasswordHash:         string(hash),
			Role:                 u.role,
			Points:               u.points,
			Reputation:           u.reputation,
			ReportsCount:         u.reportsCount,
			VerifiedReportsCount: u.verifiedReportsCount,
		}
		if err := repo.Create(ctx, user); err != nil {
			return created, updated, fmt.Errorf("create user %s: %w", u.email, err)
		}
		created++
	}
	return created, updated, nil
}

func upsertAuthorities(ctx context.Context, repo repository.AuthorityRepository, authorities []model.Authority) (created int, updated int, err error) {
	existing, err := repo.ListActive(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("list authorities: %w", err)
	}
	byEmail := make(map[string]*model.Authority, len(existing))
	for i := range existing {
		byEmail[existing[i].Email] = &existing[i]
	}

	for _, a := range authorities {
		if found, ok := byEmail[a.Email]; ok {
			found.Name = a.Name
			found.ContactNumber = a.ContactNumber
			found.Department = a.Department
			found.Jurisdiction = a.Jurisdiction
			found.Categories = a.Categories
			found.IsActive = a.IsActive
			if err := repo.Update(ctx, found); err != nil {
				return created, updated, fmt.Errorf("update authority %s: %w", a.Email, err)
			}
			updated++
			continue
		}

		authority := a
		if err := repo.Create(ctx, &authority); err != nil {
			return created, updated, fmt.Errorf("create authority %s: %w", a.Email, err)
		}
		created++
	}
	return created, updated, nil
}
