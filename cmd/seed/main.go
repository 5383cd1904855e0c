package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/ShubhenduKH/TestMyBlood/internal/config"
	"github.com/ShubhenduKH/TestMyBlood/internal/model"
	"github.com/ShubhenduKH/TestMyBlood/internal/repository/postgres"
	"github.com/ShubhenduKH/TestMyBlood/pkg/security"
)

// seed populates a fresh database with the default staff accounts, the
// catalog, and optionally a batch of fake patients for development.
func main() {
	godotenv.Load()

	patients := flag.Int("patients", 0, "number of fake patient accounts to create")
	flag.Parse()

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	ctx := context.Background()
	users := postgres.NewUserRepository(db)
	tests := postgres.NewTestRepository(db)
	labs := postgres.NewLabRepository(db)
	doctors := postgres.NewDoctorRepository(db)
	hasher := security.NewBcryptHasher(0)

	hash := func(pw string) string {
		h, err := hasher.Hash(pw)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to hash password")
		}
		return h
	}

	area := "Salt Lake"
	staff := []*model.User{
		{
			Name: "Admin", Email: "admin@testmyblood.local",
			PasswordHash: hash("admin12345"), Phone: "9000000001",
			Role: model.RoleAdmin, IsActive: true, IsVerified: true,
		},
		{
			Name: "Ravi Kumar", Email: "collector@testmyblood.local",
			PasswordHash: hash("collect12345"), Phone: "9000000002",
			Role: model.RoleCollector, Area: &area, IsActive: true, IsVerified: true,
		},
	}
	for _, u := range staff {
		if err := users.Create(ctx, u); err != nil {
			if err == model.ErrEmailTaken {
				logger.Info().Str("email", u.Email).Msg("staff account exists, skipping")
				continue
			}
			logger.Fatal().Err(err).Str("email", u.Email).Msg("failed to create staff account")
		}
		logger.Info().Str("email", u.Email).Str("role", string(u.Role)).Msg("staff account created")
	}

	lab := &model.Lab{Name: "HealthFirst Diagnostics", Rating: 4.6, TestsCount: 0, IsActive: true}
	accreditation := "NABL"
	lab.Accreditation = &accreditation
	if err := labs.Create(ctx, lab); err != nil {
		logger.Fatal().Err(err).Msg("failed to create lab")
	}

	catalog := []*model.Test{
		{Name: "Complete Blood Count (CBC)", Price: 299, ReportTime: "12 hours"},
		{Name: "Lipid Profile", Price: 599, ReportTime: "24 hours", FastingRequired: true},
		{Name: "HbA1c", Price: 449, ReportTime: "24 hours"},
		{Name: "Thyroid Profile (T3 T4 TSH)", Price: 499, ReportTime: "24 hours"},
		{Name: "Vitamin D (25-OH)", Price: 899, ReportTime: "48 hours"},
		{Name: "Liver Function Test", Price: 649, ReportTime: "24 hours", FastingRequired: true},
	}
	for _, t := range catalog {
		t.LabID = &lab.ID
		t.IsActive = true
		if err := tests.Create(ctx, t); err != nil {
			logger.Fatal().Err(err).Str("test", t.Name).Msg("failed to create test")
		}
	}
	logger.Info().Int("count", len(catalog)).Msg("catalog tests created")

	seedDoctors := []*model.Doctor{
		{Name: "Dr. Anjali Mehta", Specialty: "General Physician", Experience: 12, Fee: 500, IsActive: true},
		{Name: "Dr. Sandeep Rao", Specialty: "Endocrinologist", Experience: 18, Fee: 900, IsActive: true},
	}
	for _, d := range seedDoctors {
		if err := doctors.Create(ctx, d); err != nil {
			logger.Fatal().Err(err).Str("doctor", d.Name).Msg("failed to create doctor")
		}
	}
	logger.Info().Int("count", len(seedDoctors)).Msg("doctors created")

	for i := 0; i < *patients; i++ {
		u := &model.User{
			Name:         gofakeit.Name(),
			Email:        fmt.Sprintf("patient%d@%s", i+1, gofakeit.DomainName()),
			PasswordHash: hash("patient12345"),
			Phone:        gofakeit.Phone(),
			Role:         model.RolePatient,
			IsActive:     true,
		}
		if err := users.Create(ctx, u); err != nil {
			logger.Fatal().Err(err).Msg("failed to create fake patient")
		}
	}
	if *patients > 0 {
		logger.Info().Int("count", *patients).Msg("fake patients created")
	}

	logger.Info().Msg("seed complete")
}
