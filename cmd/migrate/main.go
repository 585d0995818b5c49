package main

import (
	"context"
	"fmt"
	"os"
	"time"

	mongoMigration "roombook/internal/migrations/mongo"
	"roombook/internal/privileged/repository"
	"roombook/internal/privileged/service"
	"roombook/internal/privileged/validator"
	"roombook/pkg/config"
	apperrors "roombook/pkg/errors"
	"roombook/pkg/model"

	"github.com/alecthomas/kong"
	"gopkg.in/yaml.v3"
)

const JobName = "mongo-migration"

var cli struct {
	Seed    string        `help:"YAML file of privileged users to insert after migrating." type:"existingfile" optional:""`
	Timeout time.Duration `help:"Overall deadline for the job." default:"120s"`
}

type seedFile struct {
	PrivilegedUsers []model.PrivilegedUserCreate `yaml:"privileged_users"`
}

func main() {
	kong.Parse(&cli,
		kong.Name("migrate"),
		kong.Description("Create collections, validators and indexes, then optionally seed privileged users."),
	)

	ctx, cancel := context.WithTimeout(context.Background(), cli.Timeout)
	defer cancel()

	cfg := config.Load(JobName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()
	cfg.Log.Info("Starting Mongo migration job")

	if err := mongoMigration.RunMigration(ctx, cfg.Client.Mongo, cfg.MongoDatabaseName, cfg.Log); err != nil {
		cfg.Log.Fatal("Migration failed", "error", err)
	}

	if cli.Seed != "" {
		if err := seedPrivilegedUsers(ctx, cfg, cli.Seed); err != nil {
			cfg.Log.Fatal("Seeding failed", "error", err)
		}
	}

	fmt.Println("Migration completed successfully.")
}

func seedPrivilegedUsers(ctx context.Context, cfg *config.Config, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read seed file: %w", err)
	}

	var seed seedFile
	if err := yaml.Unmarshal(raw, &seed); err != nil {
		return fmt.Errorf("parse seed file: %w", err)
	}

	svc := service.NewPrivilegedUserService(
		repository.NewMongoPrivilegedUserRepository(cfg),
		validator.NewPrivilegedUserValidator(cfg.Log),
		cfg,
		nil,
	)

	created := 0
	for i := range seed.PrivilegedUsers {
		in := seed.PrivilegedUsers[i]
		if _, err := svc.Create(ctx, &in); err != nil {
			if apperrors.HasCode(err, apperrors.CodeConflict) {
				cfg.Log.Info("Privileged user already present", "email", in.Email)
				continue
			}
			return fmt.Errorf("seed %s: %w", in.Email, err)
		}
		created++
	}

	cfg.Log.Info("Privileged users seeded", "created", created, "total", len(seed.PrivilegedUsers))
	return nil
}
