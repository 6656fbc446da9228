// Package seed bootstraps accounts from a YAML file at start-up.
package seed

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Moderator is one bootstrap moderator entry. PasswordEnv, when set, names
// an environment variable holding the password and wins over Password.
type Moderator struct {
	Name        string `yaml:"name"`
	Email       string `yaml:"email"`
	Password    string `yaml:"password"`
	PasswordEnv string `yaml:"password_env"`
}

// File is the seed document.
type File struct {
	Moderators []Moderator `yaml:"moderators"`
}

// ModeratorEnsurer creates a moderator account if it does not exist yet.
type ModeratorEnsurer interface {
	EnsureModerator(ctx context.Context, name, email, password string) (bool, error)
}

// Load reads and decodes a seed file. Unknown keys are rejected.
func Load(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()

	var file File
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("decode seed file %s: %w", path, err)
	}
	return &file, nil
}

// Apply ensures every moderator in file exists. It stops at the first
// failure.
func Apply(ctx context.Context, file *File, accounts ModeratorEnsurer, logger *zap.Logger) error {
	for i, m := range file.Moderators {
		password := m.Password
		if m.PasswordEnv != "" {
			password = os.Getenv(m.PasswordEnv)
		}
		if password == "" {
			return fmt.Errorf("seed moderator %d (%s): empty password", i, m.Email)
		}

		created, err := accounts.EnsureModerator(ctx, m.Name, m.Email, password)
		if err != nil {
			return fmt.Errorf("seed moderator %s: %w", m.Email, err)
		}
		if created {
			logger.Info("seeded moderator", zap.String("email", m.Email))
		} else {
			logger.Debug("moderator already present", zap.String("email", m.Email))
		}
	}
	return nil
}
