package services

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"playpartner-backend-go/internal/models"
)

// SeedFile is the YAML document accepted by the seed command.
type SeedFile struct {
	Users []SeedUser `yaml:"users"`
	Tags  []TagInput `yaml:"tags"`
}

type SeedUser struct {
	UserInput `yaml:",inline"`
	// Password is optional; when set it replaces the stored hash and the user
	// must change it after logging in.
	Password string `yaml:"password"`
}

type SeedResult struct {
	Users int
	Tags  int
}

func LoadSeedFile(path string) (SeedFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return SeedFile{}, err
	}
	var seed SeedFile
	if err := yaml.Unmarshal(raw, &seed); err != nil {
		return SeedFile{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return seed, nil
}

// ApplySeed upserts users and catalog tags. It is safe to run repeatedly.
func (s *Store) ApplySeed(ctx context.Context, seed SeedFile, tokens TokenService) (SeedResult, error) {
	var result SeedResult
	for _, item := range seed.Users {
		user, err := s.UpsertUser(ctx, item.UserInput)
		if err != nil {
			return result, WrapError(err, "seed user "+item.Email)
		}
		if item.Password != "" {
			hash, err := tokens.HashPassword(item.Password)
			if err != nil {
				return result, WrapError(err, "hash password")
			}
			if err := s.SetPassword(ctx, user.ID, hash, true); err != nil {
				return result, err
			}
		}
		result.Users++
	}
	for _, tag := range seed.Tags {
		if _, err := s.UpsertTag(ctx, tag); err != nil {
			return result, WrapError(err, "seed tag "+tag.TagName)
		}
		result.Tags++
	}
	return result, nil
}

// ResetAdmin makes sure an admin with the given e-mail exists and sets its
// password. The user must change the password on next login.
func (s *Store) ResetAdmin(ctx context.Context, tokens TokenService, email, password string) (string, error) {
	if len(password) < 8 {
		return "", ErrBadRequest("Password must be at least 8 characters")
	}
	user, err := s.UpsertUser(ctx, UserInput{Email: email, Role: models.RoleAdmin})
	if err != nil {
		return "", err
	}
	hash, err := tokens.HashPassword(password)
	if err != nil {
		return "", WrapError(err, "hash password")
	}
	if err := s.SetPassword(ctx, user.ID, hash, true); err != nil {
		return "", err
	}
	return user.ID, nil
}
