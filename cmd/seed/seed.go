package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"usethis-backend/internal/domain"
	"usethis-backend/internal/logger"
	"usethis-backend/internal/repository"
	"usethis-backend/internal/service"
)

type seedItem struct {
	Title       string  `yaml:"title"`
	Description string  `yaml:"description"`
	Category    string  `yaml:"category"`
	Location    string  `yaml:"location"`
	PricePerDay float64 `yaml:"price_per_day"`
}

type seedUser struct {
	Email    string     `yaml:"email"`
	Password string     `yaml:"password"`
	Name     string     `yaml:"name"`
	Items    []seedItem `yaml:"items"`
}

type SetupData struct {
	Users []seedUser `yaml:"users"`
}

func readSetupFile(filename string) (*SetupData, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return parseSetup(data)
}

func parseSetup(data []byte) (*SetupData, error) {
	var setup SetupData
	if err := yaml.Unmarshal(data, &setup); err != nil {
		return nil, err
	}
	if len(setup.Users) == 0 {
		return nil, errors.New("setup file lists no users")
	}
	return &setup, nil
}

type seeder struct {
	auth  service.AuthService
	items service.ItemService
	users repository.UserRepository
}

// populate registers each user and lists their items. Users that already
// exist are reused so the seed can be run more than once; their items are
// listed again.
func (s *seeder) populate(ctx context.Context, data *SetupData) (users, items int, err error) {
	for i, u := range data.Users {
		logger.Info("Seeding user", "n", i+1, "of", len(data.Users), "email", u.Email)

		user, _, err := s.auth.SignUp(ctx, u.Email, u.Password, u.Name)
		var verr *domain.ValidationError
		if errors.As(err, &verr) && verr.Field == "email" {
			user, err = s.users.GetByEmail(ctx, u.Email)
		} else if err == nil {
			users++
		}
		if err != nil {
			return users, items, fmt.Errorf("failed to create user %s: %w", u.Email, err)
		}

		for _, it := range u.Items {
			listing := &domain.Item{
				Title:       it.Title,
				Description: it.Description,
				Category:    it.Category,
				Location:    it.Location,
				PricePerDay: it.PricePerDay,
			}
			if _, err := s.items.CreateItem(ctx, user.ID, listing); err != nil {
				return users, items, fmt.Errorf("failed to list %q for %s: %w", it.Title, u.Email, err)
			}
			items++
		}
	}
	return users, items, nil
}
