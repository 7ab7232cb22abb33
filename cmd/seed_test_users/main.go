package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pageza/linkbio/backend/config"
	"github.com/pageza/linkbio/backend/internal/app"
	"github.com/pageza/linkbio/backend/internal/logging"
	"github.com/pageza/linkbio/backend/internal/models"
	"github.com/pageza/linkbio/backend/internal/service"
	"github.com/pageza/linkbio/backend/internal/types"
)

const demoPassword = "testpassword123"

var demoUsers = []struct {
	username string
	email    string
	bio      string
	links    []types.CreateLinkRequest
}{
	{
		username: "johndoe",
		email:    "john.doe@example.com",
		bio:      "Photographer and occasional writer.",
		links: []types.CreateLinkRequest{
			{Title: "Portfolio", URL: "https://example.com/john/portfolio"},
			{Title: "Blog", URL: "https://example.com/john/blog"},
		},
	},
	{
		username: "janesmith",
		email:    "jane.smith@example.com",
		bio:      "Designer.",
		links: []types.CreateLinkRequest{
			{Title: "Dribbble", URL: "https://example.com/jane/shots"},
		},
	},
	{
		username: "bobwilson",
		email:    "bob.wilson@example.com",
	},
}

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger := logging.New(cfg.Env.String())

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer application.Close()

	for _, demo := range demoUsers {
		if _, err := application.Auth.Register(ctx, demo.username, demo.email, demoPassword); err != nil {
			if service.HasCode(err, service.CodeConflict) {
				logger.Info("user already exists, skipping", "username", demo.username)
				continue
			}
			return fmt.Errorf("register %s: %w", demo.username, err)
		}

		user, _, err := application.Users.GetPublicPage(ctx, demo.username)
		if err != nil {
			return err
		}
		if demo.bio != "" {
			bio := demo.bio
			if _, _, err := application.Users.UpdateMe(ctx, user.ID, models.UserUpdate{Bio: &bio}, models.ProfileUpdate{}); err != nil {
				return err
			}
		}
		for _, link := range demo.links {
			if _, err := application.Links.CreateLink(ctx, user.ID, link); err != nil {
				return err
			}
		}
		logger.Info("seeded user", "username", demo.username, "links", len(demo.links))
	}

	fmt.Printf("Seeded %d demo users (password %q)\n", len(demoUsers), demoPassword)
	return nil
}
