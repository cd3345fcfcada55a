package main

import (
	"context"
	"fmt"
	"strings"

	"codeberg.org/taskboard/cli/internal/api"
	"codeberg.org/taskboard/cli/internal/config"
	"codeberg.org/taskboard/cli/internal/logger"
	"codeberg.org/taskboard/cli/internal/session"
)

func (a *app) runLogin(ctx context.Context, args []string) {
	flags := config.ParseLoginFlags(args)

	if flags.Email == "" || flags.Password == "" {
		logger.Fatal("login requires --email and --password (or TASKBOARD_PASSWORD)")
	}

	user, err := a.sess.Login(ctx, flags.Email, flags.Password)
	if err != nil {
		logger.Fatal("login failed", "error", err)
	}

	fmt.Printf("logged in as %s\n", user.Email)
	printPermissions(user)
}

func (a *app) runRegister(ctx context.Context, args []string) {
	flags := config.ParseRegisterFlags(args)

	if flags.FullName == "" || flags.Email == "" || flags.Password == "" {
		logger.Fatal("register requires --name, --email and --password (or TASKBOARD_PASSWORD)")
	}

	user, err := a.sess.Register(ctx, flags.FullName, flags.Email, flags.Password)
	if err != nil {
		logger.Fatal("registration failed", "error", err)
	}

	fmt.Printf("registered and logged in as %s\n", user.Email)
}

func (a *app) runLogout(ctx context.Context) {
	if err := a.sess.Logout(ctx); err != nil {
		logger.Fatal("logout failed", "error", err)
	}

	fmt.Println("logged out")
}

func (a *app) runWhoami() {
	user := a.sess.Current()

	fmt.Printf("id:     %d\n", user.ID)
	fmt.Printf("email:  %s\n", user.Email)

	if user.FullName != "" {
		fmt.Printf("name:   %s\n", user.FullName)
	}

	if user.Status != "" {
		fmt.Printf("status: %s\n", user.Status)
	}

	printPermissions(user)
}

func (a *app) runProfile(ctx context.Context, verb string, args []string) {
	switch verb {
	case "show", "list":
		profile, err := a.client.Profile(ctx)
		if err != nil {
			logger.Fatal("failed to fetch profile", "error", err)
		}

		fmt.Printf("id:     %d\n", profile.ID)
		fmt.Printf("email:  %s\n", profile.Email)
		fmt.Printf("name:   %s\n", profile.FullName)

		if profile.Phone != nil {
			fmt.Printf("phone:  %s\n", *profile.Phone)
		}

		if profile.AvatarURL != nil {
			fmt.Printf("avatar: %s\n", *profile.AvatarURL)
		}

	case "update":
		flags := config.ParseProfileFlags(args)

		if flags.FullName == "" {
			logger.Fatal("profile update requires --name")
		}

		req := api.UpdateProfileRequest{FullName: flags.FullName}

		if flags.Phone != "" {
			req.Phone = &flags.Phone
		}

		if flags.AvatarURL != "" {
			req.AvatarURL = &flags.AvatarURL
		}

		profile, err := a.client.UpdateProfile(ctx, req)
		if err != nil {
			logger.Fatal("failed to update profile", "error", err)
		}

		fmt.Printf("profile updated: %s\n", profile.FullName)

		// pick up the changed display fields locally
		if err := a.sess.RefreshIdentity(ctx); err != nil {
			logger.Warn("failed to refresh identity after profile update", "error", err)
		}

	default:
		logger.Fatal("unknown profile verb, expected show or update", "verb", verb)
	}
}

func printPermissions(user *session.User) {
	if len(user.Permissions) > 0 {
		fmt.Printf("perms:  %s\n", strings.Join(user.Permissions, ", "))
	}
}
