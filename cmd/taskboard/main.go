package main

import (
	"context"
	"fmt"
	"os"

	"codeberg.org/taskboard/cli/internal/api"
	"codeberg.org/taskboard/cli/internal/config"
	"codeberg.org/taskboard/cli/internal/logger"
	"codeberg.org/taskboard/cli/internal/session"
	"codeberg.org/taskboard/cli/internal/tokenstore"
)

// CLI driver over the authenticated session layer and the taskboard API
type app struct {
	cfg    *config.Config
	store  *tokenstore.Store
	client *api.Client
	sess   *session.Session
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	// load environment variables
	cfg, err := config.LoadEnvironmentVariables()
	if err != nil {
		logger.Fatal("failed to load configuration", "error", err)
	}

	store := tokenstore.New(cfg.TokenPath)
	client := api.NewClient(api.Options{
		Endpoint:    cfg.APIEndpoint,
		Store:       store,
		RequestRate: cfg.RequestRate,
	})
	sess := session.New(client, store)

	a := &app{cfg: cfg, store: store, client: client, sess: sess}
	ctx := context.Background()
	verb, args := verbAndFlags()

	// route to appropriate command
	switch command {
	case "login":
		a.runLogin(ctx, os.Args[2:])

	case "register":
		a.runRegister(ctx, os.Args[2:])

	case "logout":
		a.runLogout(ctx)

	case "whoami":
		a.requireSession(ctx)
		a.runWhoami()

	case "profile":
		a.requireSession(ctx)
		a.runProfile(ctx, verb, args)

	case "tasks":
		a.requireSession(ctx)
		a.runTasks(ctx, verb, args)

	case "projects":
		a.requireSession(ctx)
		a.runProjects(ctx, verb, args)

	case "members":
		a.requireSession(ctx)
		a.runMembers(ctx, verb, args)

	case "notifications":
		a.requireSession(ctx)
		a.runNotifications(ctx, verb, args)

	default:
		fmt.Printf("unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

// splits "taskboard <group> <verb> [flags]" into its verb and flag arguments
func verbAndFlags() (string, []string) {
	if len(os.Args) < 3 {
		return "list", nil
	}

	return os.Args[2], os.Args[3:]
}

// restores the persisted session before any authenticated command; an
// unverifiable session is discarded and the user is asked to log in again
func (a *app) requireSession(ctx context.Context) {
	if err := a.sess.Restore(ctx); err != nil {
		logger.Fatal("session expired, run `taskboard login` to sign in again")
	}

	if a.sess.Current() == nil {
		logger.Fatal("not logged in, run `taskboard login` first")
	}
}

func printUsage() {
	fmt.Println("Usage: taskboard <command> [verb] [options]")
	fmt.Println("Commands:")
	fmt.Println("  login          - sign in (--email, --password or TASKBOARD_PASSWORD)")
	fmt.Println("  register       - create an account (--name, --email, --password)")
	fmt.Println("  logout         - sign out and discard credentials")
	fmt.Println("  whoami         - show the authenticated identity")
	fmt.Println("  profile        - show or update the account profile (show|update)")
	fmt.Println("  tasks          - work with tasks (list|mine|create|status|assign)")
	fmt.Println("  projects       - work with projects (list|create|delete|status)")
	fmt.Println("  members        - work with project members (list|add|remove)")
	fmt.Println("  notifications  - work with notifications (list|count|read|read-all)")
	fmt.Println("\nEnvironment:")
	fmt.Println("  TASKBOARD_API_ENDPOINT  - backend base URL (default http://localhost:8080)")
	fmt.Println("  TASKBOARD_TOKEN_FILE    - credential file (default ~/.taskboard/tokens.json)")
}
