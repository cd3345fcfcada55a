package config

import (
	"flag"
	"os"
)

// flag parsing for CLI subcommands; each verb owns its flag set so
// `taskboard tasks list --project 3` and `taskboard tasks create --title x`
// do not share definitions

// parses flags for login
func ParseLoginFlags(args []string) AuthFlags {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", os.Getenv("TASKBOARD_PASSWORD"), "account password (or TASKBOARD_PASSWORD)")
	fs.Parse(args) //nolint:errcheck,gosec // G104: ExitOnError flag set handles errors

	return AuthFlags{Email: *email, Password: *password}
}

// parses flags for register
func ParseRegisterFlags(args []string) AuthFlags {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	name := fs.String("name", "", "full name")
	email := fs.String("email", "", "account email")
	password := fs.String("password", os.Getenv("TASKBOARD_PASSWORD"), "account password (or TASKBOARD_PASSWORD)")
	fs.Parse(args) //nolint:errcheck,gosec // G104: ExitOnError flag set handles errors

	return AuthFlags{FullName: *name, Email: *email, Password: *password}
}

// parses flags for task subcommands
func ParseTaskFlags(verb string, args []string) TaskFlags {
	fs := flag.NewFlagSet("tasks "+verb, flag.ExitOnError)
	project := fs.Int64("project", 0, "project ID")
	task := fs.Int64("task", 0, "task ID")
	title := fs.String("title", "", "task title")
	desc := fs.String("description", "", "task description")
	status := fs.String("status", "", "task status filter or new status")
	priority := fs.String("priority", "", "task priority")
	deadline := fs.String("deadline", "", "task deadline (RFC 3339)")
	assignee := fs.Int64("assignee", 0, "assignee user ID")
	keyword := fs.String("keyword", "", "search keyword")
	page := fs.Int("page", 0, "page number")
	size := fs.Int("size", 20, "page size")
	fs.Parse(args) //nolint:errcheck,gosec // G104: ExitOnError flag set handles errors

	return TaskFlags{
		PageFlags:  PageFlags{Page: *page, Size: *size, Status: *status, Keyword: *keyword},
		ProjectID:  *project,
		TaskID:     *task,
		Title:      *title,
		Desc:       *desc,
		Priority:   *priority,
		Deadline:   *deadline,
		AssigneeID: *assignee,
	}
}

// parses flags for project subcommands
func ParseProjectFlags(verb string, args []string) ProjectFlags {
	fs := flag.NewFlagSet("projects "+verb, flag.ExitOnError)
	project := fs.Int64("project", 0, "project ID")
	name := fs.String("name", "", "project name")
	code := fs.String("code", "", "project code")
	desc := fs.String("description", "", "project description")
	status := fs.String("status", "", "project status (ACTIVE/DONE/ARCHIVED)")
	keyword := fs.String("keyword", "", "search keyword")
	page := fs.Int("page", 0, "page number")
	size := fs.Int("size", 20, "page size")
	fs.Parse(args) //nolint:errcheck,gosec // G104: ExitOnError flag set handles errors

	return ProjectFlags{
		PageFlags: PageFlags{Page: *page, Size: *size, Status: *status, Keyword: *keyword},
		ProjectID: *project,
		Name:      *name,
		Code:      *code,
		Desc:      *desc,
	}
}

// parses flags for member subcommands
func ParseMemberFlags(verb string, args []string) MemberFlags {
	fs := flag.NewFlagSet("members "+verb, flag.ExitOnError)
	project := fs.Int64("project", 0, "project ID")
	user := fs.Int64("user", 0, "member user ID")
	email := fs.String("email", "", "member email")
	role := fs.String("role", "", "project role")
	fs.Parse(args) //nolint:errcheck,gosec // G104: ExitOnError flag set handles errors

	return MemberFlags{ProjectID: *project, UserID: *user, Email: *email, Role: *role}
}

// parses flags for notification subcommands
func ParseNotificationFlags(verb string, args []string) NotificationFlags {
	fs := flag.NewFlagSet("notifications "+verb, flag.ExitOnError)
	id := fs.Int64("id", 0, "notification ID")
	unread := fs.Bool("unread", false, "only unread notifications")
	notifType := fs.String("type", "", "notification type filter")
	keyword := fs.String("keyword", "", "search keyword")
	page := fs.Int("page", 0, "page number")
	size := fs.Int("size", 20, "page size")
	fs.Parse(args) //nolint:errcheck,gosec // G104: ExitOnError flag set handles errors

	return NotificationFlags{
		PageFlags: PageFlags{Page: *page, Size: *size, Keyword: *keyword},
		ID:        *id,
		Type:      *notifType,
		Unread:    *unread,
	}
}

// parses flags for profile update
func ParseProfileFlags(args []string) ProfileFlags {
	fs := flag.NewFlagSet("profile update", flag.ExitOnError)
	name := fs.String("name", "", "full name")
	phone := fs.String("phone", "", "phone number")
	avatar := fs.String("avatar", "", "avatar URL")
	fs.Parse(args) //nolint:errcheck,gosec // G104: ExitOnError flag set handles errors

	return ProfileFlags{FullName: *name, Phone: *phone, AvatarURL: *avatar}
}
