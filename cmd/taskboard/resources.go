package main

import (
	"context"
	"fmt"

	"codeberg.org/taskboard/cli/internal/api"
	"codeberg.org/taskboard/cli/internal/config"
	"codeberg.org/taskboard/cli/internal/logger"
)

func (a *app) runTasks(ctx context.Context, verb string, args []string) {
	flags := config.ParseTaskFlags(verb, args)

	switch verb {
	case "list":
		if flags.ProjectID == 0 {
			logger.Fatal("tasks list requires --project")
		}

		page, err := a.client.Tasks(ctx, api.TaskQuery{
			ProjectID:  flags.ProjectID,
			Page:       flags.Page,
			Size:       flags.Size,
			Status:     flags.Status,
			Priority:   flags.Priority,
			AssigneeID: flags.AssigneeID,
			Keyword:    flags.Keyword,
		})
		if err != nil {
			logger.Fatal("failed to list tasks", "error", err)
		}

		printTaskPage(page)

	case "mine":
		page, err := a.client.MyTasks(ctx, api.TaskQuery{
			Page:     flags.Page,
			Size:     flags.Size,
			Status:   flags.Status,
			Priority: flags.Priority,
			Keyword:  flags.Keyword,
		})
		if err != nil {
			logger.Fatal("failed to list my tasks", "error", err)
		}

		printTaskPage(page)

	case "create":
		if flags.ProjectID == 0 || flags.Title == "" {
			logger.Fatal("tasks create requires --project and --title")
		}

		task, err := a.client.CreateTask(ctx, api.CreateTaskRequest{
			ProjectID:   flags.ProjectID,
			Title:       flags.Title,
			Description: flags.Desc,
			Priority:    flags.Priority,
			Deadline:    flags.Deadline,
			AssigneeID:  flags.AssigneeID,
		})
		if err != nil {
			logger.Fatal("failed to create task", "error", err)
		}

		fmt.Printf("created task %d: %s\n", task.ID, task.Title)

	case "status":
		if flags.TaskID == 0 || flags.Status == "" {
			logger.Fatal("tasks status requires --task and --status")
		}

		task, err := a.client.UpdateTaskStatus(ctx, flags.TaskID, flags.Status)
		if err != nil {
			logger.Fatal("failed to update task status", "error", err)
		}

		fmt.Printf("task %d is now %s\n", task.ID, task.Status)

	case "assign":
		if flags.TaskID == 0 || flags.AssigneeID == 0 {
			logger.Fatal("tasks assign requires --task and --assignee")
		}

		task, err := a.client.UpdateTaskAssignee(ctx, flags.TaskID, flags.AssigneeID)
		if err != nil {
			logger.Fatal("failed to reassign task", "error", err)
		}

		fmt.Printf("task %d assigned to user %d\n", task.ID, flags.AssigneeID)

	default:
		logger.Fatal("unknown tasks verb, expected list, mine, create, status or assign", "verb", verb)
	}
}

func (a *app) runProjects(ctx context.Context, verb string, args []string) {
	flags := config.ParseProjectFlags(verb, args)

	switch verb {
	case "list":
		page, err := a.client.Projects(ctx, api.ProjectQuery{
			Page:    flags.Page,
			Size:    flags.Size,
			Keyword: flags.Keyword,
			Status:  flags.Status,
		})
		if err != nil {
			logger.Fatal("failed to list projects", "error", err)
		}

		for _, p := range page.Items {
			fmt.Printf("%6d  %-10s  %-12s  %s\n", p.ID, p.Code, p.Status, p.Name)
		}

		printPageFooter(page.Page, page.TotalPages, page.TotalElements)

	case "create":
		if flags.Name == "" || flags.Code == "" {
			logger.Fatal("projects create requires --name and --code")
		}

		project, err := a.client.CreateProject(ctx, api.CreateProjectRequest{
			Name:        flags.Name,
			Code:        flags.Code,
			Description: flags.Desc,
			Status:      flags.Status,
		})
		if err != nil {
			logger.Fatal("failed to create project", "error", err)
		}

		fmt.Printf("created project %d: %s (%s)\n", project.ID, project.Name, project.Code)

	case "delete":
		if flags.ProjectID == 0 {
			logger.Fatal("projects delete requires --project")
		}

		if err := a.client.DeleteProject(ctx, flags.ProjectID); err != nil {
			logger.Fatal("failed to delete project", "error", err)
		}

		fmt.Printf("deleted project %d\n", flags.ProjectID)

	case "status":
		if flags.ProjectID == 0 || flags.Status == "" {
			logger.Fatal("projects status requires --project and --status")
		}

		project, err := a.client.UpdateProjectStatus(ctx, flags.ProjectID, flags.Status)
		if err != nil {
			logger.Fatal("failed to update project status", "error", err)
		}

		fmt.Printf("project %d is now %s\n", project.ID, project.Status)

	default:
		logger.Fatal("unknown projects verb, expected list, create, delete or status", "verb", verb)
	}
}

func (a *app) runMembers(ctx context.Context, verb string, args []string) {
	flags := config.ParseMemberFlags(verb, args)

	if flags.ProjectID == 0 {
		logger.Fatal("members commands require --project")
	}

	switch verb {
	case "list":
		members, err := a.client.Members(ctx, flags.ProjectID)
		if err != nil {
			logger.Fatal("failed to list members", "error", err)
		}

		for _, m := range members {
			fmt.Printf("%6d  %-12s  %s\n", m.UserID, m.ProjectRole, m.Email)
		}

	case "add":
		if flags.Email == "" {
			logger.Fatal("members add requires --email")
		}

		err := a.client.AddMemberByEmail(ctx, flags.ProjectID, api.AddMemberRequest{
			Email:       flags.Email,
			ProjectRole: flags.Role,
		})
		if err != nil {
			logger.Fatal("failed to add member", "error", err)
		}

		fmt.Printf("added %s to project %d\n", flags.Email, flags.ProjectID)

	case "remove":
		if flags.UserID == 0 {
			logger.Fatal("members remove requires --user")
		}

		if err := a.client.RemoveMember(ctx, flags.ProjectID, flags.UserID); err != nil {
			logger.Fatal("failed to remove member", "error", err)
		}

		fmt.Printf("removed user %d from project %d\n", flags.UserID, flags.ProjectID)

	default:
		logger.Fatal("unknown members verb, expected list, add or remove", "verb", verb)
	}
}

func (a *app) runNotifications(ctx context.Context, verb string, args []string) {
	flags := config.ParseNotificationFlags(verb, args)

	switch verb {
	case "list":
		page, err := a.client.Notifications(ctx, api.NotificationQuery{
			Page:       flags.Page,
			Size:       flags.Size,
			Type:       flags.Type,
			Keyword:    flags.Keyword,
			UnreadOnly: flags.Unread,
		})
		if err != nil {
			logger.Fatal("failed to list notifications", "error", err)
		}

		for _, n := range page.Items {
			marker := " "
			if !n.IsRead {
				marker = "*"
			}

			fmt.Printf("%s %6d  %-16s  %s\n", marker, n.ID, n.Type, n.Title)
		}

		printPageFooter(page.Page, page.TotalPages, page.TotalElements)

	case "count":
		count, err := a.client.UnreadCount(ctx)
		if err != nil {
			logger.Fatal("failed to fetch unread count", "error", err)
		}

		fmt.Println(count)

	case "read":
		if flags.ID == 0 {
			logger.Fatal("notifications read requires --id")
		}

		if err := a.client.MarkRead(ctx, flags.ID); err != nil {
			logger.Fatal("failed to mark notification read", "error", err)
		}

		fmt.Printf("marked notification %d read\n", flags.ID)

	case "read-all":
		if err := a.client.MarkAllRead(ctx); err != nil {
			logger.Fatal("failed to mark notifications read", "error", err)
		}

		fmt.Println("marked all notifications read")

	default:
		logger.Fatal("unknown notifications verb, expected list, count, read or read-all", "verb", verb)
	}
}

func printTaskPage(page *api.Page[api.Task]) {
	for _, t := range page.Items {
		assignee := "-"
		if t.AssigneeEmail != nil {
			assignee = *t.AssigneeEmail
		}

		fmt.Printf("%6d  %-12s  %-8s  %-24s  %s\n", t.ID, t.Status, t.Priority, assignee, t.Title)
	}

	printPageFooter(page.Page, page.TotalPages, page.TotalElements)
}

func printPageFooter(page, totalPages int, totalElements int64) {
	if totalPages > 1 {
		fmt.Printf("page %d of %d (%d total)\n", page+1, totalPages, totalElements)
	}
}
