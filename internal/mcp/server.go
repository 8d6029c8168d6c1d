package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ldi/huddle/internal/standup"
	"github.com/ldi/huddle/internal/store"
	"github.com/ldi/huddle/pkg/models"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewServer creates a new MCP server exposing the dashboard operations.
func NewServer(st *store.Store) *server.MCPServer {
	s := server.NewMCPServer("Huddle", "0.1.0")

	// Ticket management
	s.AddTool(mcp.NewTool("create_ticket",
		mcp.WithDescription("Create a new ticket in the backlog."),
		mcp.WithString("title", mcp.Description("Ticket title"), mcp.Required()),
		mcp.WithString("description", mcp.Description("Ticket description")),
		mcp.WithString("priority", mcp.Description("Priority (critical|high|medium|low)")),
		mcp.WithString("category", mcp.Description("Category label, e.g. feature or bug")),
	), createTicketHandler(st))

	s.AddTool(mcp.NewTool("list_tickets",
		mcp.WithDescription("List tickets with optional filters."),
		mcp.WithString("status", mcp.Description("Filter by status")),
		mcp.WithString("assignee", mcp.Description("Filter by assignee user ID")),
	), listTicketsHandler(st))

	s.AddTool(mcp.NewTool("move_ticket",
		mcp.WithDescription("Move a ticket to a new kanban column."),
		mcp.WithString("ticket_id", mcp.Description("Ticket ID"), mcp.Required()),
		mcp.WithString("status", mcp.Description("Target status"), mcp.Required()),
	), moveTicketHandler(st))

	s.AddTool(mcp.NewTool("assign_ticket",
		mcp.WithDescription("Assign a ticket to a user. Becomes the user's active task when they have none, otherwise queues it."),
		mcp.WithString("ticket_id", mcp.Description("Ticket ID"), mcp.Required()),
		mcp.WithString("user_id", mcp.Description("User ID"), mcp.Required()),
	), assignTicketHandler(st))

	s.AddTool(mcp.NewTool("reorder_ticket",
		mcp.WithDescription("Move a ticket to a new index in a user's list. Index 0 is the active slot."),
		mcp.WithString("user_id", mcp.Description("User ID"), mcp.Required()),
		mcp.WithString("ticket_id", mcp.Description("Ticket ID"), mcp.Required()),
		mcp.WithNumber("index", mcp.Description("Target index"), mcp.Required()),
	), reorderTicketHandler(st))

	s.AddTool(mcp.NewTool("unassign_ticket",
		mcp.WithDescription("Return a ticket to the unassigned pool."),
		mcp.WithString("ticket_id", mcp.Description("Ticket ID"), mcp.Required()),
	), unassignTicketHandler(st))

	s.AddTool(mcp.NewTool("complete_ticket",
		mcp.WithDescription("Mark a ticket done and release it from its assignee."),
		mcp.WithString("ticket_id", mcp.Description("Ticket ID"), mcp.Required()),
	), completeTicketHandler(st))

	s.AddTool(mcp.NewTool("user_queue",
		mcp.WithDescription("Get a user's ordered ticket list: active task first, then the queue."),
		mcp.WithString("user_id", mcp.Description("User ID"), mcp.Required()),
	), userQueueHandler(st))

	s.AddTool(mcp.NewTool("board",
		mcp.WithDescription("Get the kanban board grouped by status column."),
	), boardHandler(st))

	// User management
	s.AddTool(mcp.NewTool("create_user",
		mcp.WithDescription("Create a new team member."),
		mcp.WithString("name", mcp.Description("Display name"), mcp.Required()),
		mcp.WithString("role", mcp.Description("Role, e.g. backend")),
	), createUserHandler(st))

	s.AddTool(mcp.NewTool("list_users",
		mcp.WithDescription("List all team members."),
	), listUsersHandler(st))

	s.AddTool(mcp.NewTool("set_user_status",
		mcp.WithDescription("Set a user's presence status (online|break|off)."),
		mcp.WithString("user_id", mcp.Description("User ID"), mcp.Required()),
		mcp.WithString("status", mcp.Description("New status"), mcp.Required()),
	), setUserStatusHandler(st))

	s.AddTool(mcp.NewTool("report_blocker",
		mcp.WithDescription("Flag a user as blocked with a reason."),
		mcp.WithString("user_id", mcp.Description("User ID"), mcp.Required()),
		mcp.WithString("reason", mcp.Description("What is blocking them"), mcp.Required()),
	), reportBlockerHandler(st))

	s.AddTool(mcp.NewTool("clear_blocker",
		mcp.WithDescription("Clear a user's blocked flag."),
		mcp.WithString("user_id", mcp.Description("User ID"), mcp.Required()),
	), clearBlockerHandler(st))

	// Idea management
	s.AddTool(mcp.NewTool("create_idea",
		mcp.WithDescription("Create a new idea in the triage list."),
		mcp.WithString("title", mcp.Description("Idea title"), mcp.Required()),
		mcp.WithString("description", mcp.Description("Idea description")),
		mcp.WithString("category", mcp.Description("Category label")),
	), createIdeaHandler(st))

	s.AddTool(mcp.NewTool("list_ideas",
		mcp.WithDescription("List all ideas in manual order."),
	), listIdeasHandler(st))

	s.AddTool(mcp.NewTool("add_idea_comment",
		mcp.WithDescription("Append a comment to an idea."),
		mcp.WithString("idea_id", mcp.Description("Idea ID"), mcp.Required()),
		mcp.WithString("author", mcp.Description("Comment author"), mcp.Required()),
		mcp.WithString("body", mcp.Description("Comment body"), mcp.Required()),
	), addIdeaCommentHandler(st))

	s.AddTool(mcp.NewTool("promote_idea",
		mcp.WithDescription("Promote an idea to a backlog ticket with the next category number."),
		mcp.WithString("idea_id", mcp.Description("Idea ID"), mcp.Required()),
	), promoteIdeaHandler(st))

	// Standup queries
	s.AddTool(mcp.NewTool("list_standup_reports",
		mcp.WithDescription("List all stored standup reports, oldest first."),
	), listStandupReportsHandler(st))

	s.AddTool(mcp.NewTool("get_timeline",
		mcp.WithDescription("Reconstruct a user's work timeline for today from the activity log."),
		mcp.WithString("user_id", mcp.Description("User ID"), mcp.Required()),
	), getTimelineHandler(st))

	return s
}

// Serve starts the MCP server on stdio.
func Serve(s *server.MCPServer) error {
	return server.ServeStdio(s)
}

func createTicketHandler(st *store.Store) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		t := &models.Ticket{
			Title:       mcp.ParseString(request, "title", ""),
			Description: mcp.ParseString(request, "description", ""),
			Priority:    models.TicketPriority(mcp.ParseString(request, "priority", "")),
			Category:    mcp.ParseString(request, "category", ""),
		}
		if err := st.CreateTicket(t); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Ticket '%s' created with ID %s", t.Title, t.ID)), nil
	}
}

func listTicketsHandler(st *store.Store) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		filter := store.TicketFilter{
			Status:   models.TicketStatus(mcp.ParseString(request, "status", "")),
			Assignee: mcp.ParseString(request, "assignee", ""),
		}
		return jsonResult(map[string]interface{}{"tickets": st.ListTickets(filter)})
	}
}

func moveTicketHandler(st *store.Store) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ticketID := mcp.ParseString(request, "ticket_id", "")
		status := models.TicketStatus(mcp.ParseString(request, "status", ""))
		if st.GetTicket(ticketID) == nil {
			return mcp.NewToolResultError(fmt.Sprintf("Ticket with ID '%s' not found", ticketID)), nil
		}
		if err := st.MoveTicketStatus(ticketID, status); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText("Ticket moved successfully"), nil
	}
}

func assignTicketHandler(st *store.Store) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ticketID := mcp.ParseString(request, "ticket_id", "")
		userID := mcp.ParseString(request, "user_id", "")
		if st.GetTicket(ticketID) == nil {
			return mcp.NewToolResultError(fmt.Sprintf("Ticket with ID '%s' not found", ticketID)), nil
		}
		if st.GetUser(userID) == nil {
			return mcp.NewToolResultError(fmt.Sprintf("User with ID '%s' not found", userID)), nil
		}
		if err := st.AssignTicket(ticketID, userID); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText("Ticket assigned successfully"), nil
	}
}

func reorderTicketHandler(st *store.Store) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		userID := mcp.ParseString(request, "user_id", "")
		ticketID := mcp.ParseString(request, "ticket_id", "")
		index := mcp.ParseInt(request, "index", 0)
		if err := st.ReorderTicket(userID, ticketID, index); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText("Ticket reordered successfully"), nil
	}
}

func unassignTicketHandler(st *store.Store) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ticketID := mcp.ParseString(request, "ticket_id", "")
		if err := st.UnassignTicket(ticketID); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText("Ticket unassigned successfully"), nil
	}
}

func completeTicketHandler(st *store.Store) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ticketID := mcp.ParseString(request, "ticket_id", "")
		if st.GetTicket(ticketID) == nil {
			return mcp.NewToolResultError(fmt.Sprintf("Ticket with ID '%s' not found", ticketID)), nil
		}
		if err := st.CompleteTicket(ticketID); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText("Ticket completed successfully"), nil
	}
}

func userQueueHandler(st *store.Store) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		userID := mcp.ParseString(request, "user_id", "")
		if st.GetUser(userID) == nil {
			return mcp.NewToolResultError(fmt.Sprintf("User with ID '%s' not found", userID)), nil
		}
		return jsonResult(map[string]interface{}{"queue": st.UserQueue(userID)})
	}
}

func boardHandler(st *store.Store) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return jsonResult(map[string]interface{}{"columns": st.Board()})
	}
}

func createUserHandler(st *store.Store) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		u := &models.User{
			Name: mcp.ParseString(request, "name", ""),
			Role: mcp.ParseString(request, "role", ""),
		}
		if err := st.CreateUser(u); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("User '%s' created with ID %s", u.Name, u.ID)), nil
	}
}

func listUsersHandler(st *store.Store) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return jsonResult(map[string]interface{}{"users": st.ListUsers()})
	}
}

func setUserStatusHandler(st *store.Store) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		userID := mcp.ParseString(request, "user_id", "")
		status := models.UserStatus(mcp.ParseString(request, "status", ""))
		if st.GetUser(userID) == nil {
			return mcp.NewToolResultError(fmt.Sprintf("User with ID '%s' not found", userID)), nil
		}
		if err := st.SetUserStatus(userID, status); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText("User status updated successfully"), nil
	}
}

func reportBlockerHandler(st *store.Store) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		userID := mcp.ParseString(request, "user_id", "")
		reason := mcp.ParseString(request, "reason", "")
		if st.GetUser(userID) == nil {
			return mcp.NewToolResultError(fmt.Sprintf("User with ID '%s' not found", userID)), nil
		}
		if err := st.SetBlocker(userID, reason); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText("Blocker reported successfully"), nil
	}
}

func clearBlockerHandler(st *store.Store) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		userID := mcp.ParseString(request, "user_id", "")
		if err := st.ClearBlocker(userID); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText("Blocker cleared successfully"), nil
	}
}

func createIdeaHandler(st *store.Store) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		i := &models.Idea{
			Title:       mcp.ParseString(request, "title", ""),
			Description: mcp.ParseString(request, "description", ""),
			Category:    mcp.ParseString(request, "category", ""),
		}
		if err := st.CreateIdea(i); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Idea '%s' created with ID %s", i.Title, i.ID)), nil
	}
}

func listIdeasHandler(st *store.Store) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return jsonResult(map[string]interface{}{"ideas": st.ListIdeas()})
	}
}

func addIdeaCommentHandler(st *store.Store) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ideaID := mcp.ParseString(request, "idea_id", "")
		author := mcp.ParseString(request, "author", "")
		body := mcp.ParseString(request, "body", "")
		if st.GetIdea(ideaID) == nil {
			return mcp.NewToolResultError(fmt.Sprintf("Idea with ID '%s' not found", ideaID)), nil
		}
		if err := st.AddIdeaComment(ideaID, author, body); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText("Comment added successfully"), nil
	}
}

func promoteIdeaHandler(st *store.Store) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ideaID := mcp.ParseString(request, "idea_id", "")
		if st.GetIdea(ideaID) == nil {
			return mcp.NewToolResultError(fmt.Sprintf("Idea with ID '%s' not found", ideaID)), nil
		}
		ticket, err := st.PromoteIdea(ideaID)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Idea promoted to ticket %s (%s-%d)", ticket.ID, ticket.Category, ticket.CategoryNumber)), nil
	}
}

func listStandupReportsHandler(st *store.Store) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return jsonResult(map[string]interface{}{"reports": st.ListStandupReports()})
	}
}

func getTimelineHandler(st *store.Store) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		userID := mcp.ParseString(request, "user_id", "")
		u := st.GetUser(userID)
		if u == nil {
			return mcp.NewToolResultError(fmt.Sprintf("User with ID '%s' not found", userID)), nil
		}

		now := time.Now()
		segments := standup.DayTimeline(st.Activity(), u, now, now)
		return jsonResult(map[string]interface{}{"segments": segments})
	}
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
