package mcp

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

type contextKey int

const userIDKey contextKey = iota

// UserIDFromContext extracts the user ID injected by the transport layer. It
// returns 0 when none was set, which the service rejects as unauthenticated.
func UserIDFromContext(ctx context.Context) int64 {
	if id, ok := ctx.Value(userIDKey).(int64); ok {
		return id
	}
	return 0
}

// WithUserID returns a context with the given user ID.
func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("GymBuddy", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("GymBuddy workout log. Read the user's workout sessions, the exercises and sets they performed, what they did last time and their notes per exercise. All data is scoped to the authenticated user and read-only."),
	)

	h := &handlers{ds: ds, log: log}

	s.AddTools(
		server.ServerTool{Tool: toolListWorkouts, Handler: h.listWorkouts},
		server.ServerTool{Tool: toolGetWorkout, Handler: h.getWorkout},
		server.ServerTool{Tool: toolGetTemplate, Handler: h.getTemplate},
		server.ServerTool{Tool: toolGetPreviousExercises, Handler: h.getPreviousExercises},
		server.ServerTool{Tool: toolListUserExercises, Handler: h.listUserExercises},
		server.ServerTool{Tool: toolGetLastExercisePerformance, Handler: h.getLastExercisePerformance},
		server.ServerTool{Tool: toolGetExerciseNote, Handler: h.getExerciseNote},
	)

	s.AddResources(
		server.ServerResource{Resource: resTemplate, Handler: h.template},
		server.ServerResource{Resource: resRecentWorkouts, Handler: h.recentWorkouts},
	)

	return s
}

// Handler serves s over streamable HTTP. userID reads the caller's id from
// the request, as set by the HTTP identity middleware.
func Handler(s *server.MCPServer, userID func(*http.Request) (int64, bool)) http.Handler {
	return server.NewStreamableHTTPServer(s,
		server.WithStateLess(true),
		server.WithHTTPContextFunc(func(ctx context.Context, r *http.Request) context.Context {
			if id, ok := userID(r); ok {
				return WithUserID(ctx, id)
			}
			return ctx
		}),
	)
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds  DataSource
	log *slog.Logger
}

// --- Resource definitions ---

var resTemplate = mcp.NewResource(
	"gymbuddy://template",
	"Next Workout Template",
	mcp.WithResourceDescription("Exercises and sets of the most recent workout, the starting point for the next one"),
	mcp.WithMIMEType("application/json"),
)

var resRecentWorkouts = mcp.NewResource(
	"gymbuddy://recent_workouts",
	"Recent Workouts",
	mcp.WithResourceDescription("Workouts from the last 14 days"),
	mcp.WithMIMEType("application/json"),
)
