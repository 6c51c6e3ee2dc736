package mcp

import (
	"context"
	"encoding/json"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
)

func (h *handlers) template(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	view, err := h.ds.Template(ctx, UserIDFromContext(ctx))
	if err != nil {
		return nil, err
	}
	return jsonContents(req.Params.URI, view)
}

func (h *handlers) recentWorkouts(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	sessions, err := h.ds.ListSessions(ctx, UserIDFromContext(ctx))
	if err != nil {
		return nil, err
	}
	recent := sessionsBetween(sessions, time.Now().AddDate(0, 0, -14), time.Now())
	return jsonContents(req.Params.URI, recent)
}

func jsonContents(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
