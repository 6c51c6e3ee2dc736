package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/claude/gymbuddy/internal/config"
	"tailscale.com/client/tailscale/apitype"
)

type contextKey string

const (
	userIDKey   contextKey = "user_id"
	userInfoKey contextKey = "user_info"
)

// UserInfo identifies the caller of a request.
type UserInfo struct {
	Login       string `json:"login"`
	DisplayName string `json:"display_name"`
}

// Accounts maps logins to user ids, creating users on first sight.
type Accounts interface {
	GetOrCreateUser(ctx context.Context, login, displayName string) (int64, error)
}

// WhoIser resolves a tailnet peer address to its user. tsnet's local client
// implements it.
type WhoIser interface {
	WhoIs(ctx context.Context, remoteAddr string) (*apitype.WhoIsResponse, error)
}

var errNoIdentity = errors.New("no identity")

// resolver extracts the caller from a request. It returns errNoIdentity when
// the request carries none.
type resolver func(r *http.Request) (UserInfo, error)

// Identity returns the identity middleware for the configured auth mode.
// lc is only used in tailscale mode and may be nil otherwise.
func Identity(cfg config.AuthConfig, lc WhoIser, accounts Accounts, log *slog.Logger) (func(http.Handler) http.Handler, error) {
	switch cfg.Mode {
	case config.AuthTailscale:
		if lc == nil {
			return nil, fmt.Errorf("tailscale identity requires a tailscale client")
		}
		return TailscaleIdentity(lc, accounts, log), nil
	case config.AuthProxy:
		apiKey := APIKeyAuth(cfg.APIKey)
		header := HeaderIdentity(cfg.UserHeader, accounts, log)
		return func(next http.Handler) http.Handler {
			return apiKey(header(next))
		}, nil
	case config.AuthDev:
		return DevIdentity(cfg.DevLogin, accounts, log), nil
	default:
		return nil, fmt.Errorf("unknown auth mode %q", cfg.Mode)
	}
}

// TailscaleIdentity identifies callers by asking tailscaled who owns the
// peer address of the connection.
func TailscaleIdentity(lc WhoIser, accounts Accounts, log *slog.Logger) func(http.Handler) http.Handler {
	return withIdentity(accounts, log, func(r *http.Request) (UserInfo, error) {
		who, err := lc.WhoIs(r.Context(), r.RemoteAddr)
		if err != nil {
			return UserInfo{}, fmt.Errorf("whois %s: %w", r.RemoteAddr, err)
		}
		if who.UserProfile == nil || who.UserProfile.LoginName == "" {
			return UserInfo{}, errNoIdentity
		}
		return UserInfo{Login: who.UserProfile.LoginName, DisplayName: who.UserProfile.DisplayName}, nil
	})
}

// HeaderIdentity trusts a login set by an upstream proxy in header. It must
// only be mounted behind APIKeyAuth.
func HeaderIdentity(header string, accounts Accounts, log *slog.Logger) func(http.Handler) http.Handler {
	return withIdentity(accounts, log, func(r *http.Request) (UserInfo, error) {
		login := strings.TrimSpace(r.Header.Get(header))
		if login == "" {
			return UserInfo{}, errNoIdentity
		}
		return UserInfo{Login: login, DisplayName: login}, nil
	})
}

// DevIdentity treats every request as coming from login, enabling local
// development without Tailscale.
func DevIdentity(login string, accounts Accounts, log *slog.Logger) func(http.Handler) http.Handler {
	return withIdentity(accounts, log, func(*http.Request) (UserInfo, error) {
		return UserInfo{Login: login, DisplayName: "Local Dev User"}, nil
	})
}

func withIdentity(accounts Accounts, log *slog.Logger, resolve resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			info, err := resolve(r)
			if err != nil {
				if !errors.Is(err, errNoIdentity) {
					log.Warn("identity lookup failed", "remote", r.RemoteAddr, "error", err)
				}
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthenticated"})
				return
			}
			uid, err := accounts.GetOrCreateUser(r.Context(), info.Login, info.DisplayName)
			if err != nil {
				log.Error("resolving user", "login", info.Login, "error", err)
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
				return
			}
			ctx := context.WithValue(r.Context(), userIDKey, uid)
			ctx = context.WithValue(ctx, userInfoKey, info)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// userIDFromContext returns the caller's user id set by the identity
// middleware.
func userIDFromContext(r *http.Request) (int64, bool) {
	uid, ok := r.Context().Value(userIDKey).(int64)
	return uid, ok && uid > 0
}

// mustUserID returns the caller's user id or writes a 401.
func mustUserID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	uid, ok := userIDFromContext(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthenticated"})
	}
	return uid, ok
}

func userInfoFromContext(r *http.Request) (UserInfo, bool) {
	info, ok := r.Context().Value(userInfoKey).(UserInfo)
	return info, ok
}

// UserID returns the user id the identity middleware attached to r. Handlers
// mounted outside this package (the MCP endpoint) use it.
func UserID(r *http.Request) (int64, bool) {
	return userIDFromContext(r)
}
