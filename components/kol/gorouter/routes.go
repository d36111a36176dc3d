package gorouter

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	router "github.com/goliatone/go-router"

	kol "github.com/goliatone/go-kol-admin/components/kol"
	"github.com/goliatone/go-kol-admin/components/kol/commands"
	"github.com/goliatone/go-kol-admin/components/kol/httpapi"
	"github.com/goliatone/go-kol-admin/components/kol/queries"
)

// SessionResolver converts a router.Context into a kol.Session.
type SessionResolver func(router.Context) kol.Session

// Config wires go-router with the KOL admin service, API, and hooks.
type Config[T any] struct {
	Router          router.Router[T]
	Service         *kol.Service
	API             httpapi.Executor
	Broadcast       *kol.BroadcastHook
	SessionResolver SessionResolver
	BasePath        string
	Routes          RouteConfig
}

// RouteConfig customizes the relative paths used for KOL admin endpoints.
type RouteConfig struct {
	KOLs          string
	KOLID         string
	FiltersCommit string
	FiltersClear  string
	Filters       string
	Columns       string
	Preferences   string
	Pages         string
	WebSocket     string
}

// Register mounts KOL admin routes (JSON, REST, WebSocket) on a go-router router.
func Register[T any](cfg Config[T]) error {
	if cfg.Router == nil {
		return errors.New("gorouter: router is required")
	}
	if cfg.API == nil {
		return errors.New("gorouter: api executor is required")
	}
	routes := cfg.routes()
	base := cfg.BasePath
	if base == "" {
		base = "/admin"
	}
	resolver := cfg.SessionResolver
	if resolver == nil {
		resolver = defaultSessionResolver
	}

	group := cfg.Router.Group(base)

	registerAPI(group, cfg.API, resolver, routes)

	if cfg.Service != nil {
		group.Get(routes.Pages, router.WrapHandler(func(ctx router.Context) error {
			return ctx.JSON(http.StatusOK, cfg.Service.Pages())
		}))
	}

	if cfg.Broadcast != nil {
		registerWebSocket(group, cfg.Broadcast, routes.WebSocket)
	}

	return nil
}

func registerAPI[T any](r router.Router[T], api httpapi.Executor, resolver SessionResolver, routes RouteConfig) {
	r.Get(routes.KOLs, router.WrapHandler(func(ctx router.Context) error {
		session := resolver(ctx)
		result, err := api.List(ctx.Context(), queries.ListKOLsInput{
			SessionID: session.ID,
			UserID:    session.UserID,
			Page:      queryInt(ctx, "page"),
			Size:      queryInt(ctx, "size"),
		})
		if err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		return ctx.JSON(http.StatusOK, result)
	}))

	r.Post(routes.KOLs, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.CreateKOLInput
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		if err := api.Create(ctx.Context(), payload); err != nil {
			return respondCommandError(ctx, err)
		}
		return ctx.JSON(http.StatusCreated, map[string]string{"status": "created"})
	}))

	r.Put(routes.KOLID, router.WrapHandler(func(ctx router.Context) error {
		id := ctx.Param("id")
		if id == "" {
			return respondError(ctx, http.StatusBadRequest, errors.New("kol id is required"))
		}
		var payload commands.UpdateKOLInput
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		payload.KOLID = id
		if err := api.Update(ctx.Context(), payload); err != nil {
			return respondCommandError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "updated"})
	}))

	r.Delete(routes.KOLID, router.WrapHandler(func(ctx router.Context) error {
		id := ctx.Param("id")
		if id == "" {
			return respondError(ctx, http.StatusBadRequest, errors.New("kol id is required"))
		}
		if err := api.Delete(ctx.Context(), commands.DeleteKOLInput{ID: id}); err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "removed"})
	}))

	r.Get(routes.Filters, router.WrapHandler(func(ctx router.Context) error {
		session := resolver(ctx)
		conditions, err := api.Filters(ctx.Context(), queries.FiltersInput{
			SessionID: session.ID,
			UserID:    session.UserID,
		})
		if err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		return ctx.JSON(http.StatusOK, map[string]any{"conditions": conditions})
	}))

	r.Post(routes.FiltersCommit, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.CommitFiltersInput
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		session := resolver(ctx)
		if payload.SessionID == "" {
			payload.SessionID = session.ID
		}
		if payload.UserID == "" {
			payload.UserID = session.UserID
		}
		if err := api.CommitFilters(ctx.Context(), payload); err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "committed"})
	}))

	r.Post(routes.FiltersClear, router.WrapHandler(func(ctx router.Context) error {
		session := resolver(ctx)
		err := api.ClearFilters(ctx.Context(), commands.ClearFiltersInput{
			SessionID: session.ID,
			UserID:    session.UserID,
		})
		if err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "cleared"})
	}))

	r.Get(routes.Columns, router.WrapHandler(func(ctx router.Context) error {
		columns, err := api.Columns(ctx.Context())
		if err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		return ctx.JSON(http.StatusOK, map[string]any{"columns": columns})
	}))

	r.Get(routes.Preferences, router.WrapHandler(func(ctx router.Context) error {
		session := resolver(ctx)
		prefs, err := api.Preferences(ctx.Context(), queries.PreferencesInput{
			SessionID: session.ID,
			UserID:    session.UserID,
		})
		if err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		return ctx.JSON(http.StatusOK, prefs)
	}))

	r.Post(routes.Preferences, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.SavePreferencesInput
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		session := resolver(ctx)
		if payload.UserID == "" {
			payload.UserID = session.UserID
		}
		if err := api.SavePreferences(ctx.Context(), payload); err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "saved"})
	}))
}

func registerWebSocket[T any](r router.Router[T], hook *kol.BroadcastHook, path string) {
	cfg := router.DefaultWebSocketConfig()
	r.WebSocket(path, cfg, func(ws router.WebSocketContext) error {
		events, cancel := hook.Subscribe()
		defer cancel()
		for {
			select {
			case event, ok := <-events:
				if !ok {
					return nil
				}
				if err := ws.WriteJSON(event); err != nil {
					return err
				}
			case <-ws.Context().Done():
				return ws.Close()
			}
		}
	})
}

func defaultSessionResolver(ctx router.Context) kol.Session {
	var session kol.Session
	if v, ok := ctx.Locals("session_id").(string); ok {
		session.ID = v
	}
	if v, ok := ctx.Locals("user_id").(string); ok {
		session.UserID = v
	}
	if session.ID == "" {
		session.ID = strings.TrimSpace(ctx.Header("X-Session-ID"))
	}
	if session.UserID == "" {
		session.UserID = strings.TrimSpace(ctx.Header("X-User-ID"))
	}
	if session.ID == "" {
		session.ID = strings.TrimSpace(ctx.Query("session_id"))
	}
	return session
}

func queryInt(ctx router.Context, key string) int {
	raw := strings.TrimSpace(ctx.Query(key))
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return n
}

func respondError(ctx router.Context, status int, err error) error {
	return ctx.JSON(status, map[string]string{"error": err.Error()})
}

// respondCommandError gives validation failures a 422 with per-field detail so
// the form can highlight inputs instead of showing a generic toast.
func respondCommandError(ctx router.Context, err error) error {
	var vErr *kol.ValidationError
	if errors.As(err, &vErr) {
		return ctx.JSON(http.StatusUnprocessableEntity, map[string]any{
			"error":  vErr.Error(),
			"fields": vErr.Fields,
		})
	}
	return respondError(ctx, http.StatusInternalServerError, err)
}

func (cfg Config[T]) routes() RouteConfig {
	return defaultRouteConfig(cfg.Routes)
}

func defaultRouteConfig(routes RouteConfig) RouteConfig {
	if routes.KOLs == "" {
		routes.KOLs = "/kols"
	}
	if routes.KOLID == "" {
		routes.KOLID = "/kols/:id"
	}
	if routes.Filters == "" {
		routes.Filters = "/kols/filters"
	}
	if routes.FiltersCommit == "" {
		routes.FiltersCommit = "/kols/filters/commit"
	}
	if routes.FiltersClear == "" {
		routes.FiltersClear = "/kols/filters/clear"
	}
	if routes.Columns == "" {
		routes.Columns = "/kols/columns"
	}
	if routes.Preferences == "" {
		routes.Preferences = "/kols/preferences"
	}
	if routes.Pages == "" {
		routes.Pages = "/pages"
	}
	if routes.WebSocket == "" {
		routes.WebSocket = "/kols/ws"
	}
	return routes
}
