package kol

import (
	"context"
	"net/url"
	"time"
)

// Client is the external KOL API collaborator. Implementations translate the
// client-side record shape to whatever the remote endpoint expects.
type Client interface {
	List(ctx context.Context, req ListRequest) (ListResult, error)
	Create(ctx context.Context, k KOL) (KOL, error)
	Update(ctx context.Context, kolID string, k KOL) (KOL, error)
	Delete(ctx context.Context, id string) error
}

// FilterStore persists a session's filter conditions between page loads.
type FilterStore interface {
	Load(ctx context.Context, session Session) ([]Condition, error)
	Save(ctx context.Context, session Session, conds []Condition) error
	Clear(ctx context.Context, session Session) error
}

// PreferenceStore keeps per-viewer table preferences (visible columns, page size).
type PreferenceStore interface {
	TablePreferences(ctx context.Context, session Session) (TablePreferences, error)
	SaveTablePreferences(ctx context.Context, session Session, prefs TablePreferences) error
}

// RecordValidator gates create/update payloads before they reach the API.
type RecordValidator interface {
	Validate(k KOL) error
}

// RefreshHook notifies transports (REST/WebSocket) that the KOL list changed
// and open tables should refetch.
type RefreshHook interface {
	RecordChanged(ctx context.Context, event ChangeEvent) error
}

// Session identifies the browser session driving the admin table. ID scopes
// filter persistence; UserID scopes preferences.
type Session struct {
	ID     string
	UserID string
}

// KOL is the client-side record shape: identity and profile fields at the top
// level, metrics and operational data as sub-objects.
type KOL struct {
	ID          string `json:"id"`
	KOLID       string `json:"kolId"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Bio         string `json:"bio"`
	Gender      string `json:"gender"`
	Language    string `json:"language"`
	Location    string `json:"location"`
	Source      string `json:"source"`
	Tag         string `json:"tag"`
	Filter      string `json:"filter"`
	AccountLink string `json:"accountLink"`
	Slug        string `json:"slug"`
	CreatorID   string `json:"creatorId"`
	Platform    string `json:"platform"`

	Metrics        Metrics         `json:"metrics"`
	Operational    Operational     `json:"operational"`
	Collaborations []Collaboration `json:"collaborations"`
}

// Metrics groups the numeric audience fields. Units are thousands except
// EngagementRate which is a percentage.
type Metrics struct {
	FollowersK       float64 `json:"followersK"`
	LikesK           float64 `json:"likesK"`
	MeanViewsK       float64 `json:"meanViewsK"`
	MedianViewsK     float64 `json:"medianViewsK"`
	EngagementRate   float64 `json:"engagementRate"`
	AverageViewsK    float64 `json:"averageViewsK"`
	AverageLikesK    float64 `json:"averageLikesK"`
	AverageCommentsK float64 `json:"averageCommentsK"`
}

// Operational groups outreach state.
type Operational struct {
	Level            string     `json:"level"`
	SendStatus       string     `json:"sendStatus"`
	SendDate         *time.Time `json:"sendDate"`
	ExportDate       *time.Time `json:"exportDate"`
	KeywordsAI       []string   `json:"keywordsAI"`
	MostUsedHashtags []string   `json:"mostUsedHashtags"`
}

// Collaboration is carried through untouched; the dashboard only displays it.
type Collaboration struct {
	ID     string     `json:"id"`
	Date   *time.Time `json:"date"`
	Type   string     `json:"type"`
	Status string     `json:"status"`
	Notes  string     `json:"notes"`
}

// ListRequest carries pagination plus translated filter parameters.
type ListRequest struct {
	Page   int
	Size   int
	Params url.Values
}

// ListResult is one page of records.
type ListResult struct {
	Total int   `json:"total"`
	Page  int   `json:"page"`
	Size  int   `json:"size"`
	Pages int   `json:"pages"`
	Items []KOL `json:"items"`
}

// TablePreferences captures per-viewer table adjustments.
type TablePreferences struct {
	VisibleColumns   []string `json:"visible_columns"`
	PageSize         int      `json:"page_size"`
	SidebarCollapsed bool     `json:"sidebar_collapsed"`
}

// ChangeEvent describes a mutation transports might care about.
type ChangeEvent struct {
	KOLID  string `json:"kol_id"`
	Reason string `json:"reason"`
}

type noopRefreshHook struct{}

func (noopRefreshHook) RecordChanged(context.Context, ChangeEvent) error { return nil }
