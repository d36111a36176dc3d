package kolapi

import (
	"strconv"
	"time"

	kol "github.com/goliatone/go-kol-admin/components/kol"
)

// sendDateLayout is the space-delimited timestamp the API stores for
// operational dates.
const sendDateLayout = "2006-01-02 15:04:05"

// Record is the flat snake_case shape the KOL API reads and writes. Nullable
// scalars are pointers without omitempty so unset client fields serialize as
// explicit nulls: partial client state must never silently preserve stale
// server values.
type Record struct {
	ID    int64  `json:"id,omitempty"`
	KOLID string `json:"kol_id"`

	Name        *string `json:"name"`
	Email       *string `json:"email"`
	Bio         *string `json:"bio"`
	Gender      *string `json:"gender"`
	Language    *string `json:"language"`
	Location    *string `json:"location"`
	Source      *string `json:"source"`
	Tag         *string `json:"tag"`
	Filter      *string `json:"filter"`
	AccountLink *string `json:"account_link"`
	Slug        *string `json:"slug"`
	CreatorID   *string `json:"creator_id"`
	Platform    *string `json:"platform"`

	FollowersK       *float64 `json:"followers_k"`
	LikesK           *float64 `json:"likes_k"`
	MeanViewsK       *float64 `json:"mean_views_k"`
	MedianViewsK     *float64 `json:"median_views_k"`
	EngagementRate   *float64 `json:"engagement_rate"`
	AverageViewsK    *float64 `json:"average_views_k"`
	AverageLikesK    *float64 `json:"average_likes_k"`
	AverageCommentsK *float64 `json:"average_comments_k"`

	Level            *string  `json:"level"`
	SendStatus       *string  `json:"send_status"`
	SendDate         *string  `json:"send_date"`
	ExportDate       *string  `json:"export_date"`
	KeywordsAI       []string `json:"keywords_ai"`
	MostUsedHashtags []string `json:"most_used_hashtags"`

	Collaborations []CollabRecord `json:"collaborations,omitempty"`

	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// CollabRecord is the pass-through collaboration entry.
type CollabRecord struct {
	ID     string  `json:"id"`
	Date   *string `json:"date"`
	Type   string  `json:"type"`
	Status string  `json:"status"`
	Notes  string  `json:"notes"`
}

// ToKOL reshapes the flat server record into the nested client shape.
// Absent or malformed dates come through as nil; absent arrays become empty
// slices. The mapper performs no repair beyond that.
func (r Record) ToKOL() kol.KOL {
	k := kol.KOL{
		KOLID:       r.KOLID,
		Name:        strval(r.Name),
		Email:       strval(r.Email),
		Bio:         strval(r.Bio),
		Gender:      strval(r.Gender),
		Language:    strval(r.Language),
		Location:    strval(r.Location),
		Source:      strval(r.Source),
		Tag:         strval(r.Tag),
		Filter:      strval(r.Filter),
		AccountLink: strval(r.AccountLink),
		Slug:        strval(r.Slug),
		CreatorID:   strval(r.CreatorID),
		Platform:    strval(r.Platform),
		Metrics: kol.Metrics{
			FollowersK:       numval(r.FollowersK),
			LikesK:           numval(r.LikesK),
			MeanViewsK:       numval(r.MeanViewsK),
			MedianViewsK:     numval(r.MedianViewsK),
			EngagementRate:   numval(r.EngagementRate),
			AverageViewsK:    numval(r.AverageViewsK),
			AverageLikesK:    numval(r.AverageLikesK),
			AverageCommentsK: numval(r.AverageCommentsK),
		},
		Operational: kol.Operational{
			Level:            strval(r.Level),
			SendStatus:       strval(r.SendStatus),
			SendDate:         dateval(r.SendDate),
			ExportDate:       dateval(r.ExportDate),
			KeywordsAI:       nonNil(r.KeywordsAI),
			MostUsedHashtags: nonNil(r.MostUsedHashtags),
		},
	}
	if r.ID != 0 {
		k.ID = strconv.FormatInt(r.ID, 10)
	}
	k.Collaborations = make([]kol.Collaboration, 0, len(r.Collaborations))
	for _, c := range r.Collaborations {
		k.Collaborations = append(k.Collaborations, kol.Collaboration{
			ID:     c.ID,
			Date:   dateval(c.Date),
			Type:   c.Type,
			Status: c.Status,
			Notes:  c.Notes,
		})
	}
	return k
}

// FromKOL is the inverse mapping for create/update requests. Empty strings
// become explicit nulls, operational dates serialize to the API's
// space-delimited timestamp, and array fields are always real lists.
func FromKOL(k kol.KOL) Record {
	r := Record{
		KOLID:       k.KOLID,
		Name:        nullable(k.Name),
		Email:       nullable(k.Email),
		Bio:         nullable(k.Bio),
		Gender:      nullable(k.Gender),
		Language:    nullable(k.Language),
		Location:    nullable(k.Location),
		Source:      nullable(k.Source),
		Tag:         nullable(k.Tag),
		Filter:      nullable(k.Filter),
		AccountLink: nullable(k.AccountLink),
		Slug:        nullable(k.Slug),
		CreatorID:   nullable(k.CreatorID),
		Platform:    nullable(k.Platform),

		FollowersK:       ptr(k.Metrics.FollowersK),
		LikesK:           ptr(k.Metrics.LikesK),
		MeanViewsK:       ptr(k.Metrics.MeanViewsK),
		MedianViewsK:     ptr(k.Metrics.MedianViewsK),
		EngagementRate:   ptr(k.Metrics.EngagementRate),
		AverageViewsK:    ptr(k.Metrics.AverageViewsK),
		AverageLikesK:    ptr(k.Metrics.AverageLikesK),
		AverageCommentsK: ptr(k.Metrics.AverageCommentsK),

		Level:            nullable(k.Operational.Level),
		SendStatus:       nullable(k.Operational.SendStatus),
		SendDate:         timestamp(k.Operational.SendDate),
		ExportDate:       timestamp(k.Operational.ExportDate),
		KeywordsAI:       nonNil(k.Operational.KeywordsAI),
		MostUsedHashtags: nonNil(k.Operational.MostUsedHashtags),
	}
	if k.ID != "" {
		if id, err := strconv.ParseInt(k.ID, 10, 64); err == nil {
			r.ID = id
		}
	}
	for _, c := range k.Collaborations {
		var date *string
		if c.Date != nil {
			s := c.Date.Format(time.RFC3339)
			date = &s
		}
		r.Collaborations = append(r.Collaborations, CollabRecord{
			ID:     c.ID,
			Date:   date,
			Type:   c.Type,
			Status: c.Status,
			Notes:  c.Notes,
		})
	}
	return r
}

func strval(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func numval(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func ptr(f float64) *float64 { return &f }

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

var readDateLayouts = []string{sendDateLayout, time.RFC3339, time.DateOnly}

func dateval(p *string) *time.Time {
	if p == nil || *p == "" {
		return nil
	}
	for _, layout := range readDateLayouts {
		if t, err := time.Parse(layout, *p); err == nil {
			return &t
		}
	}
	return nil
}

func timestamp(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(sendDateLayout)
	return &s
}
