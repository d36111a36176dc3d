package kol

// Enum values recognized by the upstream API. The catalog mirrors them so the
// filter UI and the record validator stay in sync with the server.
var (
	genderOptions = []EnumOption{
		{Value: "MALE", Label: "Male"},
		{Value: "FEMALE", Label: "Female"},
		{Value: "LGBT", Label: "LGBT"},
	}
	levelOptions = []EnumOption{
		{Value: "Mid 50k-500k", Label: "Mid (50k-500k)"},
		{Value: "Micro 10k-50k", Label: "Micro (10k-50k)"},
		{Value: "Nano 1-10k", Label: "Nano (1-10k)"},
	}
	platformOptions = []EnumOption{
		{Value: "TikTok", Label: "TikTok"},
		{Value: "Instagram", Label: "Instagram"},
		{Value: "YouTube", Label: "YouTube"},
	}
	sourceOptions = []EnumOption{
		{Value: "Collabstr", Label: "Collabstr"},
		{Value: "Manual", Label: "Manual"},
		{Value: "Creable", Label: "Creable"},
		{Value: "Heepsy", Label: "Heepsy"},
	}
	sendStatusOptions = buildSendStatusOptions()
)

func buildSendStatusOptions() []EnumOption {
	opts := make([]EnumOption, 0, 20)
	rounds := []string{
		"Round No.1", "Round No.2", "Round No.3", "Round No.4", "Round No.5",
		"Round No.6", "Round No.7", "Round No.8", "Round No.9", "Round No.10",
		"Round No.11", "Round No.12", "Round No.13", "Round No.14", "Round No.15",
		"Round No.16", "Round No.17", "Round No.18", "Round No.19", "Round No.20",
	}
	for _, r := range rounds {
		opts = append(opts, EnumOption{Value: r, Label: r})
	}
	return opts
}

var defaultColumns = []Column{
	{Key: "name", Title: "Name", Kind: KindString, Tooltip: "Display name"},
	{Key: "email", Title: "Email", Kind: KindString},
	{Key: "gender", Title: "Gender", Kind: KindEnum, EnumOptions: genderOptions},
	{Key: "language", Title: "Language", Kind: KindString},
	{Key: "location", Title: "Location", Kind: KindString},
	{Key: "source", Title: "Source", Kind: KindEnum, EnumOptions: sourceOptions},
	{Key: "platform", Title: "Platform", Kind: KindEnum, EnumOptions: platformOptions},
	{Key: "followersK", Title: "Followers (K)", Kind: KindNumber, ServerKey: "followers_k"},
	{Key: "likesK", Title: "Likes (K)", Kind: KindNumber, ServerKey: "likes_k"},
	{Key: "meanViewsK", Title: "Mean Views (K)", Kind: KindNumber, ServerKey: "mean_views_k"},
	{Key: "medianViewsK", Title: "Median Views (K)", Kind: KindNumber, ServerKey: "median_views_k"},
	{Key: "engagementRate", Title: "Engagement Rate", Kind: KindNumber, Tooltip: "Percentage of followers engaging per post"},
	{Key: "averageViewsK", Title: "Avg Views (K)", Kind: KindNumber, ServerKey: "average_views_k"},
	{Key: "averageLikesK", Title: "Avg Likes (K)", Kind: KindNumber, ServerKey: "average_likes_k"},
	{Key: "averageCommentsK", Title: "Avg Comments (K)", Kind: KindNumber, ServerKey: "average_comments_k"},
	{Key: "level", Title: "KOL Level", Kind: KindEnum, EnumOptions: levelOptions},
	{Key: "sendStatus", Title: "Send Status", Kind: KindEnum, EnumOptions: sendStatusOptions, ServerKey: "send_status"},
	{Key: "sendDate", Title: "Send Date", Kind: KindDate, ServerKey: "send_date"},
	{Key: "exportDate", Title: "Export Date", Kind: KindDate, ServerKey: "export_date"},
	{Key: "keywordsAI", Title: "AI Keywords", Kind: KindString, ServerKey: "keywords_ai"},
	{Key: "mostUsedHashtags", Title: "Top Hashtags", Kind: KindString, ServerKey: "most_used_hashtags"},
}

// DefaultColumns returns copies of the built-in column definitions.
func DefaultColumns() []Column {
	out := make([]Column, len(defaultColumns))
	copy(out, defaultColumns)
	return out
}

// PageDescriptor describes a static admin page. Analytics, search, and
// settings are placeholders; only the KOL table is backed by data.
type PageDescriptor struct {
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Placeholder bool   `json:"placeholder"`
}

var defaultPages = []PageDescriptor{
	{Slug: "kols", Title: "KOL Management", Description: "List, filter, and edit KOL records."},
	{Slug: "analytics", Title: "Analytics", Description: "Campaign analytics.", Placeholder: true},
	{Slug: "search", Title: "Search", Description: "Cross-platform creator search.", Placeholder: true},
	{Slug: "settings", Title: "Settings", Description: "Workspace settings.", Placeholder: true},
}

// DefaultPages returns copies of the built-in page descriptors.
func DefaultPages() []PageDescriptor {
	out := make([]PageDescriptor, len(defaultPages))
	copy(out, defaultPages)
	return out
}
