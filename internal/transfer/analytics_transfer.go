package transfer

type Growth struct {
	Posts      float64 `json:"posts"`
	Engagement float64 `json:"engagement"`
	Reach      float64 `json:"reach"`
}

type AnalyticsOverview struct {
	TotalPosts           int     `json:"totalPosts"`
	TotalReach           int64   `json:"totalReach"`
	TotalEngagement      int64   `json:"totalEngagement"`
	EngagementRate       float64 `json:"engagementRate"`
	TopPlatform          string  `json:"topPlatform"`
	AIContentPerformance int64   `json:"aiContentPerformance"`
	RecentGrowth         Growth  `json:"recentGrowth"`
}

type TopPost struct {
	ID             string  `json:"id"`
	Content        string  `json:"content"`
	Engagement     int64   `json:"engagement"`
	EngagementRate float64 `json:"engagementRate"`
}

type PlatformPerformance struct {
	Platform          string   `json:"platform"`
	Posts             int      `json:"posts"`
	AvgEngagementRate float64  `json:"avgEngagementRate"`
	TotalReach        int64    `json:"totalReach"`
	TotalEngagement   int64    `json:"totalEngagement"`
	TopPost           *TopPost `json:"topPost,omitempty"`
}

type ContentTypeStats struct {
	Count         int   `json:"count"`
	AvgEngagement int64 `json:"avgEngagement"`
}

type ContentTypes struct {
	Text  ContentTypeStats `json:"text"`
	Image ContentTypeStats `json:"image"`
	AI    ContentTypeStats `json:"ai"`
}

type ContentInsight struct {
	BestPostingTimes []string     `json:"bestPostingTimes"`
	TopHashtags      []string     `json:"topHashtags"`
	ContentTypes     ContentTypes `json:"contentTypes"`
}

type CounterUpdate struct {
	Impressions *int64 `json:"impressions"`
	Likes       *int64 `json:"likes"`
	Comments    *int64 `json:"comments"`
	Shares      *int64 `json:"shares"`
	Clicks      *int64 `json:"clicks"`
}
