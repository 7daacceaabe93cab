package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/maheshrc27/smartflow/internal/models"
	"github.com/maheshrc27/smartflow/internal/repository"
	"github.com/maheshrc27/smartflow/internal/transfer"
)

var hashtagPattern = regexp.MustCompile(`#\w+`)

var defaultPostingTimes = []string{"2:00 PM", "6:00 PM", "9:00 AM"}

type AnalyticsService interface {
	RecordPublished(ctx context.Context, post *models.Post) error
	Overview(ctx context.Context, tenantID, timeframe string) (*transfer.AnalyticsOverview, error)
	PlatformPerformance(ctx context.Context, tenantID, timeframe string) ([]transfer.PlatformPerformance, error)
	ContentInsights(ctx context.Context, tenantID, timeframe string) (*transfer.ContentInsight, error)
	UpdateCounters(ctx context.Context, tenantID, analyticsID string, cu *transfer.CounterUpdate) (*models.Analytics, error)
}

type analyticsService struct {
	pr  repository.PostRepository
	ar  repository.AnalyticsRepository
	now func() time.Time
}

func NewAnalyticsService(pr repository.PostRepository, ar repository.AnalyticsRepository) AnalyticsService {
	return &analyticsService{
		pr:  pr,
		ar:  ar,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// RecordPublished creates the zeroed analytics row for a freshly published post.
func (s *analyticsService) RecordPublished(ctx context.Context, post *models.Post) error {
	id, err := newID()
	if err != nil {
		return err
	}

	record := &models.Analytics{
		ID:         id,
		PostID:     post.ID,
		TenantID:   post.TenantID,
		Platform:   post.Platform,
		RecordedAt: s.now(),
	}
	if err := s.ar.Create(ctx, record); err != nil {
		return fmt.Errorf("recording analytics: %w", err)
	}
	return nil
}

func (s *analyticsService) Overview(ctx context.Context, tenantID, timeframe string) (*transfer.AnalyticsOverview, error) {
	days, err := timeframeDays(timeframe)
	if err != nil {
		return nil, err
	}
	posts, records, err := s.load(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	from := now.AddDate(0, 0, -days)
	prevFrom := from.AddDate(0, 0, -days)

	recentPosts := postsBetween(posts, from, now)
	recentRecords := recordsBetween(records, from, now)
	prevPosts := postsBetween(posts, prevFrom, from)
	prevRecords := recordsBetween(records, prevFrom, from)

	reach, engagement := totals(recentRecords)
	prevReach, prevEngagement := totals(prevRecords)

	var aiPosts, manualPosts []*models.Post
	for _, p := range recentPosts {
		if p.IsAIGenerated {
			aiPosts = append(aiPosts, p)
		} else {
			manualPosts = append(manualPosts, p)
		}
	}
	aiEngagement := engagementFor(aiPosts, recentRecords)
	manualEngagement := engagementFor(manualPosts, recentRecords)

	aiPerformance := int64(100)
	if manualEngagement > 0 {
		aiPerformance = int64(math.Round(float64(aiEngagement) / float64(manualEngagement) * 100))
	}

	topPlatform := models.PlatformInstagram
	var best int64 = -1
	for _, perf := range platformPerformance(recentPosts, recentRecords) {
		if perf.TotalEngagement > best {
			best = perf.TotalEngagement
			topPlatform = perf.Platform
		}
	}

	return &transfer.AnalyticsOverview{
		TotalPosts:           len(recentPosts),
		TotalReach:           reach,
		TotalEngagement:      engagement,
		EngagementRate:       rate(engagement, reach),
		TopPlatform:          topPlatform,
		AIContentPerformance: aiPerformance,
		RecentGrowth: transfer.Growth{
			Posts:      growth(int64(len(recentPosts)), int64(len(prevPosts))),
			Engagement: growth(engagement, prevEngagement),
			Reach:      growth(reach, prevReach),
		},
	}, nil
}

func (s *analyticsService) PlatformPerformance(ctx context.Context, tenantID, timeframe string) ([]transfer.PlatformPerformance, error) {
	days, err := timeframeDays(timeframe)
	if err != nil {
		return nil, err
	}
	posts, records, err := s.load(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	from := now.AddDate(0, 0, -days)
	return platformPerformance(postsBetween(posts, from, now), recordsBetween(records, from, now)), nil
}

func (s *analyticsService) ContentInsights(ctx context.Context, tenantID, timeframe string) (*transfer.ContentInsight, error) {
	days, err := timeframeDays(timeframe)
	if err != nil {
		return nil, err
	}
	posts, records, err := s.load(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	recentPosts := postsBetween(posts, now.AddDate(0, 0, -days), now)

	var textPosts, imagePosts, aiPosts []*models.Post
	for _, p := range recentPosts {
		if p.ImageURL == "" {
			textPosts = append(textPosts, p)
		} else {
			imagePosts = append(imagePosts, p)
		}
		if p.IsAIGenerated {
			aiPosts = append(aiPosts, p)
		}
	}

	return &transfer.ContentInsight{
		BestPostingTimes: bestPostingTimes(recentPosts, records),
		TopHashtags:      topHashtags(recentPosts, 10),
		ContentTypes: transfer.ContentTypes{
			Text:  contentTypeStats(textPosts, records),
			Image: contentTypeStats(imagePosts, records),
			AI:    contentTypeStats(aiPosts, records),
		},
	}, nil
}

func (s *analyticsService) UpdateCounters(ctx context.Context, tenantID, analyticsID string, cu *transfer.CounterUpdate) (*models.Analytics, error) {
	if cu == nil {
		return nil, fmt.Errorf("%w: nothing to update", ErrInvalidInput)
	}

	record, err := s.ar.GetByID(ctx, analyticsID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("analytics %s: %w", analyticsID, ErrNotFound)
		}
		return nil, err
	}
	if record.TenantID != tenantID {
		return nil, fmt.Errorf("analytics %s: %w", analyticsID, ErrNotFound)
	}

	fields := []struct {
		value *int64
		dst   *int64
		name  string
	}{
		{cu.Impressions, &record.Impressions, "impressions"},
		{cu.Likes, &record.Likes, "likes"},
		{cu.Comments, &record.Comments, "comments"},
		{cu.Shares, &record.Shares, "shares"},
		{cu.Clicks, &record.Clicks, "clicks"},
	}
	for _, f := range fields {
		if f.value == nil {
			continue
		}
		if *f.value < 0 {
			return nil, fmt.Errorf("%w: %s cannot be negative", ErrInvalidInput, f.name)
		}
		*f.dst = *f.value
	}
	record.EngagementRate = rate(record.Engagement(), record.Impressions)

	if err := s.ar.Update(ctx, record); err != nil {
		return nil, fmt.Errorf("updating analytics: %w", err)
	}
	return record, nil
}

func (s *analyticsService) load(ctx context.Context, tenantID string) ([]*models.Post, []*models.Analytics, error) {
	posts, err := s.pr.GetByTenant(ctx, tenantID)
	if err != nil {
		return nil, nil, fmt.Errorf("loading posts: %w", err)
	}
	records, err := s.ar.GetByTenant(ctx, tenantID)
	if err != nil {
		return nil, nil, fmt.Errorf("loading analytics: %w", err)
	}
	return posts, records, nil
}

func timeframeDays(timeframe string) (int, error) {
	switch timeframe {
	case "7d":
		return 7, nil
	case "", "30d":
		return 30, nil
	case "90d":
		return 90, nil
	}
	return 0, fmt.Errorf("%w: timeframe must be one of 7d, 30d, 90d", ErrInvalidInput)
}

func postsBetween(posts []*models.Post, from, to time.Time) []*models.Post {
	var out []*models.Post
	for _, p := range posts {
		if !p.CreatedAt.Before(from) && !p.CreatedAt.After(to) {
			out = append(out, p)
		}
	}
	return out
}

func recordsBetween(records []*models.Analytics, from, to time.Time) []*models.Analytics {
	var out []*models.Analytics
	for _, a := range records {
		if !a.RecordedAt.Before(from) && !a.RecordedAt.After(to) {
			out = append(out, a)
		}
	}
	return out
}

func totals(records []*models.Analytics) (reach, engagement int64) {
	for _, a := range records {
		reach += a.Impressions
		engagement += a.Engagement()
	}
	return reach, engagement
}

func engagementFor(posts []*models.Post, records []*models.Analytics) int64 {
	ids := make(map[string]struct{}, len(posts))
	for _, p := range posts {
		ids[p.ID] = struct{}{}
	}
	var sum int64
	for _, a := range records {
		if _, ok := ids[a.PostID]; ok {
			sum += a.Engagement()
		}
	}
	return sum
}

func rate(engagement, reach int64) float64 {
	if reach <= 0 {
		return 0
	}
	return round2(float64(engagement) / float64(reach) * 100)
}

func growth(current, previous int64) float64 {
	if previous == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	return round2(float64(current-previous) / float64(previous) * 100)
}

func platformPerformance(posts []*models.Post, records []*models.Analytics) []transfer.PlatformPerformance {
	perPost := make(map[string]int64)
	for _, a := range records {
		perPost[a.PostID] += a.Engagement()
	}

	out := []transfer.PlatformPerformance{}
	for _, platform := range models.Platforms {
		var platformPosts []*models.Post
		for _, p := range posts {
			if p.Platform == platform {
				platformPosts = append(platformPosts, p)
			}
		}
		if len(platformPosts) == 0 {
			continue
		}

		var reach, engagement int64
		for _, a := range records {
			if a.Platform == platform {
				reach += a.Impressions
				engagement += a.Engagement()
			}
		}

		perf := transfer.PlatformPerformance{
			Platform:          platform,
			Posts:             len(platformPosts),
			AvgEngagementRate: rate(engagement, reach),
			TotalReach:        reach,
			TotalEngagement:   engagement,
		}

		for _, p := range platformPosts {
			e := perPost[p.ID]
			if e > 0 && (perf.TopPost == nil || e > perf.TopPost.Engagement) {
				perf.TopPost = &transfer.TopPost{
					ID:             p.ID,
					Content:        p.Content,
					Engagement:     e,
					EngagementRate: postRate(p.ID, records),
				}
			}
		}
		out = append(out, perf)
	}
	return out
}

func postRate(postID string, records []*models.Analytics) float64 {
	var reach, engagement int64
	for _, a := range records {
		if a.PostID == postID {
			reach += a.Impressions
			engagement += a.Engagement()
		}
	}
	return rate(engagement, reach)
}

func topHashtags(posts []*models.Post, limit int) []string {
	counts := make(map[string]int)
	for _, p := range posts {
		for _, tag := range hashtagPattern.FindAllString(p.Content, -1) {
			counts[strings.ToLower(tag)]++
		}
	}

	tags := make([]string, 0, len(counts))
	for tag := range counts {
		tags = append(tags, tag)
	}
	sort.Slice(tags, func(i, j int) bool {
		if counts[tags[i]] == counts[tags[j]] {
			return tags[i] < tags[j]
		}
		return counts[tags[i]] > counts[tags[j]]
	})
	if len(tags) > limit {
		tags = tags[:limit]
	}
	return tags
}

func contentTypeStats(posts []*models.Post, records []*models.Analytics) transfer.ContentTypeStats {
	if len(posts) == 0 {
		return transfer.ContentTypeStats{}
	}
	total := engagementFor(posts, records)
	return transfer.ContentTypeStats{
		Count:         len(posts),
		AvgEngagement: int64(math.Round(float64(total) / float64(len(posts)))),
	}
}

// bestPostingTimes ranks publish hours by average engagement per published post.
func bestPostingTimes(posts []*models.Post, records []*models.Analytics) []string {
	perPost := make(map[string]int64)
	for _, a := range records {
		perPost[a.PostID] += a.Engagement()
	}

	type bucket struct {
		hour  int
		total int64
		count int64
	}
	buckets := make(map[int]*bucket)
	for _, p := range posts {
		if p.Status != models.PostStatusPublished || p.PublishedAt == nil {
			continue
		}
		h := p.PublishedAt.Hour()
		b, ok := buckets[h]
		if !ok {
			b = &bucket{hour: h}
			buckets[h] = b
		}
		b.total += perPost[p.ID]
		b.count++
	}

	ranked := make([]*bucket, 0, len(buckets))
	for _, b := range buckets {
		if b.total > 0 {
			ranked = append(ranked, b)
		}
	}
	if len(ranked) == 0 {
		return append([]string(nil), defaultPostingTimes...)
	}

	sort.Slice(ranked, func(i, j int) bool {
		ai := float64(ranked[i].total) / float64(ranked[i].count)
		aj := float64(ranked[j].total) / float64(ranked[j].count)
		if ai == aj {
			return ranked[i].hour < ranked[j].hour
		}
		return ai > aj
	})
	if len(ranked) > 3 {
		ranked = ranked[:3]
	}

	times := make([]string, 0, len(ranked))
	for _, b := range ranked {
		times = append(times, time.Date(2000, 1, 1, b.hour, 0, 0, 0, time.UTC).Format("3:04 PM"))
	}
	return times
}
