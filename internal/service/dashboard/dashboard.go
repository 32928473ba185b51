package dashboard

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"labadmin-service/internal/cache"
	"labadmin-service/internal/domain/dashboard"
	"labadmin-service/internal/domain/user"
	"labadmin-service/internal/upstream"
)

const (
	summaryCacheKey = cache.KeyDashboardSummary
	chartsCacheKey  = cache.KeyDashboardCharts
)

type DashboardService struct {
	users    *upstream.UserService
	labCore  *upstream.LabCore
	cache    *cache.Cache
	logger   *zap.Logger
	cacheTTL time.Duration

	// injectable for deterministic bucket tests
	now func() time.Time
}

func NewDashboardService(users *upstream.UserService, labCore *upstream.LabCore, cache *cache.Cache, logger *zap.Logger, cacheTTL time.Duration) *DashboardService {
	return &DashboardService{
		users:    users,
		labCore:  labCore,
		cache:    cache,
		logger:   logger,
		cacheTTL: cacheTTL,
		now:      time.Now,
	}
}

// Summary aggregates the headline counters from both upstreams.
func (s *DashboardService) Summary(ctx context.Context, token string) (*dashboard.Summary, error) {
	var cached dashboard.Summary
	if hit, _ := s.cache.Get(ctx, summaryCacheKey, &cached); hit {
		return &cached, nil
	}

	orders, err := s.labCore.ListTestOrders(ctx, token)
	if err != nil {
		return nil, err
	}
	records, err := s.labCore.ListMedicalRecords(ctx, token)
	if err != nil {
		return nil, err
	}
	patients, err := s.labCore.ListPatients(ctx, token)
	if err != nil {
		return nil, err
	}
	users, err := s.users.ListUsers(ctx, token, &user.ListFilters{})
	if err != nil {
		return nil, err
	}
	roles, err := s.users.ListRoles(ctx, token)
	if err != nil {
		// roles are decoration on the summary, not worth failing it
		s.logger.Warn("failed to fetch roles for dashboard", zap.Error(err))
	}

	summary := &dashboard.Summary{
		TotalPatients:   len(patients),
		TotalUsers:      len(users),
		TotalRoles:      len(roles),
		TotalTestOrders: len(orders),
		TotalRecords:    len(records),
	}
	for _, o := range orders {
		switch {
		case o.Completed():
			summary.CompletedOrders++
		case o.Pending():
			summary.PendingOrders++
		}
	}

	if err := s.cache.Set(ctx, summaryCacheKey, summary, s.cacheTTL); err != nil {
		s.logger.Warn("failed to cache dashboard summary", zap.Error(err))
	}
	return summary, nil
}

// Charts aggregates every dashboard dataset from the raw order and record
// lists.
func (s *DashboardService) Charts(ctx context.Context, token string) (*dashboard.Charts, error) {
	var cached dashboard.Charts
	if hit, _ := s.cache.Get(ctx, chartsCacheKey, &cached); hit {
		return &cached, nil
	}

	orders, err := s.labCore.ListTestOrders(ctx, token)
	if err != nil {
		return nil, err
	}
	records, err := s.labCore.ListMedicalRecords(ctx, token)
	if err != nil {
		return nil, err
	}

	charts := &dashboard.Charts{
		Daily:     s.bucketDaily(orders),
		Weekly:    s.bucketWeekly(orders),
		Trend:     s.bucketTrend(orders, records),
		TestTypes: bucketTestTypes(orders),
	}

	if err := s.cache.Set(ctx, chartsCacheKey, charts, s.cacheTTL); err != nil {
		s.logger.Warn("failed to cache dashboard charts", zap.Error(err))
	}
	return charts, nil
}

// bucketDaily builds the last-7-days chart, oldest day first, empty days
// included.
func (s *DashboardService) bucketDaily(orders []upstream.TestOrder) []dashboard.DailyOrderStat {
	today := dateOnly(s.now())
	stats := make([]dashboard.DailyOrderStat, 7)
	index := make(map[string]int, 7)
	for i := 0; i < 7; i++ {
		day := today.AddDate(0, 0, i-6)
		key := day.Format("2006-01-02")
		stats[i] = dashboard.DailyOrderStat{Date: key}
		index[key] = i
	}

	for _, o := range orders {
		key := dateOnly(o.CreatedAt).Format("2006-01-02")
		i, ok := index[key]
		if !ok {
			continue
		}
		stats[i].Total++
		switch {
		case o.Completed():
			stats[i].Completed++
		case o.Pending():
			stats[i].Pending++
		}
	}
	return stats
}

// bucketWeekly builds the trailing-4-weeks chart. Week 4 is the most recent
// seven days.
func (s *DashboardService) bucketWeekly(orders []upstream.TestOrder) []dashboard.WeeklyStat {
	today := dateOnly(s.now())
	stats := []dashboard.WeeklyStat{
		{Week: "Week 1"}, {Week: "Week 2"}, {Week: "Week 3"}, {Week: "Week 4"},
	}
	start := today.AddDate(0, 0, -27)

	for _, o := range orders {
		days := int(dateOnly(o.CreatedAt).Sub(start).Hours() / 24)
		if days < 0 || days > 27 {
			continue
		}
		i := days / 7
		stats[i].Orders++
		if o.Completed() {
			stats[i].Completed++
		}
	}
	return stats
}

// bucketTrend builds the 30-day activity line: new medical records as the
// patient series, orders as tests, completed orders as results.
func (s *DashboardService) bucketTrend(orders []upstream.TestOrder, records []upstream.MedicalRecord) []dashboard.TrendPoint {
	today := dateOnly(s.now())
	points := make([]dashboard.TrendPoint, 30)
	index := make(map[string]int, 30)
	for i := 0; i < 30; i++ {
		day := today.AddDate(0, 0, i-29)
		key := day.Format("2006-01-02")
		points[i] = dashboard.TrendPoint{Date: key}
		index[key] = i
	}

	for _, o := range orders {
		if i, ok := index[dateOnly(o.CreatedAt).Format("2006-01-02")]; ok {
			points[i].Tests++
			if o.Completed() {
				points[i].Results++
			}
		}
	}
	for _, r := range records {
		if i, ok := index[dateOnly(r.CreatedAt).Format("2006-01-02")]; ok {
			points[i].Patients++
		}
	}
	return points
}

// bucketTestTypes folds raw test-type strings into the fixed display buckets.
func bucketTestTypes(orders []upstream.TestOrder) []dashboard.TestTypeCount {
	buckets := []dashboard.TestTypeCount{
		{Name: "CBC"}, {Name: "Lipid Panel"}, {Name: "Metabolic Panel"},
		{Name: "Thyroid Test"}, {Name: "Other"},
	}
	for _, o := range orders {
		buckets[testTypeBucket(o.TestType)].Count++
	}
	return buckets
}

func testTypeBucket(testType string) int {
	t := strings.ToLower(testType)
	switch {
	case strings.Contains(t, "cbc") || strings.Contains(t, "blood count"):
		return 0
	case strings.Contains(t, "lipid"):
		return 1
	case strings.Contains(t, "metabolic"):
		return 2
	case strings.Contains(t, "thyroid"):
		return 3
	}
	return 4
}

func dateOnly(t time.Time) time.Time {
	t = t.Local()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
