package dashboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labadmin-service/internal/upstream"
)

func fixedNow() time.Time {
	return time.Date(2024, 6, 15, 10, 30, 0, 0, time.Local)
}

func testService() *DashboardService {
	return &DashboardService{now: fixedNow}
}

func orderOn(daysAgo int, status, testType string) upstream.TestOrder {
	return upstream.TestOrder{
		Status:    status,
		TestType:  testType,
		CreatedAt: fixedNow().AddDate(0, 0, -daysAgo),
	}
}

func TestBucketDailyCoversSevenDays(t *testing.T) {
	s := testService()
	stats := s.bucketDaily(nil)

	require.Len(t, stats, 7)
	assert.Equal(t, "2024-06-09", stats[0].Date)
	assert.Equal(t, "2024-06-15", stats[6].Date)
	for _, st := range stats {
		assert.Zero(t, st.Total)
	}
}

func TestBucketDailyCountsStatuses(t *testing.T) {
	s := testService()
	orders := []upstream.TestOrder{
		orderOn(0, upstream.OrderStatusCompleted, "CBC"),
		orderOn(0, upstream.OrderStatusReviewedAI, "CBC"),
		orderOn(0, upstream.OrderStatusPending, "CBC"),
		orderOn(2, upstream.OrderStatusInProgress, "CBC"),
		// outside the window, must be ignored
		orderOn(10, upstream.OrderStatusCompleted, "CBC"),
	}

	stats := s.bucketDaily(orders)

	today := stats[6]
	assert.Equal(t, 3, today.Total)
	assert.Equal(t, 2, today.Completed)
	assert.Equal(t, 1, today.Pending)

	twoDaysAgo := stats[4]
	assert.Equal(t, 1, twoDaysAgo.Total)
	assert.Equal(t, 1, twoDaysAgo.Pending)
}

func TestBucketWeeklyAssignsBuckets(t *testing.T) {
	s := testService()
	orders := []upstream.TestOrder{
		orderOn(0, upstream.OrderStatusCompleted, "CBC"),  // week 4
		orderOn(6, upstream.OrderStatusPending, "CBC"),    // week 4
		orderOn(7, upstream.OrderStatusCompleted, "CBC"),  // week 3
		orderOn(27, upstream.OrderStatusPending, "CBC"),   // week 1
		orderOn(28, upstream.OrderStatusCompleted, "CBC"), // out of range
	}

	stats := s.bucketWeekly(orders)

	require.Len(t, stats, 4)
	assert.Equal(t, 1, stats[0].Orders)
	assert.Equal(t, 0, stats[1].Orders)
	assert.Equal(t, 1, stats[2].Orders)
	assert.Equal(t, 2, stats[3].Orders)
	assert.Equal(t, 1, stats[3].Completed)
}

func TestBucketTrendSeries(t *testing.T) {
	s := testService()
	orders := []upstream.TestOrder{
		orderOn(0, upstream.OrderStatusCompleted, "CBC"),
		orderOn(0, upstream.OrderStatusPending, "CBC"),
		orderOn(29, upstream.OrderStatusCompleted, "CBC"),
		orderOn(30, upstream.OrderStatusCompleted, "CBC"), // out of range
	}
	records := []upstream.MedicalRecord{
		{CreatedAt: fixedNow()},
		{CreatedAt: fixedNow().AddDate(0, 0, -29)},
		{CreatedAt: fixedNow().AddDate(0, 0, -31)},
	}

	points := s.bucketTrend(orders, records)

	require.Len(t, points, 30)
	last := points[29]
	assert.Equal(t, 2, last.Tests)
	assert.Equal(t, 1, last.Results)
	assert.Equal(t, 1, last.Patients)

	first := points[0]
	assert.Equal(t, 1, first.Tests)
	assert.Equal(t, 1, first.Results)
	assert.Equal(t, 1, first.Patients)
}

func TestBucketTestTypes(t *testing.T) {
	orders := []upstream.TestOrder{
		{TestType: "CBC"},
		{TestType: "Complete Blood Count (CBC)"},
		{TestType: "Lipid Panel"},
		{TestType: "Basic Metabolic Panel"},
		{TestType: "Thyroid Function Test"},
		{TestType: "Urinalysis"},
	}

	buckets := bucketTestTypes(orders)

	require.Len(t, buckets, 5)
	assert.Equal(t, 2, buckets[0].Count) // CBC
	assert.Equal(t, 1, buckets[1].Count) // Lipid Panel
	assert.Equal(t, 1, buckets[2].Count) // Metabolic Panel
	assert.Equal(t, 1, buckets[3].Count) // Thyroid Test
	assert.Equal(t, 1, buckets[4].Count) // Other
}
