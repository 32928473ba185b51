package dashboard

// Summary carries the headline counters on the admin dashboard.
type Summary struct {
	TotalPatients    int `json:"total_patients"`
	TotalUsers       int `json:"total_users"`
	TotalRoles       int `json:"total_roles"`
	TotalTestOrders  int `json:"total_test_orders"`
	TotalRecords     int `json:"total_records"`
	CompletedOrders  int `json:"completed_orders"`
	PendingOrders    int `json:"pending_orders"`
}

// DailyOrderStat is one bucket of the last-7-days test-order chart.
type DailyOrderStat struct {
	Date      string `json:"date"`
	Completed int    `json:"completed"`
	Pending   int    `json:"pending"`
	Total     int    `json:"total"`
}

// WeeklyStat is one bucket of the 4-week volume chart.
type WeeklyStat struct {
	Week      string `json:"week"`
	Orders    int    `json:"orders"`
	Completed int    `json:"completed"`
}

// TrendPoint is one bucket of the 30-day activity line chart. Patients counts
// new medical records, Tests counts orders, Results counts completed orders.
type TrendPoint struct {
	Date     string `json:"date"`
	Patients int    `json:"patients"`
	Tests    int    `json:"tests"`
	Results  int    `json:"results"`
}

// TestTypeCount is one slice of the test-type distribution chart.
type TestTypeCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Charts bundles every dashboard dataset in one response.
type Charts struct {
	Daily     []DailyOrderStat `json:"daily"`
	Weekly    []WeeklyStat     `json:"weekly"`
	Trend     []TrendPoint     `json:"trend"`
	TestTypes []TestTypeCount  `json:"test_types"`
}
