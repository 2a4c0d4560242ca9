package dto

// DashboardStatsResponse is the admin aggregate view. Cached in Redis with a
// short TTL; the mutation pipeline's invalidation signal evicts it.
type DashboardStatsResponse struct {
	TotalStudents     int64            `json:"totalStudents"`
	TotalApplications int64            `json:"totalApplications"`
	CountsByStatus    map[string]int64 `json:"countsByStatus"`
	OfferCount        int64            `json:"offerCount"`
	OfferRate         float64          `json:"offerRate"` // offers / applications, 0 when empty
	ResumeReady       int64            `json:"resumeReady"`
	WorkHistoryReady  int64            `json:"workHistoryReady"`
	PortfolioReady    int64            `json:"portfolioReady"`
}
