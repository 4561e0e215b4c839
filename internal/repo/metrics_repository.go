package repo

import (
	"context"
	"math"
)

// Metrics summarises the verification activity for the admin dashboard.
type Metrics struct {
	TotalProducts      int     `json:"totalProducts"`
	TotalCustomers     int     `json:"totalCustomers"`
	TotalVerifications int     `json:"totalVerifications"`
	Passed             int     `json:"passed"`
	Failed             int     `json:"failed"`
	SuccessRate        float64 `json:"successRate"` // percent, one decimal
	TotalScans         int     `json:"totalScans"`
	ExpiredScans       int     `json:"expiredScans"`
}

type MetricsRepository interface {
	GetDashboardMetrics(ctx context.Context) (Metrics, error)
}

func (m *Metrics) finalize() {
	m.Failed = m.TotalVerifications - m.Passed
	if m.TotalVerifications > 0 {
		m.SuccessRate = math.Round(float64(m.Passed)/float64(m.TotalVerifications)*1000) / 10
	}
}
