package repo

import (
	"context"

	"github.com/rogerio-castellano/safekart/internal/models"
)

type InMemoryMetricsRepository struct {
	productRepo      ProductRepository
	customerRepo     CustomerRepository
	verificationRepo VerificationRepository
}

func NewInMemoryMetricsRepository() *InMemoryMetricsRepository {
	return &InMemoryMetricsRepository{}
}

func (i *InMemoryMetricsRepository) SetRepositories(
	productRepo ProductRepository,
	customerRepo CustomerRepository,
	verificationRepo VerificationRepository,
) {
	i.productRepo = productRepo
	i.customerRepo = customerRepo
	i.verificationRepo = verificationRepo
}

// GetDashboardMetrics implements MetricsRepository.
func (i *InMemoryMetricsRepository) GetDashboardMetrics(ctx context.Context) (Metrics, error) {
	m := Metrics{}

	var err error
	if m.TotalProducts, err = i.productRepo.Count(ctx); err != nil {
		return m, err
	}
	if m.TotalCustomers, err = i.customerRepo.Count(ctx); err != nil {
		return m, err
	}

	verifications, err := i.verificationRepo.ListWithCustomers(ctx)
	if err != nil {
		return m, err
	}
	m.TotalVerifications = len(verifications)
	for _, v := range verifications {
		if v.Status == models.StatusPass {
			m.Passed++
		}
		m.TotalScans += v.ScanCount
		m.ExpiredScans += v.ExpiredScans
	}

	m.finalize()
	return m, nil
}
