package handlers

import (
	"context"

	"github.com/rogerio-castellano/safekart/internal/auth"
	"github.com/rogerio-castellano/safekart/internal/events"
	"github.com/rogerio-castellano/safekart/internal/http/ban"
	"github.com/rogerio-castellano/safekart/internal/qr"
	repo "github.com/rogerio-castellano/safekart/internal/repo"
	"github.com/rogerio-castellano/safekart/internal/verify"
	"go.uber.org/zap"
)

var (
	productRepo      repo.ProductRepository
	customerRepo     repo.CustomerRepository
	verificationRepo repo.VerificationRepository
	metricsRepo      repo.MetricsRepository

	verifier  *verify.Service
	qrEncoder = qr.NewEncoder()
	liveFeed  *events.Hub
	banLog    *ban.Manager

	tokenIssuer      *auth.Issuer
	adminCredentials auth.Credentials

	healthCheck = func(context.Context) error { return nil }
	logger      = zap.NewNop()
)

func SetProductRepo(r repo.ProductRepository) {
	productRepo = r
}

func SetCustomerRepo(r repo.CustomerRepository) {
	customerRepo = r
}

func SetVerificationRepo(r repo.VerificationRepository) {
	verificationRepo = r
}

func SetMetricsRepo(r repo.MetricsRepository) {
	metricsRepo = r
}

func SetVerifier(s *verify.Service) {
	verifier = s
}

func SetQREncoder(e qr.Encoder) {
	qrEncoder = e
}

func SetLiveFeed(h *events.Hub) {
	liveFeed = h
}

func SetBanManager(m *ban.Manager) {
	banLog = m
}

// SetAdminAuth configures admin login. A nil issuer disables it.
func SetAdminAuth(issuer *auth.Issuer, creds auth.Credentials) {
	tokenIssuer = issuer
	adminCredentials = creds
}

func SetHealthCheck(check func(context.Context) error) {
	healthCheck = check
}

func SetLogger(l *zap.Logger) {
	logger = l
}
