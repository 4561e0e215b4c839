package handlers_test_suite

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/rogerio-castellano/safekart/internal/auth"
	"github.com/rogerio-castellano/safekart/internal/events"
	"github.com/rogerio-castellano/safekart/internal/http/ban"
	handler "github.com/rogerio-castellano/safekart/internal/http/handlers"
	rl "github.com/rogerio-castellano/safekart/internal/http/rate_limiter"
	"github.com/rogerio-castellano/safekart/internal/http/router"
	"github.com/rogerio-castellano/safekart/internal/qr"
	"github.com/rogerio-castellano/safekart/internal/repo"
	"github.com/rogerio-castellano/safekart/internal/verify"
	"golang.org/x/crypto/bcrypt"
)

const (
	adminPassword = "secret"
	scanLimit     = 3
	greenTea      = "8901234567890"
)

var (
	token            string
	issuer           *auth.Issuer
	adminCreds       auth.Credentials
	productRepo      *repo.InMemoryProductRepository
	customerRepo     *repo.InMemoryCustomerRepository
	verificationRepo *repo.InMemoryVerificationRepository
	banStore         *ban.MemoryStore
	bans             *ban.Manager
	hub              *events.Hub
)

func init() {
	setupTestRepos(adminPassword)
	r := newRouter()

	var err error
	token, err = generateToken(r, "admin", adminPassword)
	if err != nil {
		panic(fmt.Sprintf("error generating token: %v", err))
	}
}

func setupTestRepos(password string) {
	productRepo = repo.NewInMemoryProductRepository()
	handler.SetProductRepo(productRepo)

	customerRepo = repo.NewInMemoryCustomerRepository()
	handler.SetCustomerRepo(customerRepo)

	verificationRepo = repo.NewInMemoryVerificationRepository(customerRepo)
	handler.SetVerificationRepo(verificationRepo)

	metricsRepo := repo.NewInMemoryMetricsRepository()
	metricsRepo.SetRepositories(productRepo, customerRepo, verificationRepo)
	handler.SetMetricsRepo(metricsRepo)

	hub = events.NewHub(nil)
	handler.SetLiveFeed(hub)
	handler.SetVerifier(verify.NewService(productRepo, customerRepo, verificationRepo, qr.NewEncoder(), verify.Options{
		BaseURL:   "http://localhost:3000",
		ScanLimit: scanLimit,
		Publisher: hub,
	}))

	banStore = ban.NewMemoryStore()
	bans = ban.NewManager(banStore, 2, time.Minute, nil)
	handler.SetBanManager(bans)

	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	issuer = auth.NewIssuer("test-secret", time.Minute)
	adminCreds = auth.Credentials{Username: "admin", PasswordHash: string(hash)}
	handler.SetAdminAuth(issuer, adminCreds)

	seedCatalog()
}

func newRouter() http.Handler {
	return router.NewRouter(router.Config{Issuer: issuer})
}

func seedCatalog() {
	repo.SeedCatalog(context.Background(), productRepo, repo.SampleProducts)
}

func clearAllProducts() {
	productRepo.Clear()
	seedCatalog()
}

func clearAllRecords() {
	customerRepo.Clear()
	verificationRepo.Clear()
	banStore.Clear()
}

func generateToken(r http.Handler, username, password string) (string, error) {
	w := postJSON(r, "/admin/login", handler.AdminLogin{Username: username, Password: password})

	var resp handler.LoginResult
	err := json.NewDecoder(w.Body).Decode(&resp)
	if err != nil {
		return "", fmt.Errorf("token decoding failed: %v", err)
	}
	return resp.Token, nil
}

func postJSON(r http.Handler, path string, payload any) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func get(r http.Handler, path string, withToken bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if withToken {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func purchase(r http.Handler, p handler.PurchaseRequest) *httptest.ResponseRecorder {
	return postJSON(r, "/purchase", p)
}

// purchaseGreenTea records a purchase and returns the new customer id.
func purchaseGreenTea(r http.Handler) string {
	w := purchase(r, handler.PurchaseRequest{
		CustomerName:   "Asha Verma",
		CustomerEmail:  "asha@example.com",
		CustomerMobile: "9876543210",
		ProductBarcode: greenTea,
	})
	var resp handler.PurchaseResponse
	json.NewDecoder(w.Body).Decode(&resp)
	return resp.CustomerID
}

func verifyItem(r http.Handler, v handler.VerifyRequest) *httptest.ResponseRecorder {
	return postJSON(r, "/verify", v)
}

func decodeVerify(w *httptest.ResponseRecorder) handler.VerifyResponse {
	var resp handler.VerifyResponse
	json.NewDecoder(w.Body).Decode(&resp)
	return resp
}

func scan(r http.Handler, id string) *httptest.ResponseRecorder {
	return get(r, "/scan/"+id, false)
}

func multipartCSV(csvContent string, filename string) (*bytes.Buffer, string) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, _ := writer.CreateFormFile("file", filename)
	part.Write([]byte(csvContent))

	writer.Close()
	return &buf, writer.FormDataContentType()
}

func throttledRouter(burst int) http.Handler {
	return router.NewRouter(router.Config{
		Issuer:  issuer,
		Limiter: rl.New(0.001, burst),
		Bans:    bans,
	})
}
