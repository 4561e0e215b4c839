package handlers_integrated_test_suite

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/rogerio-castellano/safekart/internal/auth"
	"github.com/rogerio-castellano/safekart/internal/db"
	handler "github.com/rogerio-castellano/safekart/internal/http/handlers"
	"github.com/rogerio-castellano/safekart/internal/http/router"
	"github.com/rogerio-castellano/safekart/internal/qr"
	"github.com/rogerio-castellano/safekart/internal/repo"
	"github.com/rogerio-castellano/safekart/internal/verify"
	"golang.org/x/crypto/bcrypt"
)

const (
	adminPassword = "secret"
	greenTea      = "8901234567890"
)

var (
	setupOnce sync.Once
	setupErr  error

	database *sql.DB
	issuer   *auth.Issuer
	token    string
)

// setup connects to DATABASE_URL once for the whole package and skips the
// calling test when no database is configured.
func setup(t *testing.T) http.Handler {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set, skipping integrated tests")
	}

	setupOnce.Do(func() { setupErr = setupTestRepos(dsn) })
	if setupErr != nil {
		t.Fatalf("could not set up integrated suite: %v", setupErr)
	}

	r := router.NewRouter(router.Config{Issuer: issuer})
	if token == "" {
		var err error
		if token, err = generateToken(r, "admin", adminPassword); err != nil {
			t.Fatalf("error generating token: %v", err)
		}
	}
	return r
}

func setupTestRepos(dsn string) error {
	var err error
	database, err = db.Connect(dsn)
	if err != nil {
		return fmt.Errorf("could not connect to database: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.Migrate(ctx, database); err != nil {
		return err
	}

	products := repo.NewPostgresProductRepository(database)
	customers := repo.NewPostgresCustomerRepository(database)
	verifications := repo.NewPostgresVerificationRepository(database)

	handler.SetProductRepo(products)
	handler.SetCustomerRepo(customers)
	handler.SetVerificationRepo(verifications)
	handler.SetMetricsRepo(repo.NewPostgresMetricsRepository(database))
	handler.SetVerifier(verify.NewService(products, customers, verifications, qr.NewEncoder(), verify.Options{
		BaseURL:   "http://localhost:3000",
		ScanLimit: 3,
	}))
	handler.SetHealthCheck(database.PingContext)

	hash, _ := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.MinCost)
	issuer = auth.NewIssuer("integration-secret", time.Minute)
	handler.SetAdminAuth(issuer, auth.Credentials{Username: "admin", PasswordHash: string(hash)})

	clearAll()
	_, err = repo.SeedCatalog(ctx, products, repo.SampleProducts)
	return err
}

func clearAll() {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	_, err := database.ExecContext(ctx, "TRUNCATE TABLE verifications, customers, products CASCADE")
	if err != nil {
		fmt.Println(fmt.Errorf("failed to truncate tables: %w", err))
	}
}

func clearRecords() {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	_, err := database.ExecContext(ctx, "TRUNCATE TABLE verifications, customers CASCADE")
	if err != nil {
		fmt.Println(fmt.Errorf("failed to truncate records: %w", err))
	}
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
