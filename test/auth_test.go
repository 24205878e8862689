package test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"project-tracker/internal/config"
	"project-tracker/internal/repository"
)

func TestRegisterAndLogin(t *testing.T) {
	app := CreateTestApp()

	email := fmt.Sprintf("reg_%d@example.com", time.Now().UnixNano())
	body, _ := json.Marshal(map[string]string{
		"name":     "Registered User",
		"email":    email,
		"password": testPassword,
	})
	req := httptest.NewRequest("POST", "/api/v1/auth/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Errorf("Expected status 201, got %d", resp.StatusCode)
	}

	// Same email again is a conflict
	req = httptest.NewRequest("POST", "/api/v1/auth/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp2, err := app.Test(req)
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	defer resp2.Body.Close()
	if resp2.StatusCode != http.StatusConflict {
		t.Errorf("Expected status 409 for duplicate email, got %d", resp2.StatusCode)
	}

	token := login(t, app, email)
	if token == "" {
		t.Errorf("Expected token from login")
	}
}

func TestAdminBootstrap(t *testing.T) {
	repository.CreateAdminUser(config.DB)

	var isAdmin bool
	var hashed string
	err := config.DB.QueryRow(
		"SELECT is_global_admin, password FROM users WHERE email = $1", "admin@mail.com",
	).Scan(&isAdmin, &hashed)
	if err != nil {
		t.Fatalf("Admin user not found: %v", err)
	}
	if !isAdmin {
		t.Errorf("Expected admin user to be a global admin")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte("admin")); err != nil {
		t.Errorf("Expected admin password to match: %v", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	app := CreateTestApp()
	_, email := createUser(t, "wrongpass")

	body, _ := json.Marshal(map[string]string{"email": email, "password": "not-the-password"})
	req := httptest.NewRequest("POST", "/api/v1/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", resp.StatusCode)
	}
}

func TestProtectedRouteRequiresToken(t *testing.T) {
	app := CreateTestApp()

	req := httptest.NewRequest("GET", "/api/v1/daily/step1/pending", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Request error: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("Expected status 401 without token, got %d", resp.StatusCode)
	}
}
