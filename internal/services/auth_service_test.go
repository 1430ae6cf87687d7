package services_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/AahilGazali/cloud-drive-backend/internal/apperrors"
	"github.com/AahilGazali/cloud-drive-backend/internal/config"
	"github.com/AahilGazali/cloud-drive-backend/internal/repositories"
	"github.com/AahilGazali/cloud-drive-backend/internal/services"
	"github.com/golang-jwt/jwt/v5"
	"github.com/pquerna/otp/totp"
	"gorm.io/gorm"
)

func newAuthTestConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Secret:            "test-secret-key-minimum-32-characters-long",
			AccessTokenExpiry: "7d",
		},
		TOTP: config.TOTPConfig{
			Issuer: "CloudDriveTest",
			Period: 30,
			Digits: 6,
		},
	}
}

func newTestAuthService(t *testing.T) (*gorm.DB, *services.AuthService) {
	t.Helper()
	db := newTestDB(t)
	svc := services.NewAuthService(
		repositories.NewUserRepository(db),
		repositories.NewLoginSessionRepository(db),
		newAuthTestConfig(),
	)
	return db, svc
}

func TestAuthService_Register_And_Login(t *testing.T) {
	_, svc := newTestAuthService(t)

	user, err := svc.Register("Alice", "alice@example.com", "password123")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if user.PasswordHash == "password123" {
		t.Errorf("password must be hashed")
	}

	got, totpRequired, err := svc.Login("alice@example.com", "password123")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("expected user %s, got %s", user.ID, got.ID)
	}
	if totpRequired {
		t.Errorf("expected totpRequired = false")
	}
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	_, svc := newTestAuthService(t)

	if _, err := svc.Register("Alice", "alice@example.com", "password123"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	_, err := svc.Register("Other", "alice@example.com", "password456")
	if !errors.Is(err, services.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthService_Register_ShortPassword(t *testing.T) {
	_, svc := newTestAuthService(t)

	_, err := svc.Register("Alice", "alice@example.com", "short")
	if apperrors.KindOf(err) != apperrors.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAuthService_Login_InvalidPassword(t *testing.T) {
	_, svc := newTestAuthService(t)

	if _, err := svc.Register("Alice", "alice@example.com", "password123"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	_, _, err := svc.Login("alice@example.com", "wrong-password")
	if !errors.Is(err, services.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	_, svc := newTestAuthService(t)

	_, _, err := svc.Login("nobody@example.com", "password123")
	if !errors.Is(err, services.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_GenerateAccessToken_Claims(t *testing.T) {
	_, svc := newTestAuthService(t)

	user, err := svc.Register("Alice", "alice@example.com", "password123")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	tokenStr, err := svc.GenerateAccessToken(user)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	claims := &services.TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("test-secret-key-minimum-32-characters-long"), nil
	})
	if err != nil || !token.Valid {
		t.Fatalf("expected valid token, got %v", err)
	}
	if claims.UserID != user.ID.String() {
		t.Errorf("expected sub %s, got %s", user.ID, claims.UserID)
	}
	if claims.Email != "alice@example.com" {
		t.Errorf("expected email claim, got %s", claims.Email)
	}
	if claims.ExpiresAt == nil || time.Until(claims.ExpiresAt.Time) < 6*24*time.Hour {
		t.Errorf("expected ~7d expiry, got %v", claims.ExpiresAt)
	}
}

func TestAuthService_TOTP_FullLoginFlow(t *testing.T) {
	_, svc := newTestAuthService(t)

	user, err := svc.Register("Alice", "alice@example.com", "password123")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	setup, err := svc.SetupTOTP(user.ID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.HasPrefix(setup.QRCode, "data:image/png;base64,") {
		t.Errorf("expected QR data URL, got %.40s", setup.QRCode)
	}

	code, err := totp.GenerateCode(setup.Secret, time.Now())
	if err != nil {
		t.Fatalf("failed to generate code: %v", err)
	}
	if err := svc.VerifyTOTP(user.ID, code); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	// Password step now demands the second factor.
	_, totpRequired, err := svc.Login("alice@example.com", "password123")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !totpRequired {
		t.Fatalf("expected totpRequired = true")
	}

	sessionID, err := svc.CreateLoginSession(user.ID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	code, _ = totp.GenerateCode(setup.Secret, time.Now())
	got, err := svc.LoginWithTOTPSession(sessionID, code)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("expected user %s, got %s", user.ID, got.ID)
	}

	// The session is single use.
	code, _ = totp.GenerateCode(setup.Secret, time.Now())
	_, err = svc.LoginWithTOTPSession(sessionID, code)
	if !errors.Is(err, services.ErrLoginSessionExpired) {
		t.Fatalf("expected ErrLoginSessionExpired on reuse, got %v", err)
	}
}

func TestAuthService_TOTP_WrongCode(t *testing.T) {
	_, svc := newTestAuthService(t)

	user, err := svc.Register("Alice", "alice@example.com", "password123")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	setup, err := svc.SetupTOTP(user.ID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	code, _ := totp.GenerateCode(setup.Secret, time.Now())
	if err := svc.VerifyTOTP(user.ID, code); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	sessionID, err := svc.CreateLoginSession(user.ID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	_, err = svc.LoginWithTOTPSession(sessionID, "000000")
	if !errors.Is(err, services.ErrInvalidTOTPCode) {
		t.Fatalf("expected ErrInvalidTOTPCode, got %v", err)
	}
}

func TestAuthService_ChangePassword(t *testing.T) {
	_, svc := newTestAuthService(t)

	user, err := svc.Register("Alice", "alice@example.com", "password123")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if err := svc.ChangePassword(user.ID, "password123", "", "newpassword456"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, _, err := svc.Login("alice@example.com", "newpassword456"); err != nil {
		t.Fatalf("expected login with new password, got %v", err)
	}
	if _, _, err := svc.Login("alice@example.com", "password123"); !errors.Is(err, services.ErrInvalidCredentials) {
		t.Fatalf("expected old password rejected, got %v", err)
	}
}

func TestAuthService_ChangePassword_WrongOldPassword(t *testing.T) {
	_, svc := newTestAuthService(t)

	user, err := svc.Register("Alice", "alice@example.com", "password123")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	err = svc.ChangePassword(user.ID, "wrong", "", "newpassword456")
	if !errors.Is(err, services.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}
