package services

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image/png"
	"time"

	"github.com/AahilGazali/cloud-drive-backend/internal/apperrors"
	"github.com/AahilGazali/cloud-drive-backend/internal/config"
	"github.com/AahilGazali/cloud-drive-backend/internal/models"
	"github.com/AahilGazali/cloud-drive-backend/internal/repositories"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrUserExists           = errors.New("user already exists")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrTOTPNotEnabled       = errors.New("totp not enabled")
	ErrInvalidTOTPCode      = errors.New("invalid totp code")
	ErrTOTPSecretNotCreated = errors.New("totp secret not created")
	ErrLoginSessionExpired  = errors.New("login session expired")
)

type TokenClaims struct {
	UserID      string          `json:"sub"`
	Email       string          `json:"email"`
	Name        string          `json:"name"`
	Role        models.UserRole `json:"role"`
	TOTPEnabled bool            `json:"totpEnabled"`
	jwt.RegisteredClaims
}

type AuthService struct {
	userRepo             repositories.UserRepository
	loginSessionRepo     repositories.LoginSessionRepository
	cfg                  *config.Config
	loginSessionTTL      time.Duration
	maxTOTPFailedAttempt int
}

type TOTPSetup struct {
	Secret string
	QRCode string
}

func NewAuthService(userRepo repositories.UserRepository, loginSessionRepo repositories.LoginSessionRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		userRepo:             userRepo,
		loginSessionRepo:     loginSessionRepo,
		cfg:                  cfg,
		loginSessionTTL:      5 * time.Minute,
		maxTOTPFailedAttempt: 5,
	}
}

func (s *AuthService) Register(name, email, password string) (*models.User, error) {
	if err := validation.Validate(email, validation.Required, is.EmailFormat); err != nil {
		return nil, apperrors.Validation("invalid email address")
	}
	if err := validation.Validate(name, validation.Required, validation.Length(1, 100)); err != nil {
		return nil, apperrors.Validation("invalid display name")
	}
	if len(password) < 8 {
		return nil, apperrors.Validation("password too short, minimum 8 characters required")
	}

	emailExists, err := s.userRepo.ExistsByEmail(email)
	if err != nil {
		return nil, err
	}
	if emailExists {
		return nil, ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleUser,
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login checks credentials and reports whether a second TOTP step is
// required before a token can be issued.
func (s *AuthService) Login(email, password string) (*models.User, bool, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return nil, false, err
	}
	if user == nil {
		return nil, false, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, false, ErrInvalidCredentials
	}

	totpEnabled := user.TOTPEnabled != nil && *user.TOTPEnabled
	return user, totpEnabled, nil
}

func (s *AuthService) CreateLoginSession(userID uuid.UUID) (uuid.UUID, error) {
	session, err := s.loginSessionRepo.Create(userID, s.loginSessionTTL)
	if err != nil {
		return uuid.Nil, err
	}
	return session.ID, nil
}

// LoginWithTOTPSession completes a two-step login. The session is single-use
// and failed codes are counted against it.
func (s *AuthService) LoginWithTOTPSession(sessionID uuid.UUID, code string) (*models.User, error) {
	now := time.Now().UTC()
	session, err := s.loginSessionRepo.GetActiveByID(sessionID, now)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLoginSessionExpired
		}
		return nil, err
	}
	if session.FailedAttempts >= s.maxTOTPFailedAttempt {
		return nil, ErrLoginSessionExpired
	}

	user, err := s.userRepo.GetByID(session.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if user.TOTPEnabled == nil || !*user.TOTPEnabled {
		return nil, ErrTOTPNotEnabled
	}
	if user.TOTPSecret == nil {
		return nil, ErrTOTPSecretNotCreated
	}

	if !s.validateTOTP(*user.TOTPSecret, code) {
		_ = s.loginSessionRepo.IncrementFailedAttempts(session.ID)
		return nil, ErrInvalidTOTPCode
	}

	if err := s.loginSessionRepo.MarkConsumed(session.ID, now); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *AuthService) SetupTOTP(userID uuid.UUID) (*TOTPSetup, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.NotFound("user not found")
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      s.cfg.TOTP.Issuer,
		AccountName: user.Email,
		Period:      s.cfg.TOTP.Period,
		Digits:      totpDigits(s.cfg.TOTP.Digits),
	})
	if err != nil {
		return nil, err
	}

	img, err := key.Image(200, 200)
	if err != nil {
		return nil, err
	}
	var pngBuf bytes.Buffer
	if err := png.Encode(&pngBuf, img); err != nil {
		return nil, err
	}

	secret := key.Secret()
	user.TOTPSecret = &secret
	enabled := false
	user.TOTPEnabled = &enabled

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}

	return &TOTPSetup{
		Secret: secret,
		QRCode: "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBuf.Bytes()),
	}, nil
}

func (s *AuthService) VerifyTOTP(userID uuid.UUID, code string) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return apperrors.NotFound("user not found")
	}
	if user.TOTPSecret == nil {
		return ErrTOTPSecretNotCreated
	}

	if !s.validateTOTP(*user.TOTPSecret, code) {
		return ErrInvalidTOTPCode
	}

	enabled := true
	user.TOTPEnabled = &enabled
	return s.userRepo.Update(user)
}

func (s *AuthService) DisableTOTP(userID uuid.UUID, code string) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return apperrors.NotFound("user not found")
	}
	if user.TOTPEnabled == nil || !*user.TOTPEnabled {
		return ErrTOTPNotEnabled
	}
	if user.TOTPSecret == nil {
		return ErrTOTPSecretNotCreated
	}

	if !s.validateTOTP(*user.TOTPSecret, code) {
		return ErrInvalidTOTPCode
	}

	enabled := false
	user.TOTPEnabled = &enabled
	return s.userRepo.Update(user)
}

func (s *AuthService) GenerateAccessToken(user *models.User) (string, error) {
	accessTTL, err := s.cfg.JWT.GetAccessTokenExpiry()
	if err != nil {
		return "", err
	}

	now := time.Now().UTC()
	claims := TokenClaims{
		UserID:      user.ID.String(),
		Email:       user.Email,
		Name:        user.Name,
		Role:        user.Role,
		TOTPEnabled: user.TOTPEnabled != nil && *user.TOTPEnabled,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(accessTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWT.Secret))
}

func (s *AuthService) GetProfile(userID uuid.UUID) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.NotFound("user not found")
	}
	return user, nil
}

func (s *AuthService) ChangePassword(userID uuid.UUID, oldPassword, totpCode, newPassword string) error {
	if len(newPassword) < 8 {
		return apperrors.Validation("password too short, minimum 8 characters required")
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return apperrors.NotFound("user not found")
	}

	totpEnabled := user.TOTPEnabled != nil && *user.TOTPEnabled

	if totpEnabled && totpCode != "" {
		if user.TOTPSecret == nil {
			return ErrTOTPSecretNotCreated
		}
		if !s.validateTOTP(*user.TOTPSecret, totpCode) {
			return ErrInvalidTOTPCode
		}
	} else {
		if oldPassword == "" {
			return apperrors.Validation("old password is required")
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
			return ErrInvalidCredentials
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user.PasswordHash = string(hash)
	return s.userRepo.Update(user)
}

func (s *AuthService) validateTOTP(secret, code string) bool {
	valid, err := totp.ValidateCustom(
		code,
		secret,
		time.Now(),
		totp.ValidateOpts{
			Period:    s.cfg.TOTP.Period,
			Skew:      1,
			Digits:    totpDigits(s.cfg.TOTP.Digits),
			Algorithm: otp.AlgorithmSHA1,
		},
	)
	if err != nil {
		return false
	}
	return valid
}

func totpDigits(d uint) otp.Digits {
	switch d {
	case 8:
		return otp.DigitsEight
	default:
		return otp.DigitsSix
	}
}
