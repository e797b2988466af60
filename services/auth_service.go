package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/techagentng/opsconsole/config"
	"github.com/techagentng/opsconsole/db"
	apiError "github.com/techagentng/opsconsole/errors"
	"github.com/techagentng/opsconsole/mailingservices"
	"github.com/techagentng/opsconsole/models"
	"github.com/techagentng/opsconsole/services/jwt"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// apiKeyPrefix marks every key issued by this console
const apiKeyPrefix = "opx_"

// AuthService interface
type AuthService interface {
	SignupUser(request *models.User) (*models.User, error)
	LoginUser(loginRequest *models.LoginRequest) (*models.LoginResponse, *apiError.Error)
	GetUserProfile(userID uint) (*models.User, error)
	CreateAPIKey(userID uint, label string) (*models.APIKeyResponse, *apiError.Error)
	ListAPIKeys(userID uint) ([]models.APIKeyResponse, error)
	RevokeAPIKey(userID, keyID uint) (bool, error)
	ValidateAPIKey(rawKey string) (*models.User, *apiError.Error)
	SendEmailForPasswordReset(user *models.ForgotPassword) *apiError.Error
	ResetPassword(user *models.ResetPassword, token string) *apiError.Error
}

// authService struct
type authService struct {
	Config   *config.Config
	Mail     *mailingservices.Mailgun
	authRepo db.AuthRepository
}

// NewAuthService instantiate an authService
func NewAuthService(authRepo db.AuthRepository, mail *mailingservices.Mailgun, conf *config.Config) AuthService {
	return &authService{
		Config:   conf,
		Mail:     mail,
		authRepo: authRepo,
	}
}

func (s *authService) SignupUser(user *models.User) (*models.User, error) {
	if user == nil {
		log.Println("SignupUser error: user is nil")
		return nil, errors.New("user is nil")
	}
	if user.Email == "" {
		log.Println("SignupUser error: email is empty")
		return nil, errors.New("email is empty")
	}

	if err := s.authRepo.IsEmailExist(user.Email); err != nil {
		log.Printf("SignupUser error: %v", err)
		return nil, apiError.GetUniqueContraintError(err)
	}

	if err := models.ValidatePassword(user.Password); err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("SignupUser error hashing password: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	user.HashedPassword = string(hashedPassword)
	user.Password = ""
	user.UserKey = uuid.New().String()

	user, err = s.authRepo.CreateUser(user)
	if err != nil {
		log.Printf("SignupUser error creating user: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	return user, nil
}

// LoginUser logs in a user and returns the login response
func (a *authService) LoginUser(loginRequest *models.LoginRequest) (*models.LoginResponse, *apiError.Error) {
	foundUser, err := a.authRepo.FindUserByEmail(loginRequest.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apiError.New("invalid email or password", http.StatusUnprocessableEntity)
		}
		log.Printf("Error finding user by email: %v", err)
		return nil, apiError.New("unable to find user", http.StatusInternalServerError)
	}

	if err := foundUser.VerifyPassword(loginRequest.Password); err != nil {
		log.Printf("Invalid password for user %s", foundUser.Email)
		return nil, apiError.ErrInvalidPassword
	}

	if foundUser.IsBlocked {
		return nil, apiError.New("account is blocked", http.StatusUnauthorized)
	}

	accessToken, refreshToken, err := jwt.GenerateTokenPair(foundUser.Email, a.Config.JWTSecret, foundUser.AdminStatus, foundUser.ID, foundUser.UserKey)
	if err != nil {
		log.Printf("Error generating token pair for user %s: %v", foundUser.Email, err)
		return nil, apiError.ErrInternalServerError
	}

	return &models.LoginResponse{
		UserResponse: models.UserResponse{
			ID:       foundUser.ID,
			UserKey:  foundUser.UserKey,
			Fullname: foundUser.Fullname,
			Username: foundUser.Username,
			Email:    foundUser.Email,
			IsAdmin:  foundUser.AdminStatus,
		},
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (a *authService) GetUserProfile(userID uint) (*models.User, error) {
	user, err := a.authRepo.FindUserByID(userID)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// CreateAPIKey issues a fresh key for programmatic access. The raw secret is
// returned once; only its digest is stored.
func (a *authService) CreateAPIKey(userID uint, label string) (*models.APIKeyResponse, *apiError.Error) {
	secret, err := GenerateRandomString()
	if err != nil {
		log.Printf("CreateAPIKey error generating secret: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	rawKey := apiKeyPrefix + secret

	key := &models.APIKey{
		UserID: userID,
		Label:  label,
		Prefix: rawKey[:len(apiKeyPrefix)+4],
		Digest: digestAPIKey(rawKey),
	}
	if err := a.authRepo.CreateAPIKey(key); err != nil {
		log.Printf("CreateAPIKey error: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	return &models.APIKeyResponse{
		ID:        key.ID,
		Label:     key.Label,
		Prefix:    key.Prefix,
		Key:       rawKey,
		Revoked:   key.Revoked,
		CreatedAt: key.CreatedAt,
	}, nil
}

func (a *authService) ListAPIKeys(userID uint) ([]models.APIKeyResponse, error) {
	keys, err := a.authRepo.ListAPIKeysByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("error listing api keys: %w", err)
	}

	responses := make([]models.APIKeyResponse, 0, len(keys))
	for _, key := range keys {
		responses = append(responses, models.APIKeyResponse{
			ID:        key.ID,
			Label:     key.Label,
			Prefix:    key.Prefix,
			Revoked:   key.Revoked,
			CreatedAt: key.CreatedAt,
		})
	}
	return responses, nil
}

func (a *authService) RevokeAPIKey(userID, keyID uint) (bool, error) {
	return a.authRepo.RevokeAPIKey(userID, keyID)
}

// ValidateAPIKey resolves a raw key from the X-API-Key header to its owner
func (a *authService) ValidateAPIKey(rawKey string) (*models.User, *apiError.Error) {
	if rawKey == "" {
		return nil, apiError.ErrUnauthorized
	}

	key, err := a.authRepo.FindAPIKeyByDigest(digestAPIKey(rawKey))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apiError.ErrUnauthorized
		}
		log.Printf("ValidateAPIKey error: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	user, err := a.authRepo.FindUserByID(key.UserID)
	if err != nil {
		log.Printf("ValidateAPIKey error finding owner: %v", err)
		return nil, apiError.ErrUnauthorized
	}

	if err := a.authRepo.TouchAPIKey(key.ID); err != nil {
		log.Printf("ValidateAPIKey error touching key %d: %v", key.ID, err)
	}
	return user, nil
}

func (a *authService) SendEmailForPasswordReset(request *models.ForgotPassword) *apiError.Error {
	foundUser, err := a.authRepo.FindUserByEmail(request.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Do not reveal whether the address exists
			return nil
		}
		log.Printf("Error finding user for password reset: %v", err)
		return apiError.ErrInternalServerError
	}

	resetToken, err := GenerateRandomString()
	if err != nil {
		log.Printf("Error generating reset token: %v", err)
		return apiError.ErrInternalServerError
	}

	foundUser.ResetToken = resetToken
	if err := a.authRepo.UpdateUser(foundUser); err != nil {
		log.Printf("Error saving reset token: %v", err)
		return apiError.ErrInternalServerError
	}

	resetURL := fmt.Sprintf("%s/password/reset/%s", a.Config.BaseUrl, resetToken)
	if err := a.Mail.SendResetPasswordMail(context.Background(), foundUser.Email, resetURL); err != nil {
		log.Printf("Error sending reset mail: %v", err)
		return apiError.ErrInternalServerError
	}
	return nil
}

func (a *authService) ResetPassword(request *models.ResetPassword, token string) *apiError.Error {
	if request.Password != request.ConfirmPassword {
		return apiError.New("passwords do not match", http.StatusBadRequest)
	}
	if err := models.ValidatePassword(request.Password); err != nil {
		return apiError.New(err.Error(), http.StatusBadRequest)
	}

	foundUser, err := a.authRepo.FindUserByResetToken(token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apiError.New("invalid or expired reset token", http.StatusUnauthorized)
		}
		log.Printf("Error finding user by reset token: %v", err)
		return apiError.ErrInternalServerError
	}

	hashedPassword, err := GenerateHashPassword(request.Password)
	if err != nil {
		log.Printf("Error hashing new password: %v", err)
		return apiError.ErrInternalServerError
	}

	if err := a.authRepo.UpdatePassword(hashedPassword, foundUser.Email); err != nil {
		log.Printf("Error updating password: %v", err)
		return apiError.ErrInternalServerError
	}
	return nil
}

func GenerateHashPassword(password string) (string, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(hashedPassword), err
}

func GenerateRandomString() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func digestAPIKey(rawKey string) string {
	sum := sha256.Sum256([]byte(rawKey))
	return hex.EncodeToString(sum[:])
}
