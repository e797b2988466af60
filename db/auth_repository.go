package db

import (
	"log"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/techagentng/opsconsole/models"
	"gorm.io/gorm"
)

type AuthRepository interface {
	CreateUser(user *models.User) (*models.User, error)
	IsEmailExist(email string) error
	FindUserByUsername(username string) (*models.User, error)
	FindUserByEmail(email string) (*models.User, error)
	FindUserByID(id uint) (*models.User, error)
	FindUserByUserKey(userKey string) (*models.User, error)
	FindUserByResetToken(token string) (*models.User, error)
	UpdateUser(user *models.User) error
	UpdatePassword(password string, email string) error
	AddToBlackList(blacklist *models.Blacklist) error
	IsTokenInBlacklist(token string) bool
	CreateAPIKey(key *models.APIKey) error
	FindAPIKeyByDigest(digest string) (*models.APIKey, error)
	ListAPIKeysByUserID(userID uint) ([]models.APIKey, error)
	RevokeAPIKey(userID, keyID uint) (bool, error)
	TouchAPIKey(keyID uint) error
}

type authRepo struct {
	DB *gorm.DB
}

func NewAuthRepo(db *GormDB) AuthRepository {
	return &authRepo{db.DB}
}

func (a *authRepo) CreateUser(user *models.User) (*models.User, error) {
	if user == nil {
		log.Println("CreateUser error: user is nil")
		return nil, errors.New("user is nil")
	}

	result := a.DB.Create(user)
	if result.Error != nil {
		log.Printf("CreateUser error: %v", result.Error)
		return nil, result.Error
	}
	return user, nil
}

func (a *authRepo) IsEmailExist(email string) error {
	var count int64
	err := a.DB.Model(&models.User{}).Where("email = ?", email).Count(&count).Error
	if err != nil {
		return errors.Wrap(err, "gorm.count error")
	}
	if count > 0 {
		return errors.New("email already in use")
	}
	return nil
}

func (a *authRepo) FindUserByUsername(username string) (*models.User, error) {
	var user models.User
	err := a.DB.Where("username = ?", username).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (a *authRepo) FindUserByEmail(email string) (*models.User, error) {
	var user models.User
	err := a.DB.Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (a *authRepo) FindUserByID(id uint) (*models.User, error) {
	var user models.User
	err := a.DB.Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, err
	}
	if user.IsBlocked {
		return nil, errors.New("user inactive")
	}
	return &user, nil
}

func (a *authRepo) FindUserByUserKey(userKey string) (*models.User, error) {
	var user models.User
	err := a.DB.Where("user_key = ?", userKey).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (a *authRepo) FindUserByResetToken(token string) (*models.User, error) {
	var user models.User
	err := a.DB.Where("reset_token = ? AND reset_token <> ''", token).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (a *authRepo) UpdateUser(user *models.User) error {
	return a.DB.Save(user).Error
}

func (a *authRepo) UpdatePassword(password string, email string) error {
	result := a.DB.Model(&models.User{}).Where("email = ?", email).
		Updates(map[string]interface{}{"hashed_password": password, "reset_token": ""})
	if result.Error != nil {
		return errors.Wrap(result.Error, "gorm.update error")
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (a *authRepo) AddToBlackList(blacklist *models.Blacklist) error {
	blacklist.Token = normalizeToken(blacklist.Token)
	return a.DB.Create(blacklist).Error
}

func (a *authRepo) IsTokenInBlacklist(token string) bool {
	var count int64
	token = normalizeToken(token)
	if err := a.DB.Model(&models.Blacklist{}).Where("token = ?", token).Count(&count).Error; err != nil {
		log.Printf("blacklist lookup error: %v", err)
		// fail closed
		return true
	}
	return count > 0
}

func normalizeToken(token string) string {
	return strings.TrimSpace(token)
}

func (a *authRepo) CreateAPIKey(key *models.APIKey) error {
	return a.DB.Create(key).Error
}

func (a *authRepo) FindAPIKeyByDigest(digest string) (*models.APIKey, error) {
	var key models.APIKey
	err := a.DB.Where("digest = ? AND revoked = ?", digest, false).First(&key).Error
	if err != nil {
		return nil, err
	}
	return &key, nil
}

func (a *authRepo) ListAPIKeysByUserID(userID uint) ([]models.APIKey, error) {
	var keys []models.APIKey
	err := a.DB.Where("user_id = ?", userID).Order("created_at asc").Find(&keys).Error
	if err != nil {
		return nil, errors.Wrap(err, "gorm.find error")
	}
	return keys, nil
}

// RevokeAPIKey marks the key revoked; false means the user owns no such key
func (a *authRepo) RevokeAPIKey(userID, keyID uint) (bool, error) {
	result := a.DB.Model(&models.APIKey{}).
		Where("id = ? AND user_id = ?", keyID, userID).
		Update("revoked", true)
	if result.Error != nil {
		return false, errors.Wrap(result.Error, "gorm.update error")
	}
	return result.RowsAffected > 0, nil
}

func (a *authRepo) TouchAPIKey(keyID uint) error {
	now := time.Now().UTC()
	return a.DB.Model(&models.APIKey{}).Where("id = ?", keyID).Update("last_used_at", &now).Error
}
