package models

import (
	"errors"
	"fmt"

	goval "github.com/go-passwd/validator"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/leebenson/conform"
	"golang.org/x/crypto/bcrypt"
)

// User represents an operator account on the console
type User struct {
	Model
	Fullname       string `json:"fullname" binding:"required,min=2" conform:"trim"`
	Username       string `json:"username" binding:"required,min=2" conform:"trim,lower"`
	Email          string `json:"email" gorm:"unique;not null" binding:"required,email" conform:"trim,lower"`
	Password       string `json:"password,omitempty" gorm:"-" validate:"omitempty,min=6"`
	HashedPassword string `json:"-"`
	IsEmailActive  bool   `json:"-"`
	IsBlocked      bool   `json:"is_blocked" gorm:"default:false"`
	AdminStatus    bool   `json:"is_admin"`
	ResetToken     string `json:"-"`
	Notifications  []Notification `json:"-" gorm:"foreignKey:UserID;references:UserKey"`
	// UserKey is the stable identifier notifications and websocket channels key on
	UserKey string `json:"user_key" gorm:"uniqueIndex;not null"`
}

type UserResponse struct {
	ID       uint   `json:"id"`
	UserKey  string `json:"user_key"`
	Fullname string `json:"fullname"`
	Username string `json:"username"`
	Email    string `json:"email"`
	IsAdmin  bool   `json:"is_admin"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	UserResponse
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type ForgotPassword struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPassword struct {
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

func ValidatePassword(password string) error {
	passwordValidator := goval.New(goval.MinLength(6, errors.New("password cant be less than 6 characters")),
		goval.MaxLength(64, errors.New("password cant be more than 64 characters")))
	err := passwordValidator.Validate(password)
	return err
}

func validateWhiteSpaces(data interface{}) error {
	return conform.Strings(data)
}

// ValidateStruct conforms string fields then validates the struct, returning
// translated field errors
func ValidateStruct(req interface{}) []error {
	validate := validator.New()
	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")
	_ = enTranslations.RegisterDefaultTranslations(validate, trans)

	if err := validateWhiteSpaces(req); err != nil {
		return []error{err}
	}

	err := validate.Struct(req)
	return translateError(err, trans)
}

func translateError(err error, trans ut.Translator) (errs []error) {
	if err == nil {
		return nil
	}
	validatorErrs := err.(validator.ValidationErrors)
	for _, e := range validatorErrs {
		translatedErr := fmt.Errorf(e.Translate(trans) + "; ")
		errs = append(errs, translatedErr)
	}
	return errs
}

// VerifyPassword verifies the collected password with the user's hashed password
func (u *User) VerifyPassword(password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(u.HashedPassword), []byte(password))
	if err != nil {
		return err
	}
	return nil
}
