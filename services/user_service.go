package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"myanmar-travel/models"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Claims struct {
	UserID uint   `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
	FullName string
}

type ProfileUpdate struct {
	FullName    *string
	Email       *string
	Phone       *string
	Bio         *string
	Nationality *string
	Avatar      string // base64 image, optional
}

type AuthResult struct {
	User      models.User `json:"user"`
	Token     string      `json:"token"`
	TokenType string      `json:"token_type"`
	ExpiresIn int64       `json:"expires_in"`
}

type UserService struct {
	DB        *gorm.DB
	secret    []byte
	ttl       time.Duration
	UploadDir string
}

func NewUserService(db *gorm.DB, secret string, ttl time.Duration) *UserService {
	if ttl <= 0 {
		ttl = 72 * time.Hour
	}
	return &UserService{DB: db, secret: []byte(secret), ttl: ttl, UploadDir: "uploads"}
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (AuthResult, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Username == "" || in.Email == "" || in.Password == "" {
		return AuthResult{}, fmt.Errorf("%w: username, email and password are required", ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return AuthResult{}, fmt.Errorf("%w: invalid email", ErrInvalidInput)
	}
	if len(in.Password) < 8 {
		return AuthResult{}, fmt.Errorf("%w: password must be at least 8 characters", ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return AuthResult{}, fmt.Errorf("hash password: %w", err)
	}
	user := models.User{
		Username: in.Username,
		Email:    in.Email,
		Password: string(hash),
		FullName: strings.TrimSpace(in.FullName),
		Role:     models.RoleUser,
	}
	if err := s.DB.WithContext(ctx).Create(&user).Error; err != nil {
		if IsDuplicateKey(err) {
			return AuthResult{}, fmt.Errorf("%w: username or email already registered", ErrDuplicate)
		}
		return AuthResult{}, fmt.Errorf("create user: %w", err)
	}
	return s.issue(user)
}

// Login accepts either the username or the email as identifier.
func (s *UserService) Login(ctx context.Context, identifier, password string) (AuthResult, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return AuthResult{}, ErrInvalidCredential
	}
	var user models.User
	err := s.DB.WithContext(ctx).
		Where("username = ? OR email = ?", identifier, strings.ToLower(identifier)).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return AuthResult{}, ErrInvalidCredential
	}
	if err != nil {
		return AuthResult{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return AuthResult{}, ErrInvalidCredential
	}
	return s.issue(user)
}

func (s *UserService) issue(user models.User) (AuthResult, error) {
	token, err := s.Sign(user)
	if err != nil {
		return AuthResult{}, err
	}
	return AuthResult{User: user, Token: token, TokenType: "Bearer", ExpiresIn: int64(s.ttl.Seconds())}, nil
}

func (s *UserService) Sign(user models.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// ParseToken validates an HS256 access token.
func (s *UserService) ParseToken(token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(_ *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.UserID == 0 {
		return nil, errors.New("token invalid")
	}
	return claims, nil
}

// Authorize parses a token and reloads the role from the user row, so
// role changes and deleted accounts take effect before the token expires.
func (s *UserService) Authorize(ctx context.Context, token string) (*Claims, error) {
	claims, err := s.ParseToken(token)
	if err != nil {
		return nil, err
	}
	var user models.User
	if err := s.DB.WithContext(ctx).Select("id", "role").First(&user, claims.UserID).Error; err != nil {
		return nil, fmt.Errorf("token user: %w", notFound(err))
	}
	claims.Role = user.Role
	return claims, nil
}

func (s *UserService) Get(ctx context.Context, id uint) (models.User, error) {
	var user models.User
	err := s.DB.WithContext(ctx).First(&user, id).Error
	return user, notFound(err)
}

func (s *UserService) UpdateProfile(ctx context.Context, id uint, in ProfileUpdate) (models.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return user, err
	}
	updates := map[string]any{}
	set := func(col string, v *string) {
		if v != nil {
			updates[col] = strings.TrimSpace(*v)
		}
	}
	set("full_name", in.FullName)
	set("phone", in.Phone)
	set("bio", in.Bio)
	set("nationality", in.Nationality)
	if in.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*in.Email))
		if _, err := mail.ParseAddress(email); err != nil {
			return user, fmt.Errorf("%w: invalid email", ErrInvalidInput)
		}
		updates["email"] = email
	}
	if in.Avatar != "" {
		path, err := SaveBase64Image(s.UploadDir, "avatars", in.Avatar)
		if err != nil {
			return user, err
		}
		updates["profile_picture"] = path
	}
	if len(updates) == 0 {
		return user, nil
	}
	if err := s.DB.WithContext(ctx).Model(&user).Updates(updates).Error; err != nil {
		if IsDuplicateKey(err) {
			return user, fmt.Errorf("%w: email already registered", ErrDuplicate)
		}
		return user, fmt.Errorf("update profile: %w", err)
	}
	return s.Get(ctx, id)
}

func (s *UserService) ChangePassword(ctx context.Context, id uint, current, next string) error {
	user, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(current)) != nil {
		return ErrInvalidCredential
	}
	if len(next) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", ErrInvalidInput)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.DB.WithContext(ctx).Model(&user).Update("password", string(hash)).Error
}

func (s *UserService) List(ctx context.Context, q string) ([]models.User, error) {
	tx := s.DB.WithContext(ctx)
	if q = strings.TrimSpace(q); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		tx = tx.Where("LOWER(username) LIKE ? OR LOWER(email) LIKE ? OR LOWER(full_name) LIKE ?", like, like, like)
	}
	var users []models.User
	err := tx.Order("id ASC").Find(&users).Error
	return users, err
}

// SetRole changes a user's role. The last admin cannot be demoted.
func (s *UserService) SetRole(ctx context.Context, id uint, role string) (models.User, error) {
	if role != models.RoleUser && role != models.RoleAdmin {
		return models.User{}, fmt.Errorf("%w: role must be user or admin", ErrInvalidInput)
	}
	var user models.User
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, id).Error; err != nil {
			return notFound(err)
		}
		if user.Role == models.RoleAdmin && role == models.RoleUser {
			var admins int64
			if err := tx.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&admins).Error; err != nil {
				return err
			}
			if admins <= 1 {
				return fmt.Errorf("%w: cannot demote the last admin", ErrForbidden)
			}
		}
		user.Role = role
		return tx.Model(&user).Update("role", role).Error
	})
	return user, err
}
