package service

import (
	"context"
	"errors"
	"net/mail"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/niklvrr/issuetracker/internal/domain"
	"github.com/niklvrr/issuetracker/internal/infrastructure/models/dto"
	"github.com/niklvrr/issuetracker/internal/infrastructure/repository"
	"github.com/niklvrr/issuetracker/internal/transport/dto/request"
	"github.com/niklvrr/issuetracker/internal/transport/dto/response"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	usernameMinLen    = 3
	usernameMaxLen    = 50
	passwordMinLen    = 8
	passwordMaxLength = 72 // bcrypt игнорирует всё после 72 байт
)

var mobileRe = regexp.MustCompile(`^[0-9]{10}$`)

type UserService struct {
	storage repository.Storage
	log     *zap.Logger
}

func NewUserService(storage repository.Storage, log *zap.Logger) *UserService {
	return &UserService{
		storage: storage,
		log:     log,
	}
}

func (s *UserService) Create(ctx context.Context, req *request.CreateUserRequest) (*response.UserResponse, error) {
	username := strings.TrimSpace(req.Username)
	if n := utf8.RuneCountInString(username); n < usernameMinLen || n > usernameMaxLen {
		return nil, invalidInput("username must be between %d and %d characters", usernameMinLen, usernameMaxLen)
	}

	addr, err := mail.ParseAddress(strings.TrimSpace(req.Email))
	if err != nil || addr.Name != "" {
		return nil, invalidInput("invalid email %q", req.Email)
	}
	if req.MobileNumber != nil && !mobileRe.MatchString(*req.MobileNumber) {
		return nil, invalidInput("mobile_number must contain exactly 10 digits")
	}
	if len(req.Password) < passwordMinLen || len(req.Password) > passwordMaxLength {
		return nil, invalidInput("password must be between %d and %d characters", passwordMinLen, passwordMaxLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, WrapError(ErrInternal, err)
	}

	// Собираем dto
	d := &dto.CreateUserDTO{
		Username:     username,
		Email:        strings.ToLower(addr.Address),
		FullName:     req.FullName,
		MobileNumber: req.MobileNumber,
		PasswordHash: string(hash),
	}

	user, err := s.storage.Stores().Users().Create(ctx, d)
	if err != nil {
		// Маппим ошибки
		if errors.Is(err, repository.ErrAlreadyExists) {
			s.log.Warn("user already registered", zap.String("username", username))
			return nil, WrapError(ErrUserExists, err)
		}
		if errors.Is(err, repository.ErrInvalidInput) {
			return nil, WrapError(ErrInvalidInput, err)
		}
		s.log.Error("failed to create user", zap.String("username", username), zap.Error(err))
		return nil, WrapError(ErrInternal, err)
	}

	s.log.Info("user created", zap.Int64("user_id", user.Id))
	return newUserResponse(user), nil
}

func (s *UserService) Get(ctx context.Context, req *request.GetUserRequest) (*response.UserResponse, error) {
	user, err := s.storage.Stores().Users().GetByID(ctx, req.UserId)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, WrapError(ErrUserNotFound, err)
		}
		return nil, WrapError(ErrInternal, err)
	}
	return newUserResponse(user), nil
}

func newUserResponse(u *domain.User) *response.UserResponse {
	return &response.UserResponse{
		Id:           u.Id,
		Username:     u.Username,
		Email:        u.Email,
		FullName:     u.FullName,
		MobileNumber: u.MobileNumber,
	}
}
