package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/project-shkedia/media-db-service/pkg/crud"
	"github.com/project-shkedia/media-db-service/pkg/models"
	"github.com/project-shkedia/media-db-service/pkg/query"
)

// UserService defines the interface for user operations.
type UserService interface {
	Create(ctx context.Context, userName string) (models.User, error)
	GetByName(ctx context.Context, userName string) (models.User, error)
	GetByID(ctx context.Context, userID string) (models.User, error)
}

type userService struct {
	engine *crud.Engine
	logger *zap.Logger
}

// NewUserService creates a new user service backed by engine.
func NewUserService(engine *crud.Engine, logger *zap.Logger) UserService {
	return &userService{
		engine: engine,
		logger: logger.Named("user-service"),
	}
}

var _ UserService = (*userService)(nil)

// Create stores a new user. User names are unique.
func (s *userService) Create(ctx context.Context, userName string) (models.User, error) {
	userName = strings.TrimSpace(userName)
	if userName == "" {
		return models.User{}, fmt.Errorf("user name is required")
	}

	user := models.NewUser(userName)
	if err := crud.InsertRecords(ctx, s.engine, models.UserView, []models.User{user}); err != nil {
		s.logger.Error("Failed to create user",
			zap.String("user_name", userName),
			zap.Error(err))
		return models.User{}, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

func (s *userService) GetByName(ctx context.Context, userName string) (models.User, error) {
	var spec query.FilterSpec
	spec.Add("user_name", userName)
	return crud.SelectOne(ctx, s.engine, models.UserView, spec)
}

func (s *userService) GetByID(ctx context.Context, userID string) (models.User, error) {
	var spec query.FilterSpec
	spec.Add("user_id", userID)
	return crud.SelectOne(ctx, s.engine, models.UserView, spec)
}
