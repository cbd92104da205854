package service

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"garagy/internal/auth"
	"garagy/internal/db"
	"garagy/internal/entities"
	apperrors "garagy/internal/errors"
	"garagy/internal/repository"
	"garagy/internal/utils"
)

type AdminAuthService interface {
	Login(ctx context.Context, req entities.LoginRequest) (entities.LoginResponse, error)
	// Register creates an admin together with the garage they manage.
	Register(ctx context.Context, req entities.RegisterRequest) (*db.Admin, error)
	IssueToken(admin *db.Admin) (entities.LoginResponse, error)
}

type adminAuthService struct {
	repo    repository.AdminAuthRepository
	garages *repository.GarageRepository
	tokens  *auth.TokenManager
	logger  *log.Logger
}

func NewAdminAuthService(repo repository.AdminAuthRepository, garages *repository.GarageRepository, tokens *auth.TokenManager, logger *log.Logger) AdminAuthService {
	return &adminAuthService{repo: repo, garages: garages, tokens: tokens, logger: logger}
}

func invalidCredentials() error {
	return apperrors.New(apperrors.CodeUnauthorized, "invalid credentials")
}

func (s *adminAuthService) Login(ctx context.Context, req entities.LoginRequest) (entities.LoginResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return entities.LoginResponse{}, err
	}
	admin, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		return entities.LoginResponse{}, err
	}
	if admin == nil {
		return entities.LoginResponse{}, invalidCredentials()
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		return entities.LoginResponse{}, invalidCredentials()
	}
	if admin.GarageID == "" {
		return entities.LoginResponse{}, apperrors.New(apperrors.CodeUnauthorized, "admin is not linked to a garage")
	}
	return s.IssueToken(admin)
}

func (s *adminAuthService) Register(ctx context.Context, req entities.RegisterRequest) (*db.Admin, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}
	garageID := uuid.NewString()
	if err := s.garages.CreateGarage(ctx, garageID, req.GarageName); err != nil {
		return nil, err
	}
	admin, err := s.repo.CreateNewUser(ctx, req.Email, req.Password, garageID)
	if err != nil {
		if derr := s.garages.DeleteGarage(ctx, garageID); derr != nil {
			s.logger.Error("failed to remove garage of a failed registration", "garage", garageID, "err", derr)
		}
		return nil, err
	}
	s.logger.Info("admin registered", "admin", admin.ID, "garage", garageID)
	return admin, nil
}

func (s *adminAuthService) IssueToken(admin *db.Admin) (entities.LoginResponse, error) {
	token, err := s.tokens.Issue(auth.Identity{AdminID: admin.ID, Email: admin.Email, GarageID: admin.GarageID})
	if err != nil {
		return entities.LoginResponse{}, err
	}
	return entities.LoginResponse{Token: token, GarageID: admin.GarageID}, nil
}
