package services

import (
	"context"
	"errors"
	"mime/multipart"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-hub/dto"
	"github.com/yeremiapane/restaurant-hub/models"
	"github.com/yeremiapane/restaurant-hub/repositories"
	"github.com/yeremiapane/restaurant-hub/utils"
)

const recoveredPasswordLength = 12

type RestaurantService interface {
	Register(ctx context.Context, req dto.RegisterRequest) (*models.Restaurant, error)
	Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error)
	LoginWithGoogle(ctx context.Context, code string) (*dto.AuthResponse, error)
	GoogleAuthURL(state string) string
	Logout(ctx context.Context, token string) error
	VerifyEmail(ctx context.Context, token string) (*models.Restaurant, error)
	ChangePassword(ctx context.Context, id uint, req dto.ChangePasswordRequest) error
	RecoverPassword(ctx context.Context, email string) error
	HasPassword(ctx context.Context, email string) (bool, error)
	GetByID(ctx context.Context, id uint) (*models.Restaurant, error)
	List(ctx context.Context, f dto.RestaurantFilter) ([]models.Restaurant, error)
	Update(ctx context.Context, id uint, req dto.RestaurantUpdate) (*models.Restaurant, error)
	Delete(ctx context.Context, id uint) error
	SetImage(ctx context.Context, id uint, file *multipart.FileHeader) (*models.Restaurant, error)
}

type RestaurantServiceDeps struct {
	Restaurants repositories.RestaurantRepository
	Tokens      *utils.TokenManager
	Blacklist   utils.TokenBlacklist
	Mailer      Mailer
	Images      ImageUploader
	Google      GoogleAuthenticator
	BcryptCost  int
	BackendURL  string
}

type restaurantService struct {
	RestaurantServiceDeps
}

func NewRestaurantService(deps RestaurantServiceDeps) RestaurantService {
	if deps.Blacklist == nil {
		deps.Blacklist = utils.NewMemoryBlacklist()
	}
	if deps.Mailer == nil {
		deps.Mailer = logMailer{}
	}
	return &restaurantService{RestaurantServiceDeps: deps}
}

func (s *restaurantService) Register(ctx context.Context, req dto.RegisterRequest) (*models.Restaurant, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.Restaurants.FindByEmail(ctx, req.Email); err == nil {
		return nil, utils.NewValidationError("email already registered")
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	if err := s.checkCity(ctx, req.Address.CityID); err != nil {
		return nil, err
	}

	hash, err := utils.HashPassword(req.Password, s.BcryptCost)
	if err != nil {
		return nil, err
	}

	rest := &models.Restaurant{
		Name:                req.Name,
		Email:               req.Email,
		Phone:               req.Phone,
		Description:         req.Description,
		Category:            req.Category,
		State:               models.RestaurantUnverified,
		ReservationCapacity: req.ReservationCapacity,
		Password:            &hash,
		Address:             &models.Address{Street: req.Address.Street, CityID: req.Address.CityID},
	}
	if err := s.Restaurants.Create(ctx, rest); err != nil {
		return nil, err
	}

	utils.InfoLogger.WithFields(logrus.Fields{"restaurant_id": rest.ID, "email": rest.Email}).Info("restaurant registered")
	s.sendVerification(rest)
	return rest, nil
}

func (s *restaurantService) checkCity(ctx context.Context, cityID uint) error {
	ok, err := s.Restaurants.CityExists(ctx, cityID)
	if err != nil {
		return err
	}
	if !ok {
		return utils.NewValidationError("unknown city")
	}
	return nil
}

func (s *restaurantService) sendVerification(rest *models.Restaurant) {
	token, err := s.Tokens.GenerateToken(rest.ID, rest.Email, utils.PurposeVerify)
	if err != nil {
		utils.ErrorLogger.Printf("Error generating verification token: %v", err)
		return
	}
	link := s.BackendURL + "/api/restaurant/verify-email?token=" + url.QueryEscape(token)
	if err := s.Mailer.Send(rest.Email, "Verifica tu correo", verificationEmail(rest.Name, link)); err != nil {
		utils.ErrorLogger.Printf("Error sending verification email: %v", err)
	}
}

func (s *restaurantService) session(rest *models.Restaurant) (*dto.AuthResponse, error) {
	token, err := s.Tokens.GenerateToken(rest.ID, rest.Email, utils.PurposeSession)
	if err != nil {
		return nil, err
	}
	return &dto.AuthResponse{Restaurant: rest, Token: token}, nil
}

func (s *restaurantService) Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := req.Validate(); err != nil {
		return nil, err
	}

	rest, err := s.Restaurants.FindByEmail(ctx, req.Email)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, utils.NewUnauthorizedError("invalid credentials")
	} else if err != nil {
		return nil, err
	}
	if !rest.HasPassword() {
		return nil, utils.NewUnauthorizedError("this account uses Google sign-in")
	}
	if !utils.CheckPassword(*rest.Password, req.Password) {
		return nil, utils.NewUnauthorizedError("invalid credentials")
	}
	if rest.State == models.RestaurantInactive {
		return nil, utils.NewForbiddenError("restaurant is inactive")
	}

	utils.InfoLogger.WithField("restaurant_id", rest.ID).Info("login")
	return s.session(rest)
}

func (s *restaurantService) GoogleAuthURL(state string) string {
	return s.Google.AuthURL(state)
}

// LoginWithGoogle signs in the restaurant owning the Google account,
// linking it by email or creating a new verified restaurant. Accounts
// seen for the first time must carry a verified email.
func (s *restaurantService) LoginWithGoogle(ctx context.Context, code string) (*dto.AuthResponse, error) {
	if code == "" {
		return nil, utils.NewValidationError("missing authorization code")
	}
	profile, err := s.Google.Exchange(ctx, code)
	if err != nil {
		return nil, err
	}

	rest, err := s.Restaurants.FindByGoogleID(ctx, profile.Subject)
	if err == nil {
		return s.session(rest)
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}
	if !profile.EmailVerified {
		utils.InfoLogger.WithField("email", profile.Email).Warn("google account with unverified email rejected")
		return nil, utils.NewUnauthorizedError("google account email is not verified")
	}

	email := strings.ToLower(profile.Email)
	rest, err = s.Restaurants.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if err := s.Restaurants.LinkGoogleID(ctx, rest.ID, profile.Subject); err != nil {
			return nil, err
		}
		if rest.State == models.RestaurantUnverified {
			if err := s.Restaurants.UpdateState(ctx, rest.ID, models.RestaurantActive); err != nil {
				return nil, err
			}
			rest.State = models.RestaurantActive
		}
	case errors.Is(err, repositories.ErrNotFound):
		googleID := profile.Subject
		rest = &models.Restaurant{
			Name:     profile.Name,
			Email:    email,
			State:    models.RestaurantActive,
			GoogleID: &googleID,
			ImageURL: profile.Picture,
		}
		if err := s.Restaurants.Create(ctx, rest); err != nil {
			return nil, err
		}
		utils.InfoLogger.WithField("restaurant_id", rest.ID).Info("restaurant created from google account")
	default:
		return nil, err
	}
	return s.session(rest)
}

func (s *restaurantService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.Blacklist.Add(ctx, token, s.Tokens.TTL())
}

func (s *restaurantService) VerifyEmail(ctx context.Context, token string) (*models.Restaurant, error) {
	claims, err := s.Tokens.ParseToken(token)
	if err != nil || claims.Purpose != utils.PurposeVerify {
		return nil, utils.NewValidationError("invalid or expired verification link")
	}
	rest, err := s.Restaurants.FindByID(ctx, claims.RestaurantID)
	if err != nil {
		return nil, mapRepoErr(err, "restaurant not found")
	}
	if rest.State == models.RestaurantUnverified {
		if err := s.Restaurants.UpdateState(ctx, rest.ID, models.RestaurantActive); err != nil {
			return nil, err
		}
		rest.State = models.RestaurantActive
	}
	return rest, nil
}

func (s *restaurantService) ChangePassword(ctx context.Context, id uint, req dto.ChangePasswordRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	rest, err := s.Restaurants.FindByID(ctx, id)
	if err != nil {
		return mapRepoErr(err, "restaurant not found")
	}
	if rest.HasPassword() && !utils.CheckPassword(*rest.Password, req.CurrentPassword) {
		return utils.NewUnauthorizedError("current password is incorrect")
	}

	hash, err := utils.HashPassword(req.NewPassword, s.BcryptCost)
	if err != nil {
		return err
	}
	return s.Restaurants.UpdatePassword(ctx, id, hash)
}

// RecoverPassword replaces the password with a random one and mails it.
func (s *restaurantService) RecoverPassword(ctx context.Context, email string) error {
	req := dto.EmailRequest{Email: strings.ToLower(strings.TrimSpace(email))}
	if err := req.Validate(); err != nil {
		return err
	}
	rest, err := s.Restaurants.FindByEmail(ctx, req.Email)
	if err != nil {
		return mapRepoErr(err, "no restaurant registered with that email")
	}

	password, err := utils.GeneratePassword(recoveredPasswordLength)
	if err != nil {
		return err
	}
	hash, err := utils.HashPassword(password, s.BcryptCost)
	if err != nil {
		return err
	}
	// The new hash is only committed once the mail is out.
	return repositories.RunInTx(ctx, s.Restaurants.DB(), func(tx *gorm.DB) error {
		if err := s.Restaurants.SetPassword(tx, rest.ID, hash); err != nil {
			return err
		}
		if err := s.Mailer.Send(rest.Email, "Recuperación de contraseña", recoveryEmail(rest.Name, password)); err != nil {
			utils.ErrorLogger.Printf("Error sending recovery email: %v", err)
			return err
		}
		return nil
	})
}

func (s *restaurantService) HasPassword(ctx context.Context, email string) (bool, error) {
	req := dto.EmailRequest{Email: strings.ToLower(strings.TrimSpace(email))}
	if err := req.Validate(); err != nil {
		return false, err
	}
	rest, err := s.Restaurants.FindByEmail(ctx, req.Email)
	if err != nil {
		return false, mapRepoErr(err, "restaurant not found")
	}
	return rest.HasPassword(), nil
}

func (s *restaurantService) GetByID(ctx context.Context, id uint) (*models.Restaurant, error) {
	rest, err := s.Restaurants.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoErr(err, "restaurant not found")
	}
	return rest, nil
}

func (s *restaurantService) List(ctx context.Context, f dto.RestaurantFilter) ([]models.Restaurant, error) {
	return s.Restaurants.FindAll(ctx, repositories.RestaurantFilter{
		Category:     f.Category,
		CityID:       f.CityID,
		DepartmentID: f.DepartmentID,
		CountryID:    f.CountryID,
	})
}

func (s *restaurantService) Update(ctx context.Context, id uint, req dto.RestaurantUpdate) (*models.Restaurant, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	rest, err := s.Restaurants.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoErr(err, "restaurant not found")
	}

	fields := map[string]interface{}{}
	if req.Name != nil {
		fields["nombre"] = *req.Name
	}
	if req.Phone != nil {
		fields["telefono"] = *req.Phone
	}
	if req.Description != nil {
		fields["descripcion"] = *req.Description
	}
	if req.Category != nil {
		fields["categoria"] = *req.Category
	}
	if req.State != nil {
		fields["estado"] = *req.State
	}
	if req.ReservationCapacity != nil {
		fields["capacidad_reservas"] = *req.ReservationCapacity
	}
	var address *models.Address
	if req.Address != nil {
		if err := s.checkCity(ctx, req.Address.CityID); err != nil {
			return nil, err
		}
		address = &models.Address{Street: req.Address.Street, CityID: req.Address.CityID}
	}

	if err := s.Restaurants.Update(ctx, rest, fields, address); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

func (s *restaurantService) Delete(ctx context.Context, id uint) error {
	if err := s.Restaurants.Delete(ctx, id); err != nil {
		return mapRepoErr(err, "restaurant not found")
	}
	utils.InfoLogger.WithField("restaurant_id", id).Info("restaurant deleted")
	return nil
}

func (s *restaurantService) SetImage(ctx context.Context, id uint, file *multipart.FileHeader) (*models.Restaurant, error) {
	rest, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	imageURL, err := s.Images.Upload(ctx, "restaurants", file)
	if err != nil {
		return nil, err
	}
	if err := s.Restaurants.Update(ctx, rest, map[string]interface{}{"imagen_url": imageURL}, nil); err != nil {
		return nil, err
	}
	rest.ImageURL = imageURL
	return rest, nil
}
