package user

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/stridehq/stride-lambda/internal/auth"
	"github.com/stridehq/stride-lambda/internal/config"
	"golang.org/x/oauth2"
)

const userInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

const (
	AccessTokenDuration  = time.Minute * 15
	RefreshTokenDuration = time.Hour * 24 * 7
)

var ErrGoogleExchange = errors.New("failed to exchange google authorization code")

type googleUserInfo struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

type LoginResult struct {
	User         *User
	AccessToken  string
	RefreshToken string
}

type UserService interface {
	GoogleLogin(ctx context.Context, code string) (*LoginResult, error)
	RefreshToken(ctx context.Context, refreshToken string) (string, error)
	GetByID(ctx context.Context, id string) (*User, error)
}

type service struct {
	repo        UserRepository
	oauthConfig *oauth2.Config
}

func NewService(repo UserRepository, oauthConfig *oauth2.Config) UserService {
	return &service{repo: repo, oauthConfig: oauthConfig}
}

func (s *service) GoogleLogin(ctx context.Context, code string) (*LoginResult, error) {
	log := config.WithContext(ctx)

	token, err := s.oauthConfig.Exchange(ctx, code)
	if err != nil {
		log.WithError(err).Warn("Google code exchange failed")
		return nil, ErrGoogleExchange
	}

	info, err := s.fetchUserInfo(ctx, token)
	if err != nil {
		log.WithError(err).Error("Failed to fetch google user info")
		return nil, err
	}

	u, err := s.repo.GetByGoogleID(info.ID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	encryptedAccess, err := config.Encrypt(token.AccessToken)
	if err != nil {
		return nil, err
	}

	if u == nil {
		u = &User{
			ID:        uuid.New(),
			GoogleID:  info.ID,
			Email:     info.Email,
			Name:      info.Name,
			AvatarURL: info.Picture,
			Role:      "user",
		}
		u.EncryptedGoogleAccessToken = encryptedAccess
		if token.RefreshToken != "" {
			encryptedRefresh, err := config.Encrypt(token.RefreshToken)
			if err != nil {
				return nil, err
			}
			u.EncryptedGoogleRefreshToken = encryptedRefresh
		}
		if err := s.repo.Create(u); err != nil {
			log.WithError(err).Error("Failed to create user")
			return nil, err
		}
		log.WithField("user_id", u.ID).Info("New user registered")
	} else {
		u.Email = info.Email
		u.Name = info.Name
		u.AvatarURL = info.Picture
		u.EncryptedGoogleAccessToken = encryptedAccess
		if token.RefreshToken != "" {
			encryptedRefresh, err := config.Encrypt(token.RefreshToken)
			if err != nil {
				return nil, err
			}
			u.EncryptedGoogleRefreshToken = encryptedRefresh
		}
		if err := s.repo.Update(u); err != nil {
			log.WithError(err).Error("Failed to update user on login")
			return nil, err
		}
	}

	accessToken, err := auth.GenerateJWT(u.ID.String(), u.Role, AccessTokenDuration)
	if err != nil {
		return nil, err
	}
	refreshToken, err := auth.GenerateJWT(u.ID.String(), u.Role, RefreshTokenDuration)
	if err != nil {
		return nil, err
	}

	return &LoginResult{User: u, AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (s *service) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	claims, err := auth.ValidateJWT(refreshToken)
	if err != nil {
		return "", err
	}

	u, err := s.repo.GetByID(claims.UserID)
	if err != nil {
		return "", err
	}

	return auth.GenerateJWT(u.ID.String(), u.Role, AccessTokenDuration)
}

func (s *service) GetByID(ctx context.Context, id string) (*User, error) {
	return s.repo.GetByID(id)
}

func (s *service) fetchUserInfo(ctx context.Context, token *oauth2.Token) (*googleUserInfo, error) {
	client := s.oauthConfig.Client(ctx, token)
	resp, err := client.Get(userInfoURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return nil, errors.New("google userinfo request failed")
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, err
	}
	return &info, nil
}
