package rest

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ccloudinthesky/journee/internal/model"
	"github.com/ccloudinthesky/journee/util"
	"github.com/ccloudinthesky/journee/util/values"
	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"
	oauth2v2 "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

const (
	tokenTypeAccess = "access"
	providerEmail   = "email"
	providerGoogle  = "google"
)

var errTokenExpired = errors.New("token expired")

type TokenClaims struct {
	UserID uuid.UUID
	Type   string
	Exp    int64
}

// googleProfile is the part of the Google userinfo we keep.
type googleProfile struct {
	ID       string
	Email    string
	Name     string
	Audience string
}

func (api *API) createToken(id uuid.UUID) (string, time.Time, error) {
	expiresAt := time.Now().Add(api.Config.JwtExpires)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": id.String(), // subject (user ID)
		"exp": expiresAt.Unix(),
		"iat": time.Now().Unix(),
		"typ": tokenTypeAccess,
	})

	tokenString, err := token.SignedString([]byte(api.Config.JwtSecret))
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

func (api *API) verifyToken(tokenString string) (*TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(api.Config.JwtSecret), nil
	})
	if err != nil {
		var ve *jwt.ValidationError
		if errors.As(err, &ve) && ve.Errors&jwt.ValidationErrorExpired != 0 {
			return nil, errTokenExpired
		}
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	if typ, _ := claims["typ"].(string); typ != tokenTypeAccess {
		return nil, errors.New("not an access token")
	}
	sub, _ := claims["sub"].(string)
	userID, err := uuid.Parse(sub)
	if err != nil {
		return nil, errors.Wrap(err, "invalid subject")
	}
	exp, _ := claims["exp"].(float64)

	return &TokenClaims{UserID: userID, Type: tokenTypeAccess, Exp: int64(exp)}, nil
}

func (api *API) loginResponse(user model.User) (model.LoginResponse, error) {
	token, expiresAt, err := api.createToken(user.ID)
	if err != nil {
		return model.LoginResponse{}, err
	}
	return model.LoginResponse{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

func (api *API) RegisterHelper(ctx context.Context, req model.RegisterRequest) (model.LoginResponse, string, string, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if err := util.ValidEmail(email); err != nil {
		return model.LoginResponse{}, values.BadRequestBody, "Invalid email address provided", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return model.LoginResponse{}, values.Error, "Error creating account", err
	}
	hashed := string(hash)

	user := model.User{
		ID:           util.GenerateUUID(),
		Email:        email,
		Username:     strings.TrimSpace(req.Username),
		PasswordHash: &hashed,
		AuthProvider: providerEmail,
	}
	if err := api.CreateNewUserRepo(ctx, &user); err != nil {
		status, message := classify(err, "Error creating account")
		return model.LoginResponse{}, status, message, err
	}

	resp, err := api.loginResponse(user)
	if err != nil {
		return model.LoginResponse{}, values.Error, "Error creating token", err
	}
	return resp, values.Created, "Account created successfully", nil
}

func (api *API) LoginHelper(ctx context.Context, req model.LoginRequest) (model.LoginResponse, string, string, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := api.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, errUserNotFound) {
			return model.LoginResponse{}, values.NotAuthorised, ErrInvalidCredentials.Error(), ErrInvalidCredentials
		}
		return model.LoginResponse{}, values.Error, "Error logging in", err
	}
	if user.PasswordHash == nil {
		return model.LoginResponse{}, values.NotAuthorised, "This account signs in with Google", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.Password)); err != nil {
		return model.LoginResponse{}, values.NotAuthorised, ErrInvalidCredentials.Error(), ErrInvalidCredentials
	}

	resp, err := api.loginResponse(user)
	if err != nil {
		return model.LoginResponse{}, values.Error, "Error creating token", err
	}
	return resp, values.Success, "Login successful", nil
}

// GoogleLoginHelper signs in with a Google access token, linking it to an
// existing account with the same email or creating a new one.
func (api *API) GoogleLoginHelper(ctx context.Context, req model.GoogleLoginRequest) (model.LoginResponse, string, string, error) {
	profile, err := api.fetchGoogle(ctx, req.AccessToken)
	if err != nil {
		return model.LoginResponse{}, values.NotAuthorised, "Failed to verify Google account", err
	}
	if api.Config.GoogleClientID != "" && profile.Audience != api.Config.GoogleClientID {
		return model.LoginResponse{}, values.NotAuthorised, "Google token was issued for another client", nil
	}
	email := strings.ToLower(strings.TrimSpace(profile.Email))
	if profile.ID == "" || email == "" {
		return model.LoginResponse{}, values.NotAuthorised, "Google account has no verified email", nil
	}

	user, err := api.GetUserByGoogleID(ctx, profile.ID)
	switch {
	case err == nil:
	case errors.Is(err, errUserNotFound):
		user, err = api.GetUserByEmail(ctx, email)
		switch {
		case err == nil:
			if err := api.LinkGoogleAccount(ctx, user.ID, profile.ID); err != nil {
				status, message := classify(err, "Error linking Google account")
				return model.LoginResponse{}, status, message, err
			}
		case errors.Is(err, errUserNotFound):
			googleID := profile.ID
			user = model.User{
				ID:           util.GenerateUUID(),
				Email:        email,
				Username:     googleUsername(profile),
				GoogleID:     &googleID,
				AuthProvider: providerGoogle,
			}
			if err := api.CreateNewUserRepo(ctx, &user); err != nil {
				status, message := classify(err, "Error creating account")
				return model.LoginResponse{}, status, message, err
			}
			loggerFrom(ctx).Info("created account from google sign-in", zap.String("user_id", user.ID.String()))
		default:
			return model.LoginResponse{}, values.Error, "Error logging in", err
		}
	default:
		return model.LoginResponse{}, values.Error, "Error logging in", err
	}

	resp, err := api.loginResponse(user)
	if err != nil {
		return model.LoginResponse{}, values.Error, "Error creating token", err
	}
	return resp, values.Success, "Login successful", nil
}

func googleUsername(p googleProfile) string {
	name := strings.TrimSpace(p.Name)
	if len(name) >= 2 {
		return name
	}
	local, _, _ := strings.Cut(p.Email, "@")
	return local
}

// fetchGoogleProfile calls the OAuth2 userinfo and tokeninfo endpoints with
// the caller's access token.
func fetchGoogleProfile(ctx context.Context, accessToken string) (googleProfile, error) {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})
	svc, err := oauth2v2.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return googleProfile{}, errors.Wrap(err, "creating oauth2 service")
	}

	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return googleProfile{}, errors.Wrap(err, "fetching google userinfo")
	}
	if info.VerifiedEmail != nil && !*info.VerifiedEmail {
		return googleProfile{}, errors.New("google email is not verified")
	}

	tokenInfo, err := svc.Tokeninfo().AccessToken(accessToken).Context(ctx).Do()
	if err != nil {
		return googleProfile{}, errors.Wrap(err, "fetching google tokeninfo")
	}

	return googleProfile{
		ID:       info.Id,
		Email:    info.Email,
		Name:     info.Name,
		Audience: tokenInfo.Audience,
	}, nil
}

func (api *API) ProfileHelper(ctx context.Context, userID uuid.UUID) (model.User, string, string, error) {
	user, err := api.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, errUserNotFound) {
			return model.User{}, values.NotAuthorised, "account no longer exists", err
		}
		return model.User{}, values.Error, "failed to get user profile", err
	}
	return user, values.Success, "Profile retrieved successfully", nil
}
