package auth

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/edutorium/battle-server/models"
)

// Verifier checks a bearer token and resolves it to a user identity. Verify
// may block on the network; callers must not invoke it from the hub loop.
type Verifier interface {
	Verify(token string) (*models.UserInfo, error)
}

// SupabaseVerifier asks the Supabase auth API who owns a token.
type SupabaseVerifier struct {
	BaseURL string
	AnonKey string
	Client  *http.Client
}

func NewSupabaseVerifier(baseURL, anonKey string) *SupabaseVerifier {
	return &SupabaseVerifier{
		BaseURL: baseURL,
		AnonKey: anonKey,
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type supabaseUser struct {
	ID           string `json:"id"`
	UserMetadata struct {
		Username  string `json:"username"`
		AvatarURL string `json:"avatar_url"`
	} `json:"user_metadata"`
}

func (v *SupabaseVerifier) Verify(token string) (*models.UserInfo, error) {
	if token == "" {
		return nil, fmt.Errorf("missing token")
	}

	req, err := http.NewRequest(http.MethodGet, v.BaseURL+"/auth/v1/user", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", v.AnonKey)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := v.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("token verification failed with status %d", resp.StatusCode)
	}

	var user supabaseUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, err
	}
	if user.ID == "" {
		return nil, fmt.Errorf("verification response missing user id")
	}

	return &models.UserInfo{
		ID:       user.ID,
		Username: fallbackUsername(user.UserMetadata.Username, user.ID),
		Avatar:   user.UserMetadata.AvatarURL,
	}, nil
}

// JWTVerifier validates HS256 tokens locally. Used when no identity provider
// URL is configured, mainly for development and tests.
type JWTVerifier struct {
	Secret string
}

func (v *JWTVerifier) Verify(tokenStr string) (*models.UserInfo, error) {
	if v.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET not set")
	}

	claims := &models.CustomClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(v.Secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	if claims.ID == "" {
		return nil, fmt.Errorf("token missing user id")
	}

	return &models.UserInfo{
		ID:       claims.ID,
		Username: fallbackUsername(claims.Username, claims.ID),
		Avatar:   claims.Avatar,
	}, nil
}

func fallbackUsername(username, userID string) string {
	if username != "" {
		return username
	}
	if len(userID) > 8 {
		userID = userID[:8]
	}
	return "User" + userID
}
