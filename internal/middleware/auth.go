package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	firebaseauth "firebase.google.com/go/v4/auth"
	"github.com/golang-jwt/jwt/v5"

	"github.com/nikhil-rathour/TailMate-sub001/internal/models"
)

type contextKey string

const (
	UserIDKey  contextKey = "userID"
	EmailKey   contextKey = "email"
	NameKey    contextKey = "name"
	PictureKey contextKey = "picture"
)

// Auth validates bearer tokens. When a Firebase client is configured the
// token is verified as a Firebase ID token first; HMAC JWTs issued by the
// local auth endpoints are accepted as a fallback. firebaseAuth may be nil.
func Auth(firebaseAuth *firebaseauth.Client, jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeAuthError(w, "Authorization header required")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				writeAuthError(w, "Invalid authorization header format")
				return
			}
			tokenString := parts[1]

			if firebaseAuth != nil {
				if tok, err := firebaseAuth.VerifyIDToken(r.Context(), tokenString); err == nil {
					ctx := contextWithClaims(r.Context(), tok.UID, firebaseClaims(tok))
					next.ServeHTTP(w, r.WithContext(ctx))
					return
				}
			}

			userID, claims, err := verifyLocalToken(tokenString, jwtSecret)
			if err != nil {
				writeAuthError(w, "Invalid or expired token")
				return
			}
			next.ServeHTTP(w, r.WithContext(contextWithClaims(r.Context(), userID, claims)))
		})
	}
}

// VerifyToken resolves a token to a user id outside the HTTP middleware
// path, used by the websocket endpoint.
func VerifyToken(ctx context.Context, firebaseAuth *firebaseauth.Client, jwtSecret, tokenString string) (string, error) {
	if firebaseAuth != nil {
		if tok, err := firebaseAuth.VerifyIDToken(ctx, tokenString); err == nil {
			return tok.UID, nil
		}
	}
	userID, _, err := verifyLocalToken(tokenString, jwtSecret)
	return userID, err
}

type tokenClaims struct {
	email   string
	name    string
	picture string
}

func firebaseClaims(tok *firebaseauth.Token) tokenClaims {
	var c tokenClaims
	if v, ok := tok.Claims["email"].(string); ok {
		c.email = v
	}
	if v, ok := tok.Claims["name"].(string); ok {
		c.name = v
	}
	if v, ok := tok.Claims["picture"].(string); ok {
		c.picture = v
	}
	return c
}

func verifyLocalToken(tokenString, jwtSecret string) (string, tokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return "", tokenClaims{}, jwt.ErrTokenUnverifiable
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", tokenClaims{}, jwt.ErrTokenInvalidClaims
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", tokenClaims{}, jwt.ErrTokenInvalidClaims
	}

	var c tokenClaims
	if v, ok := claims["email"].(string); ok {
		c.email = v
	}
	if v, ok := claims["name"].(string); ok {
		c.name = v
	}
	return userID, c, nil
}

func contextWithClaims(ctx context.Context, userID string, c tokenClaims) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, userID)
	if c.email != "" {
		ctx = context.WithValue(ctx, EmailKey, c.email)
	}
	if c.name != "" {
		ctx = context.WithValue(ctx, NameKey, c.name)
	}
	if c.picture != "" {
		ctx = context.WithValue(ctx, PictureKey, c.picture)
	}
	return ctx
}

// GetUserID extracts the authenticated user id from context.
func GetUserID(ctx context.Context) string {
	return stringFromContext(ctx, UserIDKey)
}

func GetEmail(ctx context.Context) string {
	return stringFromContext(ctx, EmailKey)
}

func GetName(ctx context.Context) string {
	return stringFromContext(ctx, NameKey)
}

func GetPicture(ctx context.Context) string {
	return stringFromContext(ctx, PictureKey)
}

func stringFromContext(ctx context.Context, key contextKey) string {
	v, ok := ctx.Value(key).(string)
	if !ok {
		return ""
	}
	return v
}

func writeAuthError(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(models.NewErrorResponse(msg))
}
