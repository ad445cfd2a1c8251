package middleware

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"fintrack-server/src/util"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ParseTokenFromRequest extracts and validates JWT token from request, returning claims if valid
func ParseTokenFromRequest(r *http.Request) (jwt.MapClaims, error) {
	tokenString := r.Header.Get("Authorization")
	if tokenString == "" {
		return nil, fmt.Errorf("missing token")
	}

	tokenString = strings.TrimPrefix(tokenString, "Bearer ")

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("invalid signing method")
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})

	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token claims")
}

func JWTAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := ParseTokenFromRequest(r)
		if err != nil {
			util.WriteError(w, http.StatusUnauthorized, err.Error())
			return
		}

		userIDStr, ok := claims["user_id"].(string)
		if !ok {
			util.WriteError(w, http.StatusUnauthorized, "invalid token claims")
			return
		}
		userID, err := uuid.Parse(userIDStr)
		if err != nil {
			util.WriteError(w, http.StatusUnauthorized, "invalid token claims")
			return
		}
		email, _ := claims["email"].(string)

		ctx := context.WithValue(r.Context(), "user_id", userID)
		ctx = context.WithValue(ctx, "email", email)

		r = r.WithContext(ctx)
		next.ServeHTTP(w, r)
	})
}
