package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	db "fintrack-server/src/db/sql"
	"fintrack-server/src/models"
	"fintrack-server/src/util"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

func issueToken(user *models.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID.String(),
		"email":   user.Email,
		"exp":     time.Now().Add(time.Hour * 168).Unix(),
	})
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}

func Register(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.RegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode register request body: %v", err)
			util.WriteError(w, http.StatusBadRequest, "invalid request")
			return
		}

		req.Name = strings.TrimSpace(req.Name)
		req.Email = strings.ToLower(strings.TrimSpace(req.Email))

		if errs := util.ValidateStruct(req); errs != nil {
			log.Printf("ERROR: Registration validation failed - Email: %s", req.Email)
			util.WriteValidationErrors(w, errs)
			return
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("ERROR: Failed to hash password for %s: %v", req.Email, err)
			util.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}

		user, err := db.CreateUser(r.Context(), pool, req.Name, req.Email, string(hashedPassword))
		if err != nil {
			if errors.Is(err, db.ErrDuplicateEmail) {
				log.Printf("ERROR: Registration failed - email already exists - Email: %s", req.Email)
				util.WriteError(w, http.StatusConflict, "email already exists")
				return
			}
			log.Printf("ERROR: Failed to create user %s: %v", req.Email, err)
			util.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}

		tokenString, err := issueToken(user)
		if err != nil {
			log.Printf("ERROR: Failed to generate JWT token for user %s: %v", user.Email, err)
			util.WriteError(w, http.StatusInternalServerError, "error generating token")
			return
		}

		log.Printf("INFO: Successful registration - User: %s, ID: %s", user.Email, user.ID)

		util.WriteJSON(w, http.StatusCreated, map[string]any{
			"success": true,
			"token":   tokenString,
			"user":    user,
		})
	}
}

func Login(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode login request body: %v", err)
			util.WriteError(w, http.StatusBadRequest, "invalid request")
			return
		}

		req.Email = strings.ToLower(strings.TrimSpace(req.Email))
		if errs := util.ValidateStruct(req); errs != nil {
			util.WriteValidationErrors(w, errs)
			return
		}

		user, err := db.GetUserByEmail(r.Context(), pool, req.Email)
		if err != nil {
			log.Printf("ERROR: Failed to find user during login - Email: %s: %v", req.Email, err)
			util.WriteError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}

		if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(req.Password)); err != nil {
			log.Printf("ERROR: Invalid password attempt for email %s from IP %s", req.Email, r.RemoteAddr)
			util.WriteError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}

		tokenString, err := issueToken(user)
		if err != nil {
			log.Printf("ERROR: Failed to generate JWT token for user %s: %v", user.Email, err)
			util.WriteError(w, http.StatusInternalServerError, "error generating token")
			return
		}

		log.Printf("INFO: Successful login - User: %s, ID: %s", user.Email, user.ID)

		util.WriteJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"token":   tokenString,
			"user":    user,
		})
	}
}
