package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	db "fintrack-server/src/db/sql"
	"fintrack-server/src/models"
	"fintrack-server/src/util"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

func GetMe(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(uuid.UUID)

		user, err := db.GetUserByID(r.Context(), pool, userID)
		if err != nil {
			log.Printf("ERROR: Failed to get user - user_id: %s: %v", userID, err)
			util.WriteError(w, http.StatusNotFound, "user not found")
			return
		}

		util.WriteData(w, http.StatusOK, user)
	}
}

func UpdateProfile(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(uuid.UUID)

		var req models.UpdateProfileRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode update profile request body: %v", err)
			util.WriteError(w, http.StatusBadRequest, "invalid request")
			return
		}

		if errs := util.ValidateStruct(req); errs != nil {
			util.WriteValidationErrors(w, errs)
			return
		}

		user, err := db.GetUserByID(r.Context(), pool, userID)
		if err != nil {
			log.Printf("ERROR: Failed to get user for profile update - user_id: %s: %v", userID, err)
			util.WriteError(w, http.StatusNotFound, "user not found")
			return
		}

		if req.Name != "" {
			user.Name = req.Name
		}
		if req.Avatar != nil {
			user.Avatar = req.Avatar
		}
		if req.Preferences != nil {
			user.Preferences = *req.Preferences
		}

		updated, err := db.UpdateUserProfile(r.Context(), pool, user)
		if err != nil {
			log.Printf("ERROR: Failed to update user profile - user_id: %s: %v", userID, err)
			util.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}

		log.Printf("INFO: User profile updated - User: %s", userID)
		util.WriteData(w, http.StatusOK, updated)
	}
}

func ChangePassword(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(uuid.UUID)

		var req models.ChangePasswordRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode change password request body: %v", err)
			util.WriteError(w, http.StatusBadRequest, "invalid request")
			return
		}

		if errs := util.ValidateStruct(req); errs != nil {
			util.WriteValidationErrors(w, errs)
			return
		}

		user, err := db.GetUserByID(r.Context(), pool, userID)
		if err != nil {
			log.Printf("ERROR: Failed to get user for password change - user_id: %s: %v", userID, err)
			util.WriteError(w, http.StatusNotFound, "user not found")
			return
		}

		if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(req.CurrentPassword)); err != nil {
			log.Printf("ERROR: Invalid current password attempt for user %s", userID)
			util.WriteError(w, http.StatusUnauthorized, "current password is incorrect")
			return
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("ERROR: Failed to hash new password for user %s: %v", userID, err)
			util.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}

		if err := db.UpdateUserPassword(r.Context(), pool, userID, string(hashedPassword)); err != nil {
			log.Printf("ERROR: Failed to update user password - user_id: %s: %v", userID, err)
			util.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}

		log.Printf("INFO: User password changed - User: %s", userID)
		util.WriteJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"message": "password changed successfully",
		})
	}
}

// DeleteAccount removes the user and, through the cascade, every transaction
// they own.
func DeleteAccount(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(uuid.UUID)

		log.Printf("INFO: Deleting user %s and all associated data", userID)
		if err := db.DeleteUser(r.Context(), pool, userID); err != nil {
			log.Printf("ERROR: Failed to delete user %s: %v", userID, err)
			util.WriteError(w, http.StatusInternalServerError, "failed to delete account")
			return
		}

		log.Printf("INFO: User %s deleted successfully", userID)
		util.WriteJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"message": "account deleted",
		})
	}
}
