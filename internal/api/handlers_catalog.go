// Reelmatch - Cluster-Based Title Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package api

import (
	"errors"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/tomtom215/reelmatch/internal/database"
	"github.com/tomtom215/reelmatch/internal/logging"
)

// CreateUserRequest is the body of POST /users.
type CreateUserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64,username"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// CreateCategoryRequest is the body of POST /categories.
type CreateCategoryRequest struct {
	Name string `json:"name" validate:"required,notblank,max=100"`
}

// CreateTitleRequest is the body of POST /titles.
type CreateTitleRequest struct {
	Name            string  `json:"name" validate:"required,notblank,max=255"`
	Description     string  `json:"description" validate:"max=4000"`
	Year            int     `json:"year" validate:"required,min=1870,max=2100"`
	DurationMinutes int     `json:"duration_minutes" validate:"required,min=1,max=10000"`
	ExternalRating  float64 `json:"external_rating" validate:"min=0,max=10"`
	ImageURL        string  `json:"image_url" validate:"omitempty,url,max=2048"`
	CategoryIDs     []int   `json:"category_ids" validate:"max=50,dive,min=1"`
}

// CreateWatchEventRequest is the body of POST /watch-events.
type CreateWatchEventRequest struct {
	UserID         int `json:"user_id" validate:"required,min=1"`
	TitleID        int `json:"title_id" validate:"required,min=1"`
	WatchedMinutes int `json:"watched_minutes" validate:"min=0,max=100000"`
}

// CreateRatingRequest is the body of POST /ratings.
type CreateRatingRequest struct {
	UserID  int `json:"user_id" validate:"required,min=1"`
	TitleID int `json:"title_id" validate:"required,min=1"`
	Score   int `json:"score" validate:"required,min=1,max=5"`
}

// CreateUser handles POST /users. The password is stored only as a bcrypt
// hash and never echoed back.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req CreateUserRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeInternal, "Failed to create user", err)
		return
	}

	user, err := h.db.CreateUser(r.Context(), database.NewUser{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
	})
	if err != nil {
		if errors.Is(err, database.ErrConflict) {
			respondError(w, http.StatusConflict, codeConflict, "Username or email already exists", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, codeInternal, "Failed to create user", err)
		return
	}

	logging.Ctx(r.Context()).Info().Int("user_id", user.ID).Msg("User created")
	respondSuccess(w, http.StatusCreated, user, start)
}

// ListUsers handles GET /users.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	users, err := h.db.ListUsers(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeInternal, "Failed to list users", err)
		return
	}
	respondSuccess(w, http.StatusOK, users, start)
}

// GetUser handles GET /users/{userID}.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	userID, err := pathID(r, "userID")
	if err != nil {
		respondError(w, http.StatusBadRequest, codeValidation, err.Error(), nil)
		return
	}

	user, err := h.db.GetUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondError(w, http.StatusNotFound, codeUserNotFound, "User not found", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, codeInternal, "Failed to get user", err)
		return
	}
	respondSuccess(w, http.StatusOK, user, start)
}

// UserActivity handles GET /users/{userID}/activity.
func (h *Handler) UserActivity(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	userID, err := pathID(r, "userID")
	if err != nil {
		respondError(w, http.StatusBadRequest, codeValidation, err.Error(), nil)
		return
	}

	activity, err := h.db.UserHistory(r.Context(), userID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondError(w, http.StatusNotFound, codeUserNotFound, "User not found", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, codeInternal, "Failed to get user activity", err)
		return
	}
	respondSuccess(w, http.StatusOK, activity, start)
}

// CreateCategory handles POST /categories.
func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req CreateCategoryRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	category, err := h.db.CreateCategory(r.Context(), req.Name)
	if err != nil {
		if errors.Is(err, database.ErrConflict) {
			respondError(w, http.StatusConflict, codeConflict, "Category already exists", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, codeInternal, "Failed to create category", err)
		return
	}
	respondSuccess(w, http.StatusCreated, category, start)
}

// ListCategories handles GET /categories.
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	categories, err := h.db.ListCategories(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeInternal, "Failed to list categories", err)
		return
	}
	respondSuccess(w, http.StatusOK, categories, start)
}

// CreateTitle handles POST /titles. Unknown category IDs are rejected with
// 400 and nothing is written.
func (h *Handler) CreateTitle(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req CreateTitleRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	title, err := h.db.CreateTitle(r.Context(), database.NewTitle{
		Name:            req.Name,
		Description:     req.Description,
		Year:            req.Year,
		DurationMinutes: req.DurationMinutes,
		ExternalRating:  req.ExternalRating,
		ImageURL:        req.ImageURL,
		CategoryIDs:     req.CategoryIDs,
	})
	if err != nil {
		if errors.Is(err, database.ErrInvalidReference) {
			respondError(w, http.StatusBadRequest, codeValidation, "Unknown category", nil)
			return
		}
		if errors.Is(err, database.ErrInvalidValue) {
			respondError(w, http.StatusBadRequest, codeValidation, "Year and duration must be positive", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, codeInternal, "Failed to create title", err)
		return
	}
	respondSuccess(w, http.StatusCreated, title, start)
}

// ListTitles handles GET /titles.
func (h *Handler) ListTitles(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	titles, err := h.db.ListTitles(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeInternal, "Failed to list titles", err)
		return
	}
	respondSuccess(w, http.StatusOK, titles, start)
}

// GetTitle handles GET /titles/{titleID}.
func (h *Handler) GetTitle(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	titleID, err := pathID(r, "titleID")
	if err != nil {
		respondError(w, http.StatusBadRequest, codeValidation, err.Error(), nil)
		return
	}

	title, err := h.db.GetTitle(r.Context(), titleID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondError(w, http.StatusNotFound, codeNotFound, "Title not found", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, codeInternal, "Failed to get title", err)
		return
	}
	respondSuccess(w, http.StatusOK, title, start)
}

// CreateWatchEvent handles POST /watch-events.
func (h *Handler) CreateWatchEvent(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req CreateWatchEventRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	ev, err := h.db.AddWatchEvent(r.Context(), req.UserID, req.TitleID, req.WatchedMinutes)
	if err != nil {
		if errors.Is(err, database.ErrInvalidReference) {
			respondError(w, http.StatusNotFound, codeNotFound, "Unknown user or title", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, codeInternal, "Failed to record watch event", err)
		return
	}
	respondSuccess(w, http.StatusCreated, ev, start)
}

// CreateRating handles POST /ratings.
func (h *Handler) CreateRating(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req CreateRatingRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	rating, err := h.db.AddRating(r.Context(), req.UserID, req.TitleID, req.Score)
	if err != nil {
		if errors.Is(err, database.ErrInvalidReference) {
			respondError(w, http.StatusNotFound, codeNotFound, "Unknown user or title", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, codeInternal, "Failed to record rating", err)
		return
	}
	respondSuccess(w, http.StatusCreated, rating, start)
}
