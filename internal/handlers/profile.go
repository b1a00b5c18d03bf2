package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/authwave/apiserver/internal/services"
	"github.com/authwave/apiserver/internal/storage"
	"github.com/authwave/apiserver/internal/store"
	"github.com/authwave/apiserver/types"
	"github.com/go-chi/chi/v5"
)

// uploadURLTTL bounds how long a presigned profile-image upload stays
// usable.
const uploadURLTTL = 6 * time.Minute

const profileImageContentType = "image/jpeg"

// ProfileHandler provides authenticated profile endpoints.
type ProfileHandler struct {
	userService *services.UserService
	storage     *storage.Storage
	log         *slog.Logger
}

// NewProfileHandler constructs a ProfileHandler with the provided dependencies.
func NewProfileHandler(userService *services.UserService, store *storage.Storage, log *slog.Logger) *ProfileHandler {
	return &ProfileHandler{
		userService: userService,
		storage:     store,
		log:         log,
	}
}

// ProfileRouter registers profile routes on the given router. Every
// route, including upload-url, sits behind the auth middleware so the
// generated object key can be bound to the verified identity.
func ProfileRouter(
	r chi.Router,
	userService *services.UserService,
	store *storage.Storage,
	authMiddleware func(http.Handler) http.Handler,
	log *slog.Logger,
) {
	handler := NewProfileHandler(userService, store, log)

	r.Use(authMiddleware)
	r.Get("/", handler.GetProfile)
	r.Put("/", handler.UpdateProfile)
	r.Get("/upload-url", handler.UploadURL)
}

// GetProfile returns the public projection of the caller's record.
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	email, err := emailFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized: No token provided")
		return
	}

	user, err := h.userService.GetProfile(r.Context(), email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		h.log.Error("profile read failed", "email", email, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// UpdateProfile applies a partial update touching exactly the provided
// fields and returns the full post-update record.
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	email, err := emailFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized: No token provided")
		return
	}

	var update types.UserUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	user, err := h.userService.UpdateProfile(r.Context(), email, update)
	switch {
	case errors.Is(err, services.ErrEmptyUpdate):
		writeError(w, http.StatusBadRequest, "No fields provided to update.")
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "User not found")
	case err != nil:
		h.log.Error("profile update failed", "email", email, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
	default:
		writeJSON(w, http.StatusOK, UpdateProfileResponse{
			Message: "Profile updated successfully!",
			User:    user,
		})
	}
}

// UploadURL issues a presigned PUT URL for the caller's profile image
// plus the permanent retrieval URL the client stores afterwards. The
// object key is derived from the verified identity, not client input.
func (h *ProfileHandler) UploadURL(w http.ResponseWriter, r *http.Request) {
	email, err := emailFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized: No token provided")
		return
	}

	key := fmt.Sprintf("profile-%s-%d.jpg", email, time.Now().UnixMilli())

	uploadURL, err := h.storage.PresignPut(r.Context(), key, profileImageContentType, uploadURLTTL)
	if err != nil {
		h.log.Error("presign failed", "email", email, "key", key, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	writeJSON(w, http.StatusOK, UploadURLResponse{
		UploadURL: uploadURL,
		FileURL:   h.storage.PublicURL(key),
	})
}

type UpdateProfileResponse struct {
	Message string     `json:"message"`
	User    types.User `json:"user"`
}

type UploadURLResponse struct {
	UploadURL string `json:"uploadUrl"`
	FileURL   string `json:"fileUrl"`
}
