package handlers

import (
	"net/http"
	"strconv"

	"github.com/akinalp/kulup/pkg"
	"github.com/akinalp/kulup/repository"
)

// MemberHandler, üye profil endpoint'lerini yöneten struct.
//
// Salt okuma işlemleri olduğu için service katmanı yoktur — handler
// doğrudan repository interface'ine bağlanır.
type MemberHandler struct {
	memberRepo repository.MemberRepository
}

// NewMemberHandler, constructor.
func NewMemberHandler(memberRepo repository.MemberRepository) *MemberHandler {
	return &MemberHandler{memberRepo: memberRepo}
}

// Me godoc
// GET /api/users/me
// Auth middleware gerektirir — kimlik context'teki üye id'sinden gelir.
func (h *MemberHandler) Me(w http.ResponseWriter, r *http.Request) {
	memberID, ok := MemberIDFromContext(r.Context())
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "member not found in context")
		return
	}

	member, err := h.memberRepo.GetByID(r.Context(), memberID)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	// PasswordHash ve RefreshToken json:"-" ile zaten gizli — model
	// olduğu gibi serialize edilir.
	pkg.JSON(w, http.StatusOK, member)
}

// Get godoc
// GET /api/users/{id}
// Auth middleware gerektirir. Başka üyenin public profili (chat'te
// isim gösterimi için).
func (h *MemberHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid member id")
		return
	}

	member, err := h.memberRepo.GetByID(r.Context(), id)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, member)
}
