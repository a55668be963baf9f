package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/newsguild/warboard/internal/auth"
	"github.com/newsguild/warboard/internal/models"
)

// currentUser loads the authenticated user for this request. Routes
// behind RequireAuth always have a valid id in context; a load failure
// here means the row vanished mid-request.
func currentUser(db *gorm.DB, r *http.Request) (*models.User, bool) {
	uid, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		return nil, false
	}
	var user models.User
	if err := db.First(&user, uid).Error; err != nil {
		return nil, false
	}
	return &user, true
}

// returnTarget reads the caller-specified page to go back to after a
// mutation. Only same-site paths are accepted.
func returnTarget(r *http.Request) string {
	ret := r.FormValue("return")
	if ret == "" {
		ret = r.URL.Query().Get("return")
	}
	if !strings.HasPrefix(ret, "/") || strings.HasPrefix(ret, "//") {
		return "/index"
	}
	return ret
}

// pathID parses the {id} path segment.
func pathID(r *http.Request) (uint, bool) {
	id64, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil || id64 == 0 {
		return 0, false
	}
	return uint(id64), true
}
