package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"laundryhub-backend/internal/model"
	"laundryhub-backend/internal/mw"
)

type registerRequest struct {
	Name       string `json:"name" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required,min=8"`
	RollNumber string `json:"rollNumber"`
	Gender     string `json:"gender"`
	Hostel     string `json:"hostel"`
	Room       string `json:"room"`
}

// Register creates a student account. Operator and admin accounts are
// provisioned by seeding or by an admin, never self-service.
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to hash password"})
		return
	}

	user := model.User{
		Name:            req.Name,
		Email:           req.Email,
		PasswordHash:    string(hash),
		Role:            model.RoleStudent,
		RollNumber:      req.RollNumber,
		Gender:          req.Gender,
		Hostel:          req.Hostel,
		Room:            req.Room,
		ProfileComplete: req.RollNumber != "" && req.Hostel != "" && req.Room != "",
	}
	if err := h.store.CreateUser(c.Request.Context(), &user); err != nil {
		abortWithError(c, err)
		return
	}

	token, err := h.issuer.Issue(&user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"token": token,
		"user":  userResponse(&user),
	})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login authenticates a user and returns a signed token with the
// role's default screen for post-login routing.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	user, err := h.store.UserByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
			return
		}
		abortWithError(c, err)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
		return
	}

	token, err := h.issuer.Issue(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":    token,
		"user":     userResponse(user),
		"redirect": user.Role.DefaultRoute(),
	})
}

type profileUpdateRequest struct {
	Name       *string `json:"name"`
	RollNumber *string `json:"rollNumber"`
	Gender     *string `json:"gender"`
	Hostel     *string `json:"hostel"`
	Room       *string `json:"room"`
}

// UpdateProfile lets the owning user (or an admin) edit profile fields.
func (h *Handler) UpdateProfile(c *gin.Context) {
	claims := mw.CurrentClaims(c)
	targetID := c.Param("id")
	if claims.Role != model.RoleAdmin && claims.UserID != targetID {
		c.JSON(http.StatusForbidden, gin.H{"redirect": claims.Role.DefaultRoute()})
		return
	}

	var req profileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	fields := map[string]any{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.RollNumber != nil {
		fields["roll_number"] = *req.RollNumber
	}
	if req.Gender != nil {
		fields["gender"] = *req.Gender
	}
	if req.Hostel != nil {
		fields["hostel"] = *req.Hostel
	}
	if req.Room != nil {
		fields["room"] = *req.Room
	}

	if err := h.store.UpdateUserProfile(c.Request.Context(), targetID, fields); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// userResponse strips credentials from a user for API responses.
func userResponse(u *model.User) gin.H {
	return gin.H{
		"id":              u.ID,
		"name":            u.Name,
		"email":           u.Email,
		"role":            u.Role,
		"rollNumber":      u.RollNumber,
		"hostel":          u.Hostel,
		"room":            u.Room,
		"profileComplete": u.ProfileComplete,
	}
}
