package handlers

import (
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-pos/internal/audit"
	"github.com/BruksfildServices01/barber-pos/internal/config"
	"github.com/BruksfildServices01/barber-pos/internal/dto"
	"github.com/BruksfildServices01/barber-pos/internal/httperr"
	"github.com/BruksfildServices01/barber-pos/internal/httpresp"
	"github.com/BruksfildServices01/barber-pos/internal/infra/repository"
	"github.com/BruksfildServices01/barber-pos/internal/middleware"
	"github.com/BruksfildServices01/barber-pos/internal/models"
	"github.com/BruksfildServices01/barber-pos/internal/validators"
)

var (
	errInvalidCredentials = httperr.Unauthorized("invalid_credentials", "email or password is incorrect")
	errUserNotFound       = httperr.NotFound("user_not_found", "user not found")
	errEmailTaken         = httperr.Conflict("email_taken", "a user with that email already exists")
	errEmailDomain        = httperr.Validation("invalid_email_domain", "the email domain does not look valid")
)

type AuthHandler struct {
	db         *gorm.DB
	config     *config.Config
	audit      audit.Auditor
	emailCheck func(string) bool
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config, auditor audit.Auditor) *AuthHandler {
	return &AuthHandler{
		db:         db,
		config:     cfg,
		audit:      auditor,
		emailCheck: validators.IsEmailDomainValid,
	}
}

// --------- Requests ---------

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=6"`
}

type CreateUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role" binding:"required,oneof=administrador barbero recepcion"`
}

type UpdateUserRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Password *string `json:"password" binding:"omitempty,min=6"`
	Role     *string `json:"role" binding:"omitempty,oneof=administrador barbero recepcion"`
}

// --------- Session ---------

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	if err := h.db.WithContext(c.Request.Context()).
		Where("email = ?", email).
		First(&user).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.Respond(c, errInvalidCredentials)
			return
		}
		httperr.Respond(c, repository.Translate(err, nil))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		httperr.Respond(c, errInvalidCredentials)
		return
	}

	token, err := h.generateToken(&user)
	if err != nil {
		httperr.Respond(c, httperr.Internal("token_failed", "failed to generate token", err))
		return
	}

	httpresp.OK(c, dto.LoginResponse{Token: token, User: dto.NewUserDTO(&user)})
}

func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.currentUser(c)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, dto.NewUserDTO(user))
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.currentUser(c)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		httperr.Respond(c, httperr.Validation("wrong_password", "current password is incorrect"))
		return
	}

	hash, err := hashPassword(req.NewPassword)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	if err := h.db.WithContext(c.Request.Context()).
		Model(user).
		Update("password_hash", hash).Error; err != nil {
		httperr.Respond(c, repository.Translate(err, nil))
		return
	}

	h.audit.Dispatch(middleware.Actor(c).Event(audit.UserPasswordChanged, "user", user.ID, nil))
	httpresp.Message(c, "password updated")
}

// --------- Users (admin) ---------

func (h *AuthHandler) ListUsers(c *gin.Context) {
	var users []models.User
	if err := h.db.WithContext(c.Request.Context()).Order("id ASC").Find(&users).Error; err != nil {
		httperr.Respond(c, repository.Translate(err, nil))
		return
	}

	out := make([]dto.UserDTO, 0, len(users))
	for i := range users {
		out = append(out, dto.NewUserDTO(&users[i]))
	}
	httpresp.OK(c, out)
}

func (h *AuthHandler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !h.emailCheck(email) {
		httperr.Respond(c, errEmailDomain)
		return
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	user := models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: hash,
		Role:         req.Role,
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&user).Error; err != nil {
		if repository.IsUniqueViolation(err) {
			httperr.Respond(c, errEmailTaken)
			return
		}
		httperr.Respond(c, repository.Translate(err, nil))
		return
	}

	h.audit.Dispatch(middleware.Actor(c).Event(audit.UserCreated, "user", user.ID, gin.H{"email": user.Email, "role": user.Role}))
	httpresp.Created(c, dto.NewUserDTO(&user))
}

func (h *AuthHandler) UpdateUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req UpdateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()

	var user models.User
	if err := h.db.WithContext(ctx).First(&user, id).Error; err != nil {
		httperr.Respond(c, repository.Translate(err, errUserNotFound))
		return
	}

	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if email != user.Email && !h.emailCheck(email) {
			httperr.Respond(c, errEmailDomain)
			return
		}
		user.Email = email
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.Password != nil {
		hash, err := hashPassword(*req.Password)
		if err != nil {
			httperr.Respond(c, err)
			return
		}
		user.PasswordHash = hash
	}

	if err := h.db.WithContext(ctx).Save(&user).Error; err != nil {
		if repository.IsUniqueViolation(err) {
			httperr.Respond(c, errEmailTaken)
			return
		}
		httperr.Respond(c, repository.Translate(err, nil))
		return
	}

	h.audit.Dispatch(middleware.Actor(c).Event(audit.UserUpdated, "user", user.ID, nil))
	httpresp.OK(c, dto.NewUserDTO(&user))
}

func (h *AuthHandler) DeleteUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if self, _ := middleware.UserID(c); self == id {
		httperr.BadRequest(c, "cannot_delete_self", "you cannot delete your own account")
		return
	}

	res := h.db.WithContext(c.Request.Context()).Delete(&models.User{}, id)
	if res.Error != nil {
		httperr.Respond(c, repository.Translate(res.Error, nil))
		return
	}
	if res.RowsAffected == 0 {
		httperr.Respond(c, errUserNotFound)
		return
	}

	h.audit.Dispatch(middleware.Actor(c).Event(audit.UserDeleted, "user", id, nil))
	httpresp.Message(c, "user deleted")
}

// --------- Helpers ---------

func (h *AuthHandler) currentUser(c *gin.Context) (*models.User, error) {
	id, ok := middleware.UserID(c)
	if !ok {
		return nil, httperr.Unauthorized("user_not_in_context", "authentication required")
	}

	var user models.User
	if err := h.db.WithContext(c.Request.Context()).First(&user, id).Error; err != nil {
		return nil, repository.Translate(err, errUserNotFound)
	}
	return &user, nil
}

func hashPassword(pw string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		return "", httperr.Internal("hash_failed", "failed to hash password", err)
	}
	return string(hashed), nil
}

// --------- JWT ---------

func (h *AuthHandler) generateToken(user *models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"role":  user.Role,
		"email": user.Email,
		"exp":   now.Add(h.config.JWTTTL()).Unix(),
		"iat":   now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.config.JWTSecret))
}
