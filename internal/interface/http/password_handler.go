package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/erpmodern/auth-service/pkg/response"
	"github.com/erpmodern/auth-service/pkg/validation"
)

type PasswordHandler struct{}

func NewPasswordHandler() *PasswordHandler { return &PasswordHandler{} }

type validatePasswordRequest struct {
	Password string `json:"password" binding:"required"`
}

// Validate POST /api/auth/password/validate
// Checks password strength without storing the candidate anywhere.
func (h *PasswordHandler) Validate(c *gin.Context) {
	var req validatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	result := validation.ValidatePassword(req.Password)
	msg := "Password meets security requirements"
	if !result.Valid {
		msg = "Password does not meet security requirements"
	}
	response.Success(c, http.StatusOK, result, msg)
}
