package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/learnhubhq/learnhub-api/internal/domain"
	"github.com/learnhubhq/learnhub-api/internal/usecase"
)

// UserHandler is the HTTP delivery layer for accounts: registration,
// authentication, the OTP verification flows, profile management and admin
// user operations.
type UserHandler struct {
	usecase  *usecase.UserUsecase
	sessions *SessionManager
}

// NewUserHandler registers the account routes on the provided echo group.
func NewUserHandler(e *echo.Group, u *usecase.UserUsecase, sessions *SessionManager, gate *Gate) {
	handler := &UserHandler{usecase: u, sessions: sessions}

	e.POST("/registration", handler.Registration)
	e.POST("/activate-user", handler.ActivateUser)
	e.POST("/login", handler.Login)
	e.POST("/logout", handler.Logout, gate.Authenticate)
	e.POST("/forgot-password", handler.ForgotPassword)
	e.POST("/accept-reset-password-otp", handler.AcceptResetPasswordOTP)
	e.PUT("/reset-password", handler.ResetPassword)
	e.GET("/me", handler.Me, gate.Authenticate)
	e.POST("/social-auth", handler.SocialAuth)
	e.POST("/change-user-email", handler.ChangeUserEmail, gate.Authenticate)
	e.PUT("/update-user-email", handler.UpdateUserEmail, gate.Authenticate)
	e.PUT("/update-user-password", handler.UpdateUserPassword, gate.Authenticate)
	e.PUT("/update-user-name", handler.UpdateUserName, gate.Authenticate)
	e.PUT("/update-user-avatar", handler.UpdateUserAvatar, gate.Authenticate)

	e.GET("/get-users", handler.GetUsers, gate.Authenticate, AuthorizeRoles(domain.RoleAdmin))
	e.PUT("/update-user", handler.UpdateUserRole, gate.Authenticate, AuthorizeRoles(domain.RoleAdmin))
	e.DELETE("/delete-user/:id", handler.DeleteUser, gate.Authenticate, AuthorizeRoles(domain.RoleAdmin))
}

type registrationRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration starts the activation challenge. The OTP only travels via
// email; the response carries the challenge token.
func (h *UserHandler) Registration(c echo.Context) error {
	var req registrationRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, errInvalidBody)
	}

	token, err := h.usecase.Register(c.Request().Context(), req.Name, req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"success":         true,
		"message":         "Please check your email: " + req.Email + " to activate your account",
		"activationToken": token,
	})
}

type activationRequest struct {
	ActivationToken string `json:"activation_token"`
	ActivationCode  string `json:"activation_code"`
}

func (h *UserHandler) ActivateUser(c echo.Context) error {
	var req activationRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, errInvalidBody)
	}

	if _, err := h.usecase.Activate(c.Request().Context(), req.ActivationToken, req.ActivationCode); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"message": "Account created successfully",
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *UserHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, errInvalidBody)
	}

	user, err := h.usecase.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}
	return h.sendSession(c, user)
}

func (h *UserHandler) Logout(c echo.Context) error {
	h.sessions.Clear(c)
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Logged out successfully",
	})
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

func (h *UserHandler) ForgotPassword(c echo.Context) error {
	var req forgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, errInvalidBody)
	}

	token, err := h.usecase.ForgotPassword(c.Request().Context(), req.Email)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"success":            true,
		"message":            "Please check your email: " + req.Email + " to reset your password",
		"ResetPasswordToken": token,
	})
}

type acceptResetOTPRequest struct {
	ResetPasswordToken string `json:"resetPassword_Token"`
	ResetPasswordOTP   string `json:"resetPassword_Otp"`
}

func (h *UserHandler) AcceptResetPasswordOTP(c echo.Context) error {
	var req acceptResetOTPRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, errInvalidBody)
	}

	grant, err := h.usecase.AcceptResetOTP(c.Request().Context(), req.ResetPasswordToken, req.ResetPasswordOTP)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"success":    true,
		"ResetToken": grant,
	})
}

type resetPasswordRequest struct {
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
	ResetToken      string `json:"resetPassword_token"`
}

func (h *UserHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, errInvalidBody)
	}

	user, err := h.usecase.ResetPassword(c.Request().Context(), req.ResetToken, req.NewPassword, req.ConfirmPassword)
	if err != nil {
		return respondError(c, err)
	}

	// If the caller is logged in as the account whose password just
	// changed, force a re-login by clearing the session.
	loggedOut := false
	if accessToken := readCookie(c, accessCookie); accessToken != "" {
		if claims, err := h.sessions.codec.VerifyAccess(accessToken); err == nil && claims.UserID == user.ID {
			h.sessions.Clear(c)
			loggedOut = true
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":    true,
		"message":    "Password reset successfully",
		"logoutUser": loggedOut,
	})
}

func (h *UserHandler) Me(c echo.Context) error {
	user := principalFrom(c)
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"user":    user,
	})
}

type socialAuthRequest struct {
	Email  string `json:"email"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

func (h *UserHandler) SocialAuth(c echo.Context) error {
	var req socialAuthRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, errInvalidBody)
	}

	user, err := h.usecase.SocialAuth(c.Request().Context(), req.Email, req.Name, req.Avatar)
	if err != nil {
		return respondError(c, err)
	}
	return h.sendSession(c, user)
}

type changeEmailRequest struct {
	NewEmail string `json:"newEmail"`
}

func (h *UserHandler) ChangeUserEmail(c echo.Context) error {
	var req changeEmailRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, errInvalidBody)
	}

	user := principalFrom(c)
	token, err := h.usecase.RequestEmailChange(c.Request().Context(), user, req.NewEmail)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"success":          true,
		"message":          "Please check your email: " + req.NewEmail + " to verify",
		"updateEmailToken": token,
	})
}

type updateEmailRequest struct {
	UpdateEmailOTP   string `json:"updateEmail_Otp"`
	UpdateEmailToken string `json:"updateEmail_Token"`
	CurrentEmail     string `json:"currentEmail"`
	NewEmail         string `json:"newEmail"`
	Password         string `json:"password"`
}

func (h *UserHandler) UpdateUserEmail(c echo.Context) error {
	var req updateEmailRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, errInvalidBody)
	}

	principal := principalFrom(c)
	user, err := h.usecase.UpdateEmail(c.Request().Context(),
		principal.ID, req.UpdateEmailToken, req.UpdateEmailOTP,
		req.CurrentEmail, req.NewEmail, req.Password)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"user":    user,
	})
}

type updatePasswordRequest struct {
	CurrentPassword    string `json:"currentPassword"`
	NewPassword        string `json:"newPassword"`
	ConfirmNewPassword string `json:"confirmNewPassword"`
}

func (h *UserHandler) UpdateUserPassword(c echo.Context) error {
	var req updatePasswordRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, errInvalidBody)
	}

	principal := principalFrom(c)
	err := h.usecase.UpdatePassword(c.Request().Context(),
		principal.ID, req.CurrentPassword, req.NewPassword, req.ConfirmNewPassword)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"message": "Password updated successfully",
	})
}

type updateNameRequest struct {
	Name string `json:"name"`
}

func (h *UserHandler) UpdateUserName(c echo.Context) error {
	var req updateNameRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, errInvalidBody)
	}

	principal := principalFrom(c)
	user, err := h.usecase.UpdateName(c.Request().Context(), principal.ID, req.Name)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"user":    user,
	})
}

type updateAvatarRequest struct {
	Avatar string `json:"avatar"`
}

func (h *UserHandler) UpdateUserAvatar(c echo.Context) error {
	var req updateAvatarRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, errInvalidBody)
	}

	principal := principalFrom(c)
	user, err := h.usecase.UpdateAvatar(c.Request().Context(), principal.ID, req.Avatar)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"user":    user,
	})
}

func (h *UserHandler) GetUsers(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	users, totalPages, err := h.usecase.ListUsers(c.Request().Context(), page, limit)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":    true,
		"totalPages": totalPages,
		"users":      users,
	})
}

type updateRoleRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (h *UserHandler) UpdateUserRole(c echo.Context) error {
	var req updateRoleRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, errInvalidBody)
	}

	user, err := h.usecase.UpdateRole(c.Request().Context(), req.Email, req.Role)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"user":    user,
	})
}

func (h *UserHandler) DeleteUser(c echo.Context) error {
	if err := h.usecase.DeleteUser(c.Request().Context(), c.Param("id")); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "User deleted successfully",
	})
}

// sendSession issues a token pair, sets the cookies and returns the login
// response body. The refresh token never appears in the body.
func (h *UserHandler) sendSession(c echo.Context, user *domain.User) error {
	accessToken, refreshToken, err := h.sessions.Issue(user)
	if err != nil {
		return respondError(c, err)
	}
	h.sessions.SetCookies(c, accessToken, refreshToken)

	return c.JSON(http.StatusOK, echo.Map{
		"success":     true,
		"user":        user,
		"accessToken": accessToken,
	})
}
