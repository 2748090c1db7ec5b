package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	passwordvalidator "github.com/wagslane/go-password-validator"
	"go.uber.org/zap"

	"barter-auth/internal/domain"
	"barter-auth/internal/observability"
	"barter-auth/internal/service"
)

const serverErrorMessage = "Server did not respond."

// bcrypt solo admite hasta 72 bytes.
const maxPasswordBytes = 72

// AccountHandler mantiene dependencias para registro, login y perfil.
type AccountHandler struct {
	logger     *zap.Logger
	accounts   *service.AccountService
	metrics    *observability.Metrics
	minEntropy float64
}

// NewAccountHandler crea el handler. minEntropy <= 0 desactiva el chequeo de fortaleza de password.
func NewAccountHandler(logger *zap.Logger, accounts *service.AccountService, metrics *observability.Metrics, minEntropy float64) *AccountHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AccountHandler{
		logger:     logger,
		accounts:   accounts,
		metrics:    metrics,
		minEntropy: minEntropy,
	}
}

type registerRequest struct {
	LoginName   string `json:"loginName" binding:"required,notblank,max=30"`
	Email       string `json:"email" binding:"required,email"`
	RawPassword string `json:"rawPassword" binding:"required,min=6,max=72"`
	FirstName   string `json:"firstName" binding:"required,notblank,max=50"`
	SecondName  string `json:"secondName" binding:"required,notblank,max=50"`
}

// Register maneja POST /register.
func (h *AccountHandler) Register(c *gin.Context) {
	var req registerRequest
	if fieldErrs, ok := bindJSON(c, &req); !ok {
		h.logger.Warn("invalid register request", zap.Any("errors", fieldErrs))
		h.metrics.RecordRegistration(observability.OutcomeInvalidInput)
		c.JSON(http.StatusBadRequest, fieldErrs)
		return
	}
	if len(req.RawPassword) > maxPasswordBytes {
		h.metrics.RecordRegistration(observability.OutcomeInvalidInput)
		c.JSON(http.StatusBadRequest, gin.H{"rawPassword": "Password must be at most 72 bytes"})
		return
	}
	if h.minEntropy > 0 {
		if err := passwordvalidator.Validate(req.RawPassword, h.minEntropy); err != nil {
			h.metrics.RecordRegistration(observability.OutcomeInvalidInput)
			c.JSON(http.StatusBadRequest, gin.H{"rawPassword": err.Error()})
			return
		}
	}

	account, err := h.accounts.Register(c.Request.Context(), service.RegisterInput{
		LoginName:  req.LoginName,
		Email:      req.Email,
		Password:   req.RawPassword,
		FirstName:  req.FirstName,
		SecondName: req.SecondName,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDuplicateEmail):
			h.metrics.RecordRegistration(observability.OutcomeDuplicateEmail)
			c.JSON(http.StatusBadRequest, gin.H{"email": "Email already exists"})
		case errors.Is(err, service.ErrDuplicateLoginName):
			h.metrics.RecordRegistration(observability.OutcomeDuplicateLogin)
			c.JSON(http.StatusBadRequest, gin.H{"email": "Username already exists"})
		default:
			h.logger.Error("register failed", zap.Error(err))
			h.metrics.RecordRegistration(observability.OutcomeError)
			c.JSON(http.StatusInternalServerError, gin.H{"errMsg": serverErrorMessage})
		}
		return
	}

	h.metrics.RecordRegistration(observability.OutcomeSuccess)
	c.JSON(http.StatusOK, account)
}

type loginRequest struct {
	Identifier  string `json:"identifier" binding:"required,notblank"`
	RawPassword string `json:"rawPassword" binding:"required"`
}

// Login maneja POST /login.
func (h *AccountHandler) Login(c *gin.Context) {
	var req loginRequest
	if fieldErrs, ok := bindJSON(c, &req); !ok {
		h.logger.Warn("invalid login request", zap.Any("errors", fieldErrs))
		h.metrics.RecordLogin(observability.OutcomeInvalidInput)
		c.JSON(http.StatusBadRequest, fieldErrs)
		return
	}

	res, err := h.accounts.Login(c.Request.Context(), req.Identifier, req.RawPassword)
	if err != nil {
		var notVerified *service.EmailNotVerifiedError
		switch {
		case errors.Is(err, service.ErrEmailNotFound):
			h.metrics.RecordLogin(observability.OutcomeNotFound)
			c.JSON(http.StatusNotFound, gin.H{
				"emailnotfound": "Email not found",
				"message":       "Email not found.",
			})
		case errors.Is(err, service.ErrUsernameNotFound):
			h.metrics.RecordLogin(observability.OutcomeNotFound)
			c.JSON(http.StatusNotFound, gin.H{
				"usernamenotfound": "Username not found",
				"message":          "Username not found.",
			})
		case errors.Is(err, service.ErrIncorrectPassword):
			h.metrics.RecordLogin(observability.OutcomeIncorrectPass)
			c.JSON(http.StatusNotFound, gin.H{
				"passwordincorrect": "Incorrect password",
				"message":           "Password you entered is incorrect.",
			})
		case errors.As(err, &notVerified):
			h.metrics.RecordLogin(observability.OutcomeEmailNotVerified)
			c.JSON(http.StatusNotFound, gin.H{
				"emailnotverified": "Please verify your email address to login. Verification email sent to " + notVerified.Email,
				"message":          "Your email is not yet verified.",
			})
		default:
			h.logger.Error("login failed", zap.Error(err))
			h.metrics.RecordLogin(observability.OutcomeError)
			c.JSON(http.StatusInternalServerError, gin.H{"errMsg": serverErrorMessage})
		}
		return
	}

	h.metrics.RecordLogin(observability.OutcomeSuccess)
	c.JSON(http.StatusOK, gin.H{"success": true, "token": "Bearer " + res.Token})
}

// ConfirmEmail maneja GET /confirmation/:token.
func (h *AccountHandler) ConfirmEmail(c *gin.Context) {
	_, err := h.accounts.VerifyEmail(c.Request.Context(), c.Param("token"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrVerificationTokenExpired):
			c.JSON(http.StatusBadRequest, gin.H{"token": "Verification link has expired"})
		case errors.Is(err, service.ErrVerificationTokenInvalid):
			c.JSON(http.StatusBadRequest, gin.H{"token": "Verification link is invalid"})
		case errors.Is(err, service.ErrAccountNotFound):
			c.JSON(http.StatusNotFound, gin.H{"token": "Account not found"})
		default:
			h.logger.Error("email confirmation failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"errMsg": serverErrorMessage})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Email verified."})
}

// Me maneja GET /me.
func (h *AccountHandler) Me(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":        claims.AccountID,
		"loginName": claims.LoginName,
		"email":     claims.Email,
	})
}

type profileDetailsRequest struct {
	FirstName  string `json:"firstName" binding:"max=50"`
	SecondName string `json:"secondName" binding:"max=50"`
	Address    string `json:"address" binding:"max=200"`
	Headline   string `json:"headline" binding:"max=200"`
	DobDay     *int   `json:"dobDay" binding:"omitempty,min=1,max=31"`
	DobMonth   *int   `json:"dobMonth" binding:"omitempty,min=1,max=12"`
	DobYear    *int   `json:"dobYear" binding:"omitempty,min=1900,max=2100"`
	PhoneNo    string `json:"phoneNo" binding:"max=30"`
	Gender     string `json:"gender" binding:"max=20"`
}

// SaveProfileDetails maneja POST /profile-details.
func (h *AccountHandler) SaveProfileDetails(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	var req profileDetailsRequest
	if fieldErrs, ok := bindJSON(c, &req); !ok {
		h.logger.Warn("invalid profile details request", zap.Any("errors", fieldErrs))
		c.JSON(http.StatusBadRequest, fieldErrs)
		return
	}

	profile, err := h.accounts.SaveProfileDetails(c.Request.Context(), claims.AccountID, domain.ProfileDetails{
		FirstName:  req.FirstName,
		SecondName: req.SecondName,
		Address:    req.Address,
		Headline:   req.Headline,
		DobDay:     req.DobDay,
		DobMonth:   req.DobMonth,
		DobYear:    req.DobYear,
		PhoneNo:    req.PhoneNo,
		Gender:     req.Gender,
	})
	if err != nil {
		h.logger.Error("save profile details failed", zap.Error(err), zap.String("account_id", claims.AccountID))
		c.JSON(http.StatusInternalServerError, gin.H{"errMsg": serverErrorMessage})
		return
	}
	c.JSON(http.StatusCreated, profile)
}
