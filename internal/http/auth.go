package http

import (
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/auth"
)

// TokenController exchanges credentials for API tokens.
type TokenController struct {
	service *auth.Service
	limiter *auth.RateLimiter
}

func NewTokenController(service *auth.Service, limiter *auth.RateLimiter) *TokenController {
	return &TokenController{service: service, limiter: limiter}
}

type tokenRequest struct {
	Login    string `json:"login" form:"login" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

// Exchange handles POST /api/auth/token. Each successful exchange replaces
// the user's previous token.
func (tc *TokenController) Exchange(c *gin.Context) {
	var req tokenRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBadRequest(c, "login and password are required")
		return
	}

	ip := c.ClientIP()
	if tc.limiter != nil {
		if allowed, retryAfter := tc.limiter.Allow(ip, req.Login); !allowed {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
			c.JSON(http.StatusTooManyRequests, ErrorResponse{
				Error: "too many failed attempts, try again later",
				Code:  "RATE_LIMITED",
			})
			return
		}
	}

	user, err := tc.service.Authenticate(req.Login, req.Password)
	if err != nil {
		if tc.limiter != nil {
			tc.limiter.RecordFailure(ip, req.Login)
		}
		respondDomainError(c, err, "authenticate")
		return
	}

	token, err := tc.service.IssueToken(user.ID)
	if err != nil {
		respondInternalError(c, err, "issue token")
		return
	}
	if tc.limiter != nil {
		tc.limiter.RecordSuccess(ip, req.Login)
	}

	c.JSON(http.StatusOK, gin.H{
		"token":    token,
		"user_id":  user.ID,
		"username": user.Username,
	})
}

// Revoke handles DELETE /api/auth/token for the authenticated user.
func (tc *TokenController) Revoke(c *gin.Context) {
	userID := GetUserID(c)
	if userID == 0 || auth.GetAuthType(c) != auth.AuthTypeBearer {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "authentication required", Code: "UNAUTHORIZED"})
		return
	}
	if err := tc.service.RevokeToken(userID); err != nil {
		respondInternalError(c, err, "revoke token")
		return
	}
	respondSuccess(c, "token revoked")
}
