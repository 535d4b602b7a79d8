package controllers

import (
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yeremiapane/restaurant-hub/dto"
	"github.com/yeremiapane/restaurant-hub/middlewares"
	"github.com/yeremiapane/restaurant-hub/services"
	"github.com/yeremiapane/restaurant-hub/utils"
)

const oauthStateCookie = "oauth_state"

// CookieConfig controls how the session cookie is issued.
type CookieConfig struct {
	Secure      bool
	TTL         time.Duration
	FrontendURL string
}

type RestaurantController struct {
	service services.RestaurantService
	cookies CookieConfig
}

func NewRestaurantController(service services.RestaurantService, cookies CookieConfig) *RestaurantController {
	return &RestaurantController{service: service, cookies: cookies}
}

// setCookie issues an HTTP-only cookie. Production runs the frontend on
// another site, so the cookie must be Secure with SameSite=None there.
func (rc *RestaurantController) setCookie(c *gin.Context, name, value string, maxAge int) {
	if rc.cookies.Secure {
		c.SetSameSite(http.SameSiteNoneMode)
	} else {
		c.SetSameSite(http.SameSiteLaxMode)
	}
	c.SetCookie(name, value, maxAge, "/", "", rc.cookies.Secure, true)
}

func (rc *RestaurantController) setSession(c *gin.Context, token string) {
	rc.setCookie(c, middlewares.TokenCookie, token, int(rc.cookies.TTL.Seconds()))
}

func (rc *RestaurantController) clearSession(c *gin.Context) {
	rc.setCookie(c, middlewares.TokenCookie, "", -1)
}

func (rc *RestaurantController) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := bindJSON(c, &req); err != nil {
		c.Error(err)
		return
	}

	rest, err := rc.service.Register(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Restaurant registered, check your email to verify the account", rest)
}

func (rc *RestaurantController) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := bindJSON(c, &req); err != nil {
		c.Error(err)
		return
	}

	auth, err := rc.service.Login(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}
	rc.setSession(c, auth.Token)
	utils.RespondJSON(c, http.StatusOK, "Login successful", auth.Restaurant)
}

func (rc *RestaurantController) Logout(c *gin.Context) {
	token, _ := c.Cookie(middlewares.TokenCookie)
	if err := rc.service.Logout(c.Request.Context(), token); err != nil {
		c.Error(err)
		return
	}
	rc.clearSession(c)
	utils.RespondJSON(c, http.StatusOK, "Logout successful", nil)
}

func (rc *RestaurantController) ChangePassword(c *gin.Context) {
	id, err := sessionRestaurant(c)
	if err != nil {
		c.Error(err)
		return
	}
	var req dto.ChangePasswordRequest
	if err := bindJSON(c, &req); err != nil {
		c.Error(err)
		return
	}

	if err := rc.service.ChangePassword(c.Request.Context(), id, req); err != nil {
		c.Error(err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Password updated", nil)
}

func (rc *RestaurantController) RecoverPassword(c *gin.Context) {
	var req dto.EmailRequest
	if err := bindJSON(c, &req); err != nil {
		c.Error(err)
		return
	}

	if err := rc.service.RecoverPassword(c.Request.Context(), req.Email); err != nil {
		c.Error(err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "A new password was sent to your email", nil)
}

func (rc *RestaurantController) HasPassword(c *gin.Context) {
	var req dto.EmailRequest
	if err := bindJSON(c, &req); err != nil {
		c.Error(err)
		return
	}

	has, err := rc.service.HasPassword(c.Request.Context(), req.Email)
	if err != nil {
		c.Error(err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "", gin.H{"has_password": has})
}

func (rc *RestaurantController) VerifyEmail(c *gin.Context) {
	rest, err := rc.service.VerifyEmail(c.Request.Context(), c.Query("token"))
	if err != nil {
		c.Error(err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Email verified", rest)
}

func (rc *RestaurantController) AuthStatus(c *gin.Context) {
	id, err := sessionRestaurant(c)
	if err != nil {
		c.Error(err)
		return
	}
	rest, err := rc.service.GetByID(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "", gin.H{"authenticated": true, "restaurant": rest})
}

// GoogleLogin redirects to the Google consent screen. The state value is
// kept in a short-lived cookie and checked on the callback.
func (rc *RestaurantController) GoogleLogin(c *gin.Context) {
	state := uuid.NewString()
	rc.setCookie(c, oauthStateCookie, state, 600)
	c.Redirect(http.StatusTemporaryRedirect, rc.service.GoogleAuthURL(state))
}

func (rc *RestaurantController) GoogleCallback(c *gin.Context) {
	state, err := c.Cookie(oauthStateCookie)
	rc.setCookie(c, oauthStateCookie, "", -1)
	if err != nil || state == "" || state != c.Query("state") {
		c.Error(utils.NewValidationError("invalid oauth state"))
		return
	}

	auth, err := rc.service.LoginWithGoogle(c.Request.Context(), c.Query("code"))
	if err != nil {
		utils.ErrorLogger.Printf("Google sign-in failed: %v", err)
		c.Redirect(http.StatusFound, rc.cookies.FrontendURL+"/login?error="+url.QueryEscape("google_auth_failed"))
		return
	}
	rc.setSession(c, auth.Token)
	c.Redirect(http.StatusFound, rc.cookies.FrontendURL+"/dashboard")
}

func (rc *RestaurantController) List(c *gin.Context) {
	var filter dto.RestaurantFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.Error(utils.NewValidationError("invalid filter: " + err.Error()))
		return
	}

	list, err := rc.service.List(c.Request.Context(), filter)
	if err != nil {
		c.Error(err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "", list)
}

func (rc *RestaurantController) GetByID(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	rest, err := rc.service.GetByID(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "", rest)
}

func (rc *RestaurantController) Update(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	var req dto.RestaurantUpdate
	if err := bindJSON(c, &req); err != nil {
		c.Error(err)
		return
	}

	rest, err := rc.service.Update(c.Request.Context(), id, req)
	if err != nil {
		c.Error(err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Restaurant updated", rest)
}

func (rc *RestaurantController) Delete(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	if err := rc.service.Delete(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}
	if err := rc.service.Logout(c.Request.Context(), middlewares.SessionToken(c)); err != nil {
		utils.ErrorLogger.Printf("Error revoking session of deleted restaurant: %v", err)
	}
	rc.clearSession(c)
	utils.RespondJSON(c, http.StatusOK, "Restaurant deleted", gin.H{"id": id})
}

func (rc *RestaurantController) UploadImage(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	file, err := c.FormFile("image")
	if err != nil {
		c.Error(utils.NewValidationError("image file is required"))
		return
	}

	rest, err := rc.service.SetImage(c.Request.Context(), id, file)
	if err != nil {
		c.Error(err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Image updated", rest)
}
