package auth

import (
	"net/http"
	"strings"
	"time"

	"vantor/database"
	"vantor/middleware"
	"vantor/models"
	"vantor/utils"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,emailok"`
	Password string `json:"password" validate:"required,pwdmin"`
	IsApp    *bool  `json:"is_app,omitempty"` // Optional: if true, token expires in 30 days
}

func LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}

	// Check maintenance mode
	var appSetting models.Setting
	if err := database.DB.Model(&models.Setting{}).Select("maintenance, name").Take(&appSetting).Error; err == nil && appSetting.Maintenance {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{
			Success: false,
			Message: "The application is under maintenance. Please try again later.",
			Data:    map[string]interface{}{"maintenance": true, "application": appSetting.Name},
		})
		return
	}

	db := database.DB

	var user models.User
	if err := db.Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email))).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Incorrect email or password"})
			return
		}
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	// Check user status - only Active users can login
	status := strings.ToLower(user.Status)
	if status != "active" {
		if status == "suspend" {
			utils.WriteJSON(w, http.StatusForbidden, utils.APIResponse{Success: false, Message: "Your account has been suspended, please contact support"})
			return
		}
		utils.WriteJSON(w, http.StatusForbidden, utils.APIResponse{Success: false, Message: "Your account is inactive, please contact support"})
		return
	}

	// check account lockout
	if locked, retry := middleware.IsAccountLocked(user.ID); locked {
		utils.WriteJSON(w, http.StatusTooManyRequests, utils.APIResponse{Success: false, Message: "Too many login attempts. Try again later.", Data: map[string]interface{}{"retry_after_seconds": int(retry.Seconds())}})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		// record failed login attempt for lockout tracking
		middleware.RecordFailedLogin(user.ID)
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Incorrect email or password"})
		return
	}

	// on successful login reset failed login counter
	middleware.ResetFailedLogin(user.ID)

	// Determine token expiry based on is_app flag
	var tokenExpiry time.Duration
	isApp := req.IsApp != nil && *req.IsApp
	if isApp {
		tokenExpiry = 30 * 24 * time.Hour
	} else {
		tokenExpiry = 15 * time.Minute
	}
	exp := time.Now().Add(tokenExpiry)

	// generate access token and refresh token (stored in DB)
	accessToken, err := utils.GenerateAccessTokenWithExpiry(user.ID, "user", tokenExpiry)
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Login failed"})
		return
	}
	refreshJTI, _, err := utils.GenerateRefreshToken(user.ID)
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to store refresh token"})
		return
	}

	// Wallet balances for the dashboard payload
	var wallets []models.Wallet
	db.Where("user_id = ?", user.ID).Order("kind asc").Find(&wallets)
	walletData := make([]map[string]interface{}, 0, len(wallets))
	for _, wlt := range wallets {
		walletData = append(walletData, map[string]interface{}{
			"kind":              wlt.Kind,
			"available_balance": wlt.AvailableBalance.String(),
			"locked_balance":    wlt.LockedBalance.String(),
		})
	}

	setting, settingErr := models.GetSetting(db)
	healthy := settingErr == nil
	if setting == nil {
		setting = &models.Setting{}
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Login successful! Redirecting to dashboard...",
		Data: map[string]interface{}{
			"access_token":  accessToken,
			"access_expire": exp.UTC().Format(time.RFC3339),
			"refresh_token": refreshJTI,
			"user": map[string]interface{}{
				"name":       user.Name,
				"email":      user.Email,
				"reff_code":  user.ReffCode,
				"kyc_status": user.KycStatus,
				"wallets":    walletData,
			},
			"application": map[string]interface{}{
				"name":         setting.Name,
				"company":      setting.Company,
				"logo":         setting.Logo,
				"currency":     setting.Currency,
				"min_withdraw": setting.MinWithdraw.String(),
				"max_withdraw": setting.MaxWithdraw.String(),
				"min_deposit":  setting.MinDeposit.String(),
				"link_support": setting.LinkSupport,
				"healthy":      healthy,
			},
		},
	})
}
