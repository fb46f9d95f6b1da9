package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/codekart/codekart/internal/models"
	"github.com/codekart/codekart/internal/upload"
)

type SettingsHandler struct {
	DB      *gorm.DB
	Uploads *upload.Store
}

// GetSettings returns every setting flattened into a key/value map.
func (h *SettingsHandler) GetSettings(c echo.Context) error {
	var settings []models.Setting
	if err := h.DB.Find(&settings).Error; err != nil {
		return Fail(c, http.StatusInternalServerError, "could not load settings")
	}

	out := make(map[string]string, len(settings))
	for _, s := range settings {
		out[s.Key] = s.Value
	}
	return OK(c, http.StatusOK, out)
}

func (h *SettingsHandler) GetSetting(c echo.Context) error {
	var setting models.Setting
	if err := h.DB.Where("key = ?", c.Param("key")).First(&setting).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Fail(c, http.StatusNotFound, "setting not found")
		}
		return Fail(c, http.StatusInternalServerError, "could not load setting")
	}
	return OK(c, http.StatusOK, setting)
}

// GetUpiQr is the convenience accessor the checkout page polls. A missing
// key is not an error, the value is just null.
func (h *SettingsHandler) GetUpiQr(c echo.Context) error {
	var setting models.Setting
	if err := h.DB.Where("key = ?", models.UpiQrKey).First(&setting).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return OK(c, http.StatusOK, nil)
		}
		return Fail(c, http.StatusInternalServerError, "could not load setting")
	}
	return OK(c, http.StatusOK, setting.Value)
}

// UpsertSetting creates or replaces a setting. When an image file is part
// of the form, the stored file path becomes the value.
func (h *SettingsHandler) UpsertSetting(c echo.Context) error {
	key := c.FormValue("key")
	if key == "" {
		return Fail(c, http.StatusBadRequest, "key is required")
	}
	value := c.FormValue("value")
	settingType := c.FormValue("type")
	if settingType != "" && !models.ValidSettingType(settingType) {
		return Fail(c, http.StatusBadRequest, "unknown setting type")
	}

	if file, err := c.FormFile("image"); err == nil {
		path, err := h.Uploads.SaveImage(file)
		if err != nil {
			return Fail(c, http.StatusBadRequest, err.Error())
		}
		value = path
		if settingType == "" {
			settingType = models.SettingTypeImage
		}
	}

	var setting models.Setting
	err := h.DB.Where("key = ?", key).First(&setting).Error
	switch {
	case err == nil:
		setting.Value = value
		if settingType != "" {
			setting.Type = settingType
		}
		if err := h.DB.Save(&setting).Error; err != nil {
			return Fail(c, http.StatusInternalServerError, "could not save setting")
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		if settingType == "" {
			settingType = models.SettingTypeString
		}
		setting = models.Setting{Key: key, Value: value, Type: settingType}
		if err := h.DB.Create(&setting).Error; err != nil {
			return Fail(c, http.StatusInternalServerError, "could not save setting")
		}
	default:
		return Fail(c, http.StatusInternalServerError, "could not save setting")
	}

	return OK(c, http.StatusOK, setting)
}

func (h *SettingsHandler) DeleteSetting(c echo.Context) error {
	if err := h.DB.Where("key = ?", c.Param("key")).Delete(&models.Setting{}).Error; err != nil {
		return Fail(c, http.StatusInternalServerError, "could not delete setting")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "setting deleted"})
}
