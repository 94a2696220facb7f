package handlers

import (
	"net/http"

	"marksync/services"
	"marksync/utils"

	"github.com/gin-gonic/gin"
)

type PatchSettingsRequest struct {
	ShowTitles    *bool `json:"show_titles"`
	TilesPerRow   *int  `json:"tiles_per_row"`
	TileGap       *int  `json:"tile_gap"`
	ShowAddButton *bool `json:"show_add_button"`
}

func GetSettings(c *gin.Context) {
	sub := c.GetString("sub")

	settings, err := getServices().Settings.GetSettings(c.Request.Context(), sub)
	if respondServiceError(c, err) {
		return
	}
	utils.Success(c, settings)
}

func PatchSettings(c *gin.Context) {
	sub := c.GetString("sub")

	var req PatchSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusUnprocessableEntity, "invalid request body: "+err.Error())
		return
	}

	settings, err := getServices().Settings.PatchSettings(c.Request.Context(), sub, services.SettingsPatchInput{
		ShowTitles:    req.ShowTitles,
		TilesPerRow:   req.TilesPerRow,
		TileGap:       req.TileGap,
		ShowAddButton: req.ShowAddButton,
	})
	if respondServiceError(c, err) {
		return
	}
	utils.Success(c, settings)
}
