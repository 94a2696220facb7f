package handlers

import (
	"net/http"

	"marksync/services"
	"marksync/utils"

	"github.com/gin-gonic/gin"
)

func ExportSnapshot(c *gin.Context) {
	sub := c.GetString("sub")

	snapshot, err := getServices().Transfer.ExportAll(c.Request.Context(), sub)
	if respondServiceError(c, err) {
		return
	}
	c.Header("Content-Disposition", `attachment; filename="marksync-export.json"`)
	utils.Success(c, snapshot)
}

func ImportSnapshot(c *gin.Context) {
	sub := c.GetString("sub")

	var snapshot services.Snapshot
	if err := c.ShouldBindJSON(&snapshot); err != nil {
		utils.Error(c, http.StatusUnprocessableEntity, "invalid request body: "+err.Error())
		return
	}

	err := getServices().Transfer.ImportAll(c.Request.Context(), sub, snapshot)
	if respondServiceError(c, err) {
		return
	}
	utils.SuccessWithMessage(c, "Import complete")
}
