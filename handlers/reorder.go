package handlers

import (
	"net/http"

	"marksync/services"
	"marksync/utils"

	"github.com/gin-gonic/gin"
)

type ReorderRequest struct {
	Items []services.ReorderEntry `json:"items" binding:"required"`
}

// Reorder applies a bulk position reassignment across items of any kind in
// one transaction.
func Reorder(c *gin.Context) {
	sub := c.GetString("sub")

	var req ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusUnprocessableEntity, "invalid request body: "+err.Error())
		return
	}

	err := getServices().Reorder.ApplyReorder(c.Request.Context(), sub, req.Items)
	if respondServiceError(c, err) {
		return
	}
	utils.SuccessWithMessage(c, "Reordered")
}
