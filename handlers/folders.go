package handlers

import (
	"net/http"

	"marksync/services"
	"marksync/utils"

	"github.com/gin-gonic/gin"
)

type CreateFolderRequest struct {
	Title    string   `json:"title" binding:"required"`
	ParentID *uint    `json:"parent_id"`
	Position *float64 `json:"position"`
}

type PatchFolderRequest struct {
	Title    utils.Optional[string]  `json:"title"`
	ParentID utils.Optional[uint]    `json:"parent_id"`
	Position utils.Optional[float64] `json:"position"`
}

func ListFolders(c *gin.Context) {
	sub := c.GetString("sub")

	folders, err := getServices().Folders.ListFolders(c.Request.Context(), sub)
	if respondServiceError(c, err) {
		return
	}
	utils.Success(c, folders)
}

func CreateFolder(c *gin.Context) {
	sub := c.GetString("sub")

	var req CreateFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusUnprocessableEntity, "invalid request body: "+err.Error())
		return
	}

	folder, err := getServices().Folders.CreateFolder(c.Request.Context(), sub, services.FolderCreateInput{
		Title:    req.Title,
		ParentID: req.ParentID,
		Position: req.Position,
	})
	if respondServiceError(c, err) {
		return
	}
	c.JSON(http.StatusCreated, folder)
}

func GetFolder(c *gin.Context) {
	sub := c.GetString("sub")
	folderID, ok := parseItemID(c)
	if !ok {
		return
	}

	folder, err := getServices().Folders.GetFolder(c.Request.Context(), sub, folderID)
	if respondServiceError(c, err) {
		return
	}
	utils.Success(c, folder)
}

func ReplaceFolder(c *gin.Context) {
	sub := c.GetString("sub")
	folderID, ok := parseItemID(c)
	if !ok {
		return
	}

	var req CreateFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusUnprocessableEntity, "invalid request body: "+err.Error())
		return
	}

	folder, err := getServices().Folders.ReplaceFolder(c.Request.Context(), sub, folderID, services.FolderCreateInput{
		Title:    req.Title,
		ParentID: req.ParentID,
		Position: req.Position,
	})
	if respondServiceError(c, err) {
		return
	}
	utils.Success(c, folder)
}

func PatchFolder(c *gin.Context) {
	sub := c.GetString("sub")
	folderID, ok := parseItemID(c)
	if !ok {
		return
	}

	var req PatchFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusUnprocessableEntity, "invalid request body: "+err.Error())
		return
	}

	folder, err := getServices().Folders.PatchFolder(c.Request.Context(), sub, folderID, services.FolderPatchInput{
		Title:    req.Title,
		ParentID: req.ParentID,
		Position: req.Position,
	})
	if respondServiceError(c, err) {
		return
	}
	utils.Success(c, folder)
}

func DeleteFolder(c *gin.Context) {
	sub := c.GetString("sub")
	folderID, ok := parseItemID(c)
	if !ok {
		return
	}

	err := getServices().Folders.DeleteFolder(c.Request.Context(), sub, folderID)
	if respondServiceError(c, err) {
		return
	}
	c.Status(http.StatusNoContent)
}
