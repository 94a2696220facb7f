package handlers

import (
	"net/http"
	"strconv"

	"marksync/services"
	"marksync/utils"

	"github.com/gin-gonic/gin"
)

type CreateBookmarkRequest struct {
	Title    string   `json:"title" binding:"required"`
	URL      string   `json:"url" binding:"required"`
	Favicon  *string  `json:"favicon"`
	ParentID *uint    `json:"parent_id"`
	Position *float64 `json:"position"`
}

// PatchBookmarkRequest keeps field presence: a key that is absent from the
// payload is left untouched, a key that is present as null clears or moves.
type PatchBookmarkRequest struct {
	Title    utils.Optional[string]  `json:"title"`
	URL      utils.Optional[string]  `json:"url"`
	Favicon  utils.Optional[string]  `json:"favicon"`
	ParentID utils.Optional[uint]    `json:"parent_id"`
	Position utils.Optional[float64] `json:"position"`
}

func parseItemID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.Error(c, http.StatusUnprocessableEntity, "invalid item id")
		return 0, false
	}
	return uint(id), true
}

func ListBookmarks(c *gin.Context) {
	sub := c.GetString("sub")

	var folderFilter *string
	if raw, ok := c.GetQuery("folder_id"); ok {
		folderFilter = &raw
	}

	bookmarks, err := getServices().Bookmarks.ListBookmarks(c.Request.Context(), sub, folderFilter)
	if respondServiceError(c, err) {
		return
	}
	utils.Success(c, bookmarks)
}

func CreateBookmark(c *gin.Context) {
	sub := c.GetString("sub")

	var req CreateBookmarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusUnprocessableEntity, "invalid request body: "+err.Error())
		return
	}

	bookmark, err := getServices().Bookmarks.CreateBookmark(c.Request.Context(), sub, services.BookmarkCreateInput{
		Title:    req.Title,
		URL:      req.URL,
		Favicon:  req.Favicon,
		ParentID: req.ParentID,
		Position: req.Position,
	})
	if respondServiceError(c, err) {
		return
	}
	c.JSON(http.StatusCreated, bookmark)
}

func GetBookmark(c *gin.Context) {
	sub := c.GetString("sub")
	bookmarkID, ok := parseItemID(c)
	if !ok {
		return
	}

	bookmark, err := getServices().Bookmarks.GetBookmark(c.Request.Context(), sub, bookmarkID)
	if respondServiceError(c, err) {
		return
	}
	utils.Success(c, bookmark)
}

func ReplaceBookmark(c *gin.Context) {
	sub := c.GetString("sub")
	bookmarkID, ok := parseItemID(c)
	if !ok {
		return
	}

	var req CreateBookmarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusUnprocessableEntity, "invalid request body: "+err.Error())
		return
	}

	bookmark, err := getServices().Bookmarks.ReplaceBookmark(c.Request.Context(), sub, bookmarkID, services.BookmarkCreateInput{
		Title:    req.Title,
		URL:      req.URL,
		Favicon:  req.Favicon,
		ParentID: req.ParentID,
		Position: req.Position,
	})
	if respondServiceError(c, err) {
		return
	}
	utils.Success(c, bookmark)
}

func PatchBookmark(c *gin.Context) {
	sub := c.GetString("sub")
	bookmarkID, ok := parseItemID(c)
	if !ok {
		return
	}

	var req PatchBookmarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusUnprocessableEntity, "invalid request body: "+err.Error())
		return
	}

	bookmark, err := getServices().Bookmarks.PatchBookmark(c.Request.Context(), sub, bookmarkID, services.BookmarkPatchInput{
		Title:    req.Title,
		URL:      req.URL,
		Favicon:  req.Favicon,
		ParentID: req.ParentID,
		Position: req.Position,
	})
	if respondServiceError(c, err) {
		return
	}
	utils.Success(c, bookmark)
}

func DeleteBookmark(c *gin.Context) {
	sub := c.GetString("sub")
	bookmarkID, ok := parseItemID(c)
	if !ok {
		return
	}

	err := getServices().Bookmarks.DeleteBookmark(c.Request.Context(), sub, bookmarkID)
	if respondServiceError(c, err) {
		return
	}
	c.Status(http.StatusNoContent)
}
