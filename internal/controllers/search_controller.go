package controllers

import (
	"net/http"

	"github.com/AahilGazali/cloud-drive-backend/internal/services"
	"github.com/gin-gonic/gin"
)

type SearchController struct {
	searchService *services.SearchService
}

func NewSearchController(searchService *services.SearchService) *SearchController {
	return &SearchController{searchService: searchService}
}

// Search matches the caller's files and folders by name.
// GET /search?q=<term>
func (sc *SearchController) Search(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	results, err := sc.searchService.Search(c.Request.Context(), userID, c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, results)
}
