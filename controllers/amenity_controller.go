package controllers

import (
	"net/http"

	"hotel-admin/models"
	"hotel-admin/utils"

	"github.com/gin-gonic/gin"
)

// GetAmenities returns the fixed amenity catalogue, optionally limited to
// one ?category=.
func GetAmenities(c *gin.Context) {
	category := models.AmenityCategory(c.Query("category"))
	if category == "" {
		utils.JSONSuccess(c, http.StatusOK, gin.H{
			"amenities":  models.Amenities,
			"categories": models.AmenityCategoryNames,
		})
		return
	}
	if _, ok := models.AmenityCategoryNames[category]; !ok {
		utils.JSONError(c, http.StatusBadRequest, "error.unknownCategory", "unknown amenity category: "+string(category))
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{
		"amenities":  models.AmenitiesByCategory(category),
		"categories": models.AmenityCategoryNames,
	})
}
