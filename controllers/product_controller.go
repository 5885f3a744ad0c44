package controllers

import (
	"net/http"
	"strconv"

	"food-shop/services"

	"github.com/gin-gonic/gin"
)

type ProductController struct {
	catalogService *services.CatalogService
}

func NewProductController(catalogService *services.CatalogService) *ProductController {
	return &ProductController{catalogService: catalogService}
}

// GetCategories lists all categories with their products
func (pc *ProductController) GetCategories(c *gin.Context) {
	categories, appErr := pc.catalogService.ListCategories(c)
	if appErr != nil {
		respondError(c, appErr)
		return
	}
	c.JSON(http.StatusOK, categories)
}

// GetProducts lists products, optionally filtered by ?category_id=
func (pc *ProductController) GetProducts(c *gin.Context) {
	var categoryID uint
	if raw := c.Query("category_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category_id"})
			return
		}
		categoryID = uint(parsed)
	}

	products, appErr := pc.catalogService.ListProducts(c, categoryID)
	if appErr != nil {
		respondError(c, appErr)
		return
	}
	c.JSON(http.StatusOK, products)
}

// GetProduct returns one product with its priced sizes
func (pc *ProductController) GetProduct(c *gin.Context) {
	productID, ok := pathID(c, "product_id")
	if !ok {
		return
	}

	product, appErr := pc.catalogService.GetProduct(c, productID)
	if appErr != nil {
		respondError(c, appErr)
		return
	}
	c.JSON(http.StatusOK, product)
}
