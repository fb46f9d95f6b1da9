package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/codekart/codekart/internal/es"
	"github.com/codekart/codekart/internal/models"
	"github.com/codekart/codekart/internal/mykafka"
	"github.com/codekart/codekart/internal/util"
)

type ProductHandler struct {
	DB       *gorm.DB
	Producer *mykafka.Producer
	ES       *elasticsearch.Client
}

type productRequest struct {
	Title            string   `json:"title" validate:"required,max=100"`
	Description      string   `json:"description" validate:"required,max=2000"`
	ShortDescription string   `json:"short_description" validate:"max=200"`
	Price            float64  `json:"price" validate:"gte=0"`
	Category         string   `json:"category" validate:"required"`
	Difficulty       string   `json:"difficulty"`
	TechStack        []string `json:"tech_stack" validate:"required,min=1"`
	Features         []string `json:"features"`
	Thumbnail        string   `json:"thumbnail" validate:"required"`
	Images           []string `json:"images"`
	DeliveryType     string   `json:"delivery_type"`
	DeliveryTime     string   `json:"delivery_time"`
	FileSize         string   `json:"file_size"`
	InStock          *bool    `json:"in_stock"`
	Featured         bool     `json:"featured"`
}

func (r *productRequest) apply(p *models.Product) error {
	if !slices.Contains(models.ProductCategories, r.Category) {
		return fmt.Errorf("unknown category: %s", r.Category)
	}
	if r.Difficulty == "" {
		r.Difficulty = "intermediate"
	}
	if !slices.Contains(models.ProductDifficulties, r.Difficulty) {
		return fmt.Errorf("unknown difficulty: %s", r.Difficulty)
	}
	if r.DeliveryType == "" {
		r.DeliveryType = "instant"
	}
	if r.DeliveryTime == "" {
		r.DeliveryTime = "Instant download"
	}
	inStock := true
	if r.InStock != nil {
		inStock = *r.InStock
	}

	p.Title = r.Title
	p.Description = r.Description
	p.ShortDescription = r.ShortDescription
	p.Price = r.Price
	p.Category = r.Category
	p.Difficulty = r.Difficulty
	p.TechStack = r.TechStack
	p.Features = r.Features
	p.Thumbnail = r.Thumbnail
	p.Images = r.Images
	p.DeliveryType = r.DeliveryType
	p.DeliveryTime = r.DeliveryTime
	p.FileSize = r.FileSize
	p.InStock = inStock
	p.Featured = r.Featured
	return nil
}

func (h *ProductHandler) publish(c echo.Context, event map[string]any) {
	if h.Producer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "product_events", fmt.Sprint(event["product_id"]), event); err != nil {
		c.Logger().Errorf("kafka publish error: %v", err)
	}
}

// syncIndex keeps the search index in step with the catalog, best-effort.
func (h *ProductHandler) syncIndex(c echo.Context, product *models.Product, deleted bool) {
	if h.ES == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	var err error
	if deleted {
		err = es.DeleteProduct(ctx, h.ES, product.ID)
	} else {
		err = es.IndexProduct(ctx, h.ES, product)
	}
	if err != nil {
		c.Logger().Errorf("elasticsearch sync error: %v", err)
	}
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

func (h *ProductHandler) GetProducts(c echo.Context) error {
	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	q := h.DB.Model(&models.Product{})
	if category := c.QueryParam("category"); category != "" {
		q = q.Where("category = ?", category)
	}
	if difficulty := c.QueryParam("difficulty"); difficulty != "" {
		q = q.Where("difficulty = ?", difficulty)
	}
	if c.QueryParam("featured") == "true" {
		q = q.Where("featured = ?", true)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return Fail(c, http.StatusInternalServerError, "could not list products")
	}

	var items []models.Product
	if err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return Fail(c, http.StatusInternalServerError, "could not list products")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    items,
		"meta": echo.Map{
			"page":        page,
			"size":        limit,
			"total":       total,
			"total_pages": (total + int64(limit) - 1) / int64(limit),
		},
	})
}

func (h *ProductHandler) GetProduct(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return Fail(c, http.StatusBadRequest, "invalid product id")
	}

	var product models.Product
	if err := h.DB.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Fail(c, http.StatusNotFound, "product not found")
		}
		return Fail(c, http.StatusInternalServerError, "could not load product")
	}

	return OK(c, http.StatusOK, product)
}

func (h *ProductHandler) GetFeaturedProducts(c echo.Context) error {
	var items []models.Product
	if err := h.DB.Where("featured = ? AND in_stock = ?", true, true).
		Order("created_at DESC").Limit(8).Find(&items).Error; err != nil {
		return Fail(c, http.StatusInternalServerError, "could not list products")
	}
	return OK(c, http.StatusOK, items)
}

func (h *ProductHandler) GetCategories(c echo.Context) error {
	return OK(c, http.StatusOK, models.ProductCategories)
}

// GetTechStacks aggregates the distinct tech tags across the catalog. Tags
// are stored serialized, so the set is built in process.
func (h *ProductHandler) GetTechStacks(c echo.Context) error {
	var products []models.Product
	if err := h.DB.Select("tech_stack").Find(&products).Error; err != nil {
		return Fail(c, http.StatusInternalServerError, "could not list tech stacks")
	}

	seen := make(map[string]bool)
	var stacks []string
	for _, p := range products {
		for _, tag := range p.TechStack {
			if !seen[tag] {
				seen[tag] = true
				stacks = append(stacks, tag)
			}
		}
	}
	slices.Sort(stacks)

	return OK(c, http.StatusOK, stacks)
}

func (h *ProductHandler) CreateProduct(c echo.Context) error {
	var req productRequest
	if err := c.Bind(&req); err != nil {
		return Fail(c, http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return Fail(c, http.StatusBadRequest, err.Error())
	}

	var product models.Product
	if err := req.apply(&product); err != nil {
		return Fail(c, http.StatusBadRequest, err.Error())
	}
	if err := h.DB.Create(&product).Error; err != nil {
		return Fail(c, http.StatusInternalServerError, "could not create product")
	}

	h.publish(c, map[string]any{
		"type":       "product_created",
		"product_id": product.ID,
		"title":      product.Title,
	})
	h.syncIndex(c, &product, false)

	return OK(c, http.StatusCreated, product)
}

func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return Fail(c, http.StatusBadRequest, "invalid product id")
	}

	var product models.Product
	if err := h.DB.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Fail(c, http.StatusNotFound, "product not found")
		}
		return Fail(c, http.StatusInternalServerError, "could not load product")
	}

	var req productRequest
	if err := c.Bind(&req); err != nil {
		return Fail(c, http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return Fail(c, http.StatusBadRequest, err.Error())
	}
	if err := req.apply(&product); err != nil {
		return Fail(c, http.StatusBadRequest, err.Error())
	}

	if err := h.DB.Save(&product).Error; err != nil {
		return Fail(c, http.StatusInternalServerError, "could not update product")
	}

	h.publish(c, map[string]any{
		"type":       "product_updated",
		"product_id": product.ID,
		"title":      product.Title,
	})
	h.syncIndex(c, &product, false)

	return OK(c, http.StatusOK, product)
}

func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return Fail(c, http.StatusBadRequest, "invalid product id")
	}

	var product models.Product
	if err := h.DB.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Fail(c, http.StatusNotFound, "product not found")
		}
		return Fail(c, http.StatusInternalServerError, "could not load product")
	}

	if err := h.DB.Delete(&models.Product{}, id).Error; err != nil {
		return Fail(c, http.StatusInternalServerError, "could not delete product")
	}

	h.publish(c, map[string]any{
		"type":       "product_deleted",
		"product_id": product.ID,
	})
	h.syncIndex(c, &product, true)

	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "product deleted"})
}
