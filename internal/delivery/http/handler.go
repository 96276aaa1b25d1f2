package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/grocerylens/backend/internal/domain"
	"github.com/grocerylens/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	service *usecase.OptimizationService
	parser  *usecase.ListParser
}

// NewHandler creates a new HTTP handler. service may be nil; the endpoints
// that need catalog or price data then answer 501.
func NewHandler(service *usecase.OptimizationService, parser *usecase.ListParser) *Handler {
	if parser == nil {
		parser = usecase.NewListParser(false)
	}
	return &Handler{
		service: service,
		parser:  parser,
	}
}

// NormalizeRequest is the body of POST /products/normalize
type NormalizeRequest struct {
	Name   string `json:"name" validate:"required,max=300"`
	Brand  string `json:"brand" validate:"max=100"`
	Volume string `json:"volume" validate:"max=50"`
}

// SimilarityRequest is the body of POST /products/similarity
type SimilarityRequest struct {
	A string `json:"a" validate:"max=300"`
	B string `json:"b" validate:"max=300"`
}

// SubstitutionsRequest is the body of POST /products/substitutions
type SubstitutionsRequest struct {
	Name   string             `json:"name" validate:"required,max=300"`
	Brand  string             `json:"brand" validate:"max=100"`
	Volume string             `json:"volume" validate:"max=50"`
	Store  string             `json:"store" validate:"max=100"`
	Price  *float64           `json:"price" validate:"omitempty,gte=0"`
	Prices *domain.PriceTable `json:"prices,omitempty"`
}

// UnitParseRequest is the body of POST /units/parse
type UnitParseRequest struct {
	Text  string   `json:"text" validate:"required,max=100"`
	Price *float64 `json:"price" validate:"omitempty,gte=0"`
}

// UnitParseResponse is a parsed format with its optional unit price
type UnitParseResponse struct {
	domain.Format
	UnitPrice *float64 `json:"unitPrice,omitempty"`
	Display   string   `json:"display,omitempty"`
}

// ListParseRequest is the body of POST /products/parse
type ListParseRequest struct {
	Text string `json:"text" validate:"required,max=20000"`
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "grocerylens-backend",
		"version": "1.0.0",
	})
}

// Optimize handles multi-store combination requests
func (h *Handler) Optimize(c *gin.Context) {
	if !h.requireService(c) {
		return
	}

	var req domain.OptimizeRequest
	if !bindAndValidate(c, &req) {
		return
	}

	result, err := h.service.Optimize(c.Request.Context(), req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// NormalizeProduct returns the identity key and tokens of a product name
func (h *Handler) NormalizeProduct(c *gin.Context) {
	var req NormalizeRequest
	if !bindAndValidate(c, &req) {
		return
	}

	c.JSON(http.StatusOK, usecase.NormalizeProductName(req.Name, req.Brand, req.Volume))
}

// Similarity returns the token similarity of two product names
func (h *Handler) Similarity(c *gin.Context) {
	var req SimilarityRequest
	if !bindAndValidate(c, &req) {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"similarity": usecase.ComputeSimilarity(req.A, req.B),
	})
}

// Substitutions returns cheaper alternatives for one product
func (h *Handler) Substitutions(c *gin.Context) {
	if !h.requireService(c) {
		return
	}

	var req SubstitutionsRequest
	if !bindAndValidate(c, &req) {
		return
	}

	product := domain.Product{
		Name:     req.Name,
		Brand:    req.Brand,
		Volume:   req.Volume,
		Store:    req.Store,
		Price:    req.Price,
		Quantity: 1,
	}

	alternatives, err := h.service.Substitutions(c.Request.Context(), product, req.Prices)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"alternatives": alternatives,
	})
}

// ParseUnits parses a size string and, when a price is given, its unit price
func (h *Handler) ParseUnits(c *gin.Context) {
	var req UnitParseRequest
	if !bindAndValidate(c, &req) {
		return
	}

	format := usecase.ParseFormat(req.Text)
	resp := UnitParseResponse{
		Format:    format,
		UnitPrice: usecase.ComputeUnitPrice(req.Price, format.CanonicalQuantity, format.CanonicalUnit),
	}
	if format.CanonicalQuantity != nil {
		resp.Display = usecase.FormatUnitQuantity(*format.CanonicalQuantity, format.CanonicalUnit)
	}

	c.JSON(http.StatusOK, resp)
}

// ParseList turns pasted shopping-list text into products
func (h *Handler) ParseList(c *gin.Context) {
	var req ListParseRequest
	if !bindAndValidate(c, &req) {
		return
	}

	products := h.parser.Parse(req.Text)
	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"count":    len(products),
	})
}

// ListStores returns the store catalog
func (h *Handler) ListStores(c *gin.Context) {
	if !h.requireService(c) {
		return
	}

	stores, err := h.service.Stores(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stores": stores,
		"count":  len(stores),
	})
}

// CanonicalStore resolves ?name= to a canonical store code
func (h *Handler) CanonicalStore(c *gin.Context) {
	if !h.requireService(c) {
		return
	}

	name := c.Query("name")
	if strings.TrimSpace(name) == "" {
		respondError(c, http.StatusBadRequest, "name query parameter is required")
		return
	}

	code, known, err := h.service.CanonicalStore(c.Request.Context(), name)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"input": name,
		"code":  code,
		"known": known,
	})
}

func (h *Handler) requireService(c *gin.Context) bool {
	if h.service == nil {
		respondError(c, http.StatusNotImplemented, "optimization service not configured")
		return false
	}
	return true
}
