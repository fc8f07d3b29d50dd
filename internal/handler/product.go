package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/Payphone-Digital/catalog/internal/constants"
	"github.com/Payphone-Digital/catalog/internal/dto"
	apperrors "github.com/Payphone-Digital/catalog/internal/errors"
	"github.com/Payphone-Digital/catalog/internal/service"
	ctxutil "github.com/Payphone-Digital/catalog/pkg/context"
	"github.com/Payphone-Digital/catalog/pkg/logger"
	"github.com/gin-gonic/gin"
)

type ProductHandler struct {
	productService *service.ProductService
}

func NewProductHandler(service *service.ProductService) *ProductHandler {
	return &ProductHandler{productService: service}
}

// List writes one page of products as a JSON array. Paging metadata travels
// in the Pagination header.
func (h *ProductHandler) List(c *gin.Context) {
	ctx := ctxutil.WithOperation(c.Request.Context(), "handler", "List")

	var query dto.ProductListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		// listing input never fails; an unbindable query lists with defaults
		logger.WarnWithContext(ctx, "Unbindable product list query, using defaults").
			String("query", c.Request.URL.RawQuery).
			Err(err).
			Log()
		query = dto.ProductListQuery{}
	}

	page, err := h.productService.List(ctx, query.ToRawParams())
	if err != nil {
		h.writeError(c, err)
		return
	}

	header, err := json.Marshal(page.Pagination)
	if err != nil {
		h.writeError(c, apperrors.WrapError(apperrors.ErrInternal, err))
		return
	}

	c.Header(constants.HeaderPagination, string(header))
	c.JSON(http.StatusOK, page.Items)
}

// GetByID returns one product. Ids that are not integers cannot name a
// product and are reported as not found.
func (h *ProductHandler) GetByID(c *gin.Context) {
	ctx := ctxutil.WithOperation(c.Request.Context(), "handler", "GetByID")

	rawID := c.Param(constants.PathParamID)
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		logger.DebugWithContext(ctx, "Non-numeric product ID").
			String("raw_id", rawID).
			Log()
		h.writeError(c, apperrors.ErrProductNotFound)
		return
	}

	product, err := h.productService.GetByID(ctx, id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) Filters(c *gin.Context) {
	ctx := ctxutil.WithOperation(c.Request.Context(), "handler", "Filters")

	filters, err := h.productService.Filters(ctx)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, filters)
}

func (h *ProductHandler) writeError(c *gin.Context, err error) {
	status := apperrors.ToHTTPStatus(err)

	code := apperrors.ErrInternal.Code
	if domainErr := apperrors.GetDomainError(err); domainErr != nil {
		code = domainErr.Code
	}

	c.JSON(status, constants.BuildCodedErrorResponse(code, statusMessage(status)))
}

func statusMessage(status int) string {
	switch status {
	case http.StatusBadRequest:
		return constants.MsgBadRequest
	case http.StatusNotFound:
		return constants.MsgNotFound
	case http.StatusRequestTimeout:
		return constants.MsgTimeout
	case http.StatusTooManyRequests:
		return constants.MsgTooManyRequests
	case http.StatusServiceUnavailable:
		return constants.MsgServiceUnavailable
	default:
		return constants.MsgInternalError
	}
}
