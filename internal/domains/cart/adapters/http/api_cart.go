package carthttp

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	carthttpmapper "github.com/storely/cart-service/internal/domains/cart/adapters/http/mapper"
	"github.com/storely/cart-service/internal/domains/cart/application"
	"github.com/storely/cart-service/internal/domains/cart/ports"
	sharederrors "github.com/storely/cart-service/internal/shared/errors"
)

// CartAPI wires HTTP transport with the cart service.
type CartAPI struct {
	service  ports.Service
	problems *sharederrors.Responder
}

// NewCartAPI creates a CartAPI backed by the provided service.
func NewCartAPI(service ports.Service) CartAPI {
	return CartAPI{
		service:  service,
		problems: sharederrors.NewResponder("", mapCartError),
	}
}

// Register mounts the cart routes on the router.
func (api CartAPI) Register(router gin.IRouter) {
	v1 := router.Group("/v1")
	v1.GET("/cart", api.GetCart)
	v1.POST("/cart/items/:productId", api.AddProduct)
	v1.PUT("/cart/items/:productId", api.UpdateProductAmount)
	v1.DELETE("/cart/items/:productId", api.RemoveProduct)
}

// Get /v1/cart
// Returns the current cart snapshot.
func (api CartAPI) GetCart(c *gin.Context) {
	items := api.service.Cart(c.Request.Context())
	c.JSON(http.StatusOK, carthttpmapper.FromItems(items))
}

// Post /v1/cart/items/:productId
// Adds one unit of the product to the cart.
func (api CartAPI) AddProduct(c *gin.Context) {
	id, ok := api.parseIDParam(c)
	if !ok {
		return
	}
	if err := api.service.AddProduct(c.Request.Context(), id); err != nil {
		api.problems.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, carthttpmapper.FromItems(api.service.Cart(c.Request.Context())))
}

// Put /v1/cart/items/:productId
// Sets the absolute quantity of a line item. A non-positive amount is
// accepted and ignored, mirroring the store semantics.
func (api CartAPI) UpdateProductAmount(c *gin.Context) {
	id, ok := api.parseIDParam(c)
	if !ok {
		return
	}
	var payload carthttpmapper.UpdateAmountRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		api.problems.BadRequest(c, err.Error())
		return
	}
	if err := api.service.UpdateProductAmount(c.Request.Context(), id, payload.Amount); err != nil {
		api.problems.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, carthttpmapper.FromItems(api.service.Cart(c.Request.Context())))
}

// Delete /v1/cart/items/:productId
// Removes the line item for the product.
func (api CartAPI) RemoveProduct(c *gin.Context) {
	id, ok := api.parseIDParam(c)
	if !ok {
		return
	}
	if err := api.service.RemoveProduct(c.Request.Context(), id); err != nil {
		api.problems.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, carthttpmapper.FromItems(api.service.Cart(c.Request.Context())))
}

func (api CartAPI) parseIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("productId"), 10, 64)
	if err != nil || id <= 0 {
		api.problems.BadRequest(c, "productId must be a positive integer")
		return 0, false
	}
	return id, true
}

func mapCartError(err error) (sharederrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, application.ErrProductNotInCart):
		return sharederrors.ErrNotFound.WithDetail("product is not in the cart"), true
	case errors.Is(err, ports.ErrProductNotFound):
		return sharederrors.ErrNotFound.WithDetail("product not found in catalog"), true
	case errors.Is(err, application.ErrOutOfStock):
		return sharederrors.ErrConflict.WithDetail("requested quantity out of stock"), true
	default:
		return sharederrors.ProblemDetail{}, false
	}
}
