package application

import "errors"

var (
	// ErrOutOfStock signals the requested or implied quantity exceeds the
	// available inventory reported by the catalog.
	ErrOutOfStock = errors.New("requested quantity out of stock")

	// ErrProductNotInCart signals the operation targeted a product with no
	// line item in the cart.
	ErrProductNotInCart = errors.New("product is not in the cart")

	// Operation-level failures wrap the underlying cause (fetch error,
	// persistence error, malformed response).
	ErrAddProductFailed    = errors.New("add product failed")
	ErrRemoveProductFailed = errors.New("remove product failed")
	ErrUpdateAmountFailed  = errors.New("update product amount failed")
)

// User-facing notification texts, one per failure kind (en locale).
const (
	msgOutOfStock   = "Requested quantity out of stock"
	msgNotInCart    = "Product is not in the cart"
	msgAddFailed    = "Error adding product"
	msgRemoveFailed = "Error removing product"
	msgUpdateFailed = "Error changing product quantity"
)
