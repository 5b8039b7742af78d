package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"obak-storefront/internal/domain"
	"obak-storefront/internal/service/dispatch"
)

// cartView is the drawer-facing representation: ordered items plus the
// derived totals.
type cartView struct {
	Items     []domain.CartLine `json:"items"`
	Total     string            `json:"total"`
	ItemCount int               `json:"itemCount"`
}

func toCartView(cart domain.Cart) cartView {
	items := cart.Lines
	if items == nil {
		items = []domain.CartLine{}
	}
	return cartView{
		Items:     items,
		Total:     cart.Total().StringFixed(2),
		ItemCount: cart.ItemCount(),
	}
}

// newCartKey issues a fresh cart key for shoppers that do not have one
// stored yet. The client keeps it and sends it back in X-Cart-Key.
func (h *handlers) newCartKey(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"cart_key": uuid.NewString()})
}

func cartKeyFrom(c *gin.Context) (string, bool) {
	key := c.GetHeader("X-Cart-Key")
	if key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "X-Cart-Key header required"})
		return "", false
	}
	return key, true
}

func (h *handlers) getCart(c *gin.Context) {
	key, ok := cartKeyFrom(c)
	if !ok {
		return
	}
	cart, err := h.deps.Cart.Snapshot(c.Request.Context(), key)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
		return
	}
	c.JSON(http.StatusOK, toCartView(cart))
}

type addItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity"`
	Variant   string `json:"variant"`
}

func (h *handlers) addCartItem(c *gin.Context) {
	key, ok := cartKeyFrom(c)
	if !ok {
		return
	}
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad json"})
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	if req.Quantity < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "quantity must be positive"})
		return
	}

	product, err := h.deps.Catalog.GetProduct(c.Request.Context(), req.ProductID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
		return
	}

	cart, err := h.deps.Cart.Add(c.Request.Context(), key, *product, req.Quantity, req.Variant)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
		return
	}
	c.JSON(http.StatusOK, toCartView(cart))
}

type updateItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity"`
	Variant   string `json:"variant"`
}

func (h *handlers) updateCartItem(c *gin.Context) {
	key, ok := cartKeyFrom(c)
	if !ok {
		return
	}
	var req updateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad json"})
		return
	}

	cart, err := h.deps.Cart.UpdateQuantity(c.Request.Context(), key, req.ProductID, req.Quantity, req.Variant)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
		return
	}
	c.JSON(http.StatusOK, toCartView(cart))
}

func (h *handlers) removeCartItem(c *gin.Context) {
	key, ok := cartKeyFrom(c)
	if !ok {
		return
	}
	cart, err := h.deps.Cart.Remove(c.Request.Context(), key, c.Param("productID"), c.Query("variant"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
		return
	}
	c.JSON(http.StatusOK, toCartView(cart))
}

func (h *handlers) clearCart(c *gin.Context) {
	key, ok := cartKeyFrom(c)
	if !ok {
		return
	}
	if err := h.deps.Cart.Clear(c.Request.Context(), key); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
		return
	}
	c.JSON(http.StatusOK, toCartView(domain.Cart{}))
}

type checkoutRequest struct {
	Contact string `json:"contact"`
}

func (h *handlers) checkout(c *gin.Context) {
	key, ok := cartKeyFrom(c)
	if !ok {
		return
	}
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad json"})
		return
	}

	receipt, err := h.deps.Pipeline.Checkout(c.Request.Context(), key, req.Contact)
	if err != nil {
		switch {
		case errors.Is(err, dispatch.ErrEmptyCart):
			c.JSON(http.StatusBadRequest, gin.H{
				"error":  "السلة فارغة",
				"detail": "أضف بعض المنتجات لتتمكن من الإرسال!",
			})
		case errors.Is(err, dispatch.ErrContactRequired):
			c.JSON(http.StatusBadRequest, gin.H{
				"error":  "البريد الإلكتروني مطلوب",
				"detail": "يرجى إدخال بريدك الإلكتروني لتلقي تفاصيل الطلب.",
			})
		default:
			c.JSON(http.StatusBadGateway, gin.H{
				"error":  "حدث خطأ أثناء إرسال الرسائل أو تحديث المبيعات",
				"detail": err.Error(),
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "تم إرسال جميع الرسائل وتحديث المبيعات بنجاح",
		"receipt": receipt,
	})
}
