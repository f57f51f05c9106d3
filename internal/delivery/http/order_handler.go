package http

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/learnhubhq/learnhub-api/internal/domain"
	"github.com/learnhubhq/learnhub-api/internal/usecase"
)

// OrderHandler serves purchases and the payment endpoints.
type OrderHandler struct {
	usecase        *usecase.OrderUsecase
	publishableKey string
}

// NewOrderHandler registers the order and payment routes on the provided
// echo group.
func NewOrderHandler(e *echo.Group, u *usecase.OrderUsecase, publishableKey string, gate *Gate) {
	handler := &OrderHandler{usecase: u, publishableKey: publishableKey}

	e.POST("/create-order", handler.Create, gate.Authenticate)
	e.GET("/get-orders", handler.GetAll, gate.Authenticate, AuthorizeRoles(domain.RoleAdmin))
	e.GET("/payment/stripepublishablekey", handler.PublishableKey)
	e.POST("/payment", handler.NewPayment, gate.Authenticate)
}

type createOrderRequest struct {
	CourseID    string          `json:"courseId"`
	PaymentInfo json.RawMessage `json:"payment_info"`
}

func (h *OrderHandler) Create(c echo.Context) error {
	var req createOrderRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, errInvalidBody)
	}

	user := principalFrom(c)
	order, err := h.usecase.Create(c.Request().Context(), user, req.CourseID, req.PaymentInfo)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"order":   order,
	})
}

func (h *OrderHandler) GetAll(c echo.Context) error {
	orders, err := h.usecase.List(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"orders":  orders,
	})
}

func (h *OrderHandler) PublishableKey(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"publishablekey": h.publishableKey,
	})
}

type newPaymentRequest struct {
	Amount int64 `json:"amount"`
}

func (h *OrderHandler) NewPayment(c echo.Context) error {
	var req newPaymentRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, errInvalidBody)
	}

	clientSecret, err := h.usecase.CreatePayment(c.Request().Context(), req.Amount)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"success":       true,
		"client_secret": clientSecret,
	})
}
