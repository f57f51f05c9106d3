package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/learnhubhq/learnhub-api/internal/domain"
	"github.com/learnhubhq/learnhub-api/internal/usecase"
)

// LayoutHandler serves the landing-page layout documents.
type LayoutHandler struct {
	usecase *usecase.LayoutUsecase
}

// NewLayoutHandler registers the layout routes on the provided echo group.
func NewLayoutHandler(e *echo.Group, u *usecase.LayoutUsecase, gate *Gate) {
	handler := &LayoutHandler{usecase: u}

	e.POST("/create-layout", handler.Create, gate.Authenticate, AuthorizeRoles(domain.RoleAdmin))
	e.PUT("/edit-layout", handler.Edit, gate.Authenticate, AuthorizeRoles(domain.RoleAdmin))
	e.GET("/get-layout/:type", handler.GetByType)
}

type layoutRequest struct {
	Type       string            `json:"type"`
	Image      string            `json:"image"`
	Title      string            `json:"title"`
	SubTitle   string            `json:"subTitle"`
	FAQ        []domain.FAQItem  `json:"faq"`
	Categories []domain.Category `json:"categories"`
}

func (r layoutRequest) input() usecase.LayoutInput {
	return usecase.LayoutInput{
		Type:       r.Type,
		Image:      r.Image,
		Title:      r.Title,
		SubTitle:   r.SubTitle,
		FAQ:        r.FAQ,
		Categories: r.Categories,
	}
}

func (h *LayoutHandler) Create(c echo.Context) error {
	var req layoutRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, errInvalidBody)
	}

	if err := h.usecase.Create(c.Request().Context(), req.input()); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Layout created successfully",
	})
}

func (h *LayoutHandler) Edit(c echo.Context) error {
	var req layoutRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, errInvalidBody)
	}

	if err := h.usecase.Edit(c.Request().Context(), req.input()); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Layout updated successfully",
	})
}

func (h *LayoutHandler) GetByType(c echo.Context) error {
	layout, err := h.usecase.GetByType(c.Request().Context(), c.Param("type"))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"layout":  layout,
	})
}
