package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/learnhubhq/learnhub-api/internal/domain"
	"github.com/learnhubhq/learnhub-api/internal/usecase"
)

// CourseHandler serves course CRUD and the enrolled-content endpoint.
type CourseHandler struct {
	usecase *usecase.CourseUsecase
}

// NewCourseHandler registers the course routes on the provided echo group.
func NewCourseHandler(e *echo.Group, u *usecase.CourseUsecase, gate *Gate) {
	handler := &CourseHandler{usecase: u}

	admin := []echo.MiddlewareFunc{gate.Authenticate, AuthorizeRoles(domain.RoleAdmin)}

	e.POST("/create-course", handler.Create, admin...)
	e.PUT("/edit-course/:id", handler.Edit, admin...)
	e.GET("/get-course/:id", handler.GetSingle)
	e.GET("/get-courses", handler.GetAll)
	e.GET("/get-admin-courses", handler.GetAdminAll, admin...)
	e.GET("/get-admin-course/:id", handler.GetAdminSingle, admin...)
	e.GET("/get-course-content/:id", handler.GetContent, gate.Authenticate)
	e.DELETE("/delete-course/:id", handler.Delete, admin...)
}

type courseRequest struct {
	Name           string                 `json:"name"`
	Description    string                 `json:"description"`
	Price          int64                  `json:"price"`
	EstimatedPrice int64                  `json:"estimatedPrice"`
	Thumbnail      string                 `json:"thumbnail"` // data URL; empty keeps the stored asset
	Tags           string                 `json:"tags"`
	Level          string                 `json:"level"`
	DemoURL        string                 `json:"demoUrl"`
	Benefits       []string               `json:"benefits"`
	Prerequisites  []string               `json:"prerequisites"`
	Content        []domain.CourseSection `json:"content"`
}

func (r courseRequest) course() *domain.Course {
	return &domain.Course{
		Name:           r.Name,
		Description:    r.Description,
		Price:          r.Price,
		EstimatedPrice: r.EstimatedPrice,
		Tags:           r.Tags,
		Level:          r.Level,
		DemoURL:        r.DemoURL,
		Benefits:       r.Benefits,
		Prerequisites:  r.Prerequisites,
		Content:        r.Content,
	}
}

func (h *CourseHandler) Create(c echo.Context) error {
	var req courseRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, errInvalidBody)
	}

	course, err := h.usecase.Create(c.Request().Context(), req.course(), req.Thumbnail)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"course":  course,
	})
}

func (h *CourseHandler) Edit(c echo.Context) error {
	var req courseRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, errInvalidBody)
	}

	course, err := h.usecase.Edit(c.Request().Context(), c.Param("id"), req.course(), req.Thumbnail)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"course":  course,
	})
}

func (h *CourseHandler) GetSingle(c echo.Context) error {
	course, err := h.usecase.GetPublic(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"course":  course,
	})
}

func (h *CourseHandler) GetAll(c echo.Context) error {
	courses, err := h.usecase.ListPublic(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"courses": courses,
	})
}

func (h *CourseHandler) GetAdminAll(c echo.Context) error {
	courses, err := h.usecase.ListAdmin(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"courses": courses,
	})
}

func (h *CourseHandler) GetAdminSingle(c echo.Context) error {
	course, err := h.usecase.GetAdmin(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"course":  course,
	})
}

func (h *CourseHandler) GetContent(c echo.Context) error {
	user := principalFrom(c)
	course, err := h.usecase.GetContent(c.Request().Context(), user, c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"content": course.Content,
	})
}

func (h *CourseHandler) Delete(c echo.Context) error {
	if err := h.usecase.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Course deleted successfully",
	})
}
