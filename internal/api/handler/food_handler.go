package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/foodhub/ordering-api/internal/core/domain"
	"github.com/foodhub/ordering-api/internal/core/ports"
)

type FoodHandler struct {
	foodService ports.FoodService
}

func NewFoodHandler(foodService ports.FoodService) *FoodHandler {
	return &FoodHandler{foodService: foodService}
}

// foodRequest keeps numbers as pointers so an update can tell an omitted
// field from an explicit zero.
type foodRequest struct {
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Price           *float64 `json:"price"`
	Category        string   `json:"category"`
	Image           string   `json:"image"`
	PreparationTime *int     `json:"preparationTime"`
	Available       *bool    `json:"available"`
}

func (r foodRequest) draft() domain.FoodDraft {
	return domain.FoodDraft{
		Name:            r.Name,
		Description:     r.Description,
		Price:           r.Price,
		Category:        r.Category,
		PreparationTime: r.PreparationTime,
		Image:           r.Image,
		Available:       r.Available,
	}
}

type foodEnvelope struct {
	Message string       `json:"message"`
	Food    *domain.Food `json:"food"`
}

func foodList(foods []*domain.Food) []*domain.Food {
	if foods == nil {
		return []*domain.Food{}
	}
	return foods
}

// List returns the catalog, optionally filtered.
//
// @Summary      List food items
// @Tags         food
// @Produce      json
// @Param        category   query     string  false  "Exact category"
// @Param        available  query     bool    false  "Availability filter"
// @Success      200        {array}   domain.Food
// @Router       /food [get]
func (h *FoodHandler) List(c echo.Context) error {
	filter := domain.FoodFilter{Category: c.QueryParam("category")}
	// Anything but a literal boolean is ignored rather than rejected.
	switch c.QueryParam("available") {
	case "true", "false":
		v, _ := strconv.ParseBool(c.QueryParam("available"))
		filter.Available = &v
	}

	foods, err := h.foodService.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, foodList(foods))
}

// Search matches the query against name, description and category.
//
// @Summary      Search food items
// @Tags         food
// @Produce      json
// @Param        q    query     string  true  "Search text (2-100 characters)"
// @Success      200  {array}   domain.Food
// @Failure      400  {object}  map[string]string
// @Router       /food/search [get]
func (h *FoodHandler) Search(c echo.Context) error {
	foods, err := h.foodService.Search(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, foodList(foods))
}

// Categories lists the categories present in the catalog.
//
// @Summary      List categories
// @Tags         food
// @Produce      json
// @Success      200  {array}  string
// @Router       /food/categories/list [get]
func (h *FoodHandler) Categories(c echo.Context) error {
	categories, err := h.foodService.Categories(c.Request().Context())
	if err != nil {
		return err
	}
	if categories == nil {
		categories = []string{}
	}
	return c.JSON(http.StatusOK, categories)
}

// Get returns a single catalog item.
//
// @Summary      Get food item
// @Tags         food
// @Produce      json
// @Param        id   path      string  true  "Food ID"
// @Success      200  {object}  domain.Food
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /food/{id} [get]
func (h *FoodHandler) Get(c echo.Context) error {
	food, err := h.foodService.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, food)
}

// Create adds a catalog item.
//
// @Summary      Create food item
// @Tags         food
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      foodRequest  true  "Food item"
// @Success      201   {object}  foodEnvelope
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /food [post]
func (h *FoodHandler) Create(c echo.Context) error {
	var req foodRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	food, err := h.foodService.Create(c.Request().Context(), req.draft())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, foodEnvelope{Message: "Food item created successfully", Food: food})
}

// Update patches a catalog item and revalidates the result.
//
// @Summary      Update food item
// @Tags         food
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string       true  "Food ID"
// @Param        body  body      foodRequest  true  "Fields to change"
// @Success      200   {object}  foodEnvelope
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /food/{id} [put]
func (h *FoodHandler) Update(c echo.Context) error {
	var req foodRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	food, err := h.foodService.Update(c.Request().Context(), c.Param("id"), req.draft())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, foodEnvelope{Message: "Food item updated successfully", Food: food})
}

// Delete removes a catalog item.
//
// @Summary      Delete food item
// @Tags         food
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Food ID"
// @Success      200  {object}  messageEnvelope
// @Failure      404  {object}  map[string]string
// @Router       /food/{id} [delete]
func (h *FoodHandler) Delete(c echo.Context) error {
	if err := h.foodService.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageEnvelope{Message: "Food item deleted successfully"})
}
