package rest

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/autodealer/internal/common"
	"github.com/dmitrijs2005/autodealer/internal/server/models"
	"github.com/gin-gonic/gin"
)

// carRequest is the body of create and update. Absent fields stay nil: on
// update they are left unchanged, on create the required ones are rejected.
type carRequest struct {
	Name         *string              `json:"name"`
	Brand        *string              `json:"brand"`
	Price        *int64               `json:"price"`
	FuelType     *models.FuelType     `json:"fuelType"`
	Transmission *models.Transmission `json:"transmission"`
	Year         *int                 `json:"year"`
	Mileage      *int                 `json:"mileage"`
	Description  *string              `json:"description"`
	Images       []string             `json:"images"`
	Status       *models.CarStatus    `json:"status"`
}

func (r carRequest) patch() models.CarPatch {
	return models.CarPatch{
		Name:         r.Name,
		Brand:        r.Brand,
		Price:        r.Price,
		FuelType:     r.FuelType,
		Transmission: r.Transmission,
		Year:         r.Year,
		Mileage:      r.Mileage,
		Description:  r.Description,
		Images:       r.Images,
		Status:       r.Status,
	}
}

func (r carRequest) car() (*models.Car, error) {
	switch {
	case r.Name == nil:
		return nil, fmt.Errorf("%w: name is required", common.ErrorValidation)
	case r.Brand == nil:
		return nil, fmt.Errorf("%w: brand is required", common.ErrorValidation)
	case r.Price == nil:
		return nil, fmt.Errorf("%w: price is required", common.ErrorValidation)
	case r.FuelType == nil:
		return nil, fmt.Errorf("%w: fuelType is required", common.ErrorValidation)
	case r.Transmission == nil:
		return nil, fmt.Errorf("%w: transmission is required", common.ErrorValidation)
	case r.Year == nil:
		return nil, fmt.Errorf("%w: year is required", common.ErrorValidation)
	}
	c := &models.Car{}
	r.patch().Apply(c)
	return c, nil
}

func (h *Handler) listCars(c *gin.Context) {
	filter, err := parseCarFilter(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	cars, err := h.cars.List(c.Request.Context(), filter)
	if err != nil {
		h.fail(c, err)
		return
	}
	if cars == nil {
		cars = []*models.Car{}
	}
	c.JSON(http.StatusOK, cars)
}

func (h *Handler) getCar(c *gin.Context) {
	car, err := h.cars.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, car)
}

func (h *Handler) createCar(c *gin.Context) {
	var req carRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, bindError(err))
		return
	}
	car, err := req.car()
	if err != nil {
		h.fail(c, err)
		return
	}

	created, err := h.cars.Create(c.Request.Context(), car)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) updateCar(c *gin.Context) {
	var req carRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, bindError(err))
		return
	}

	updated, err := h.cars.Update(c.Request.Context(), c.Param("id"), req.patch())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *Handler) deleteCar(c *gin.Context) {
	if err := h.cars.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "car removed"})
}

// parseCarFilter reads the catalog query. Text filters are trimmed; numeric
// bounds that do not parse are rejected rather than ignored.
func parseCarFilter(c *gin.Context) (models.CarFilter, error) {
	f := models.CarFilter{
		Name:         strings.TrimSpace(c.Query("carName")),
		Brand:        strings.TrimSpace(c.Query("brand")),
		FuelType:     models.FuelType(strings.TrimSpace(c.Query("fuelType"))),
		Transmission: models.Transmission(strings.TrimSpace(c.Query("transmission"))),
		Status:       models.CarStatus(strings.TrimSpace(c.Query("status"))),
	}
	if f.Name == "" {
		f.Name = strings.TrimSpace(c.Query("keyword"))
	}

	var err error
	if f.MinPrice, err = queryInt64(c, "minPrice"); err != nil {
		return f, err
	}
	if f.MaxPrice, err = queryInt64(c, "maxPrice"); err != nil {
		return f, err
	}
	if f.MinYear, err = queryInt(c, "minYear"); err != nil {
		return f, err
	}
	if f.MaxYear, err = queryInt(c, "maxYear"); err != nil {
		return f, err
	}
	if f.MinMileage, err = queryInt(c, "minMileage"); err != nil {
		return f, err
	}
	if f.MaxMileage, err = queryInt(c, "maxMileage"); err != nil {
		return f, err
	}
	return f, nil
}

func queryInt64(c *gin.Context, name string) (*int64, error) {
	return queryIntBits(c, name, 64)
}

// queryInt parses filters on INTEGER columns, so values must fit 32 bits.
func queryInt(c *gin.Context, name string) (*int, error) {
	v, err := queryIntBits(c, name, 32)
	if v == nil || err != nil {
		return nil, err
	}
	n := int(*v)
	return &n, nil
}

func queryIntBits(c *gin.Context, name string, bitSize int) (*int64, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, bitSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be a whole number", common.ErrorValidation, name)
	}
	return &v, nil
}
