package rest

import (
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/autodealer/internal/server/models"
	"github.com/dmitrijs2005/autodealer/internal/server/services"
	"github.com/gin-gonic/gin"
)

// idempotencyHeader may carry the checkout id instead of the body.
const idempotencyHeader = "Idempotency-Key"

// bookingRequest accepts both "type" and the older "bookingType", and the
// car id as "car" or "carId". Any amount sent by the client is ignored.
type bookingRequest struct {
	Car              string                   `json:"car"`
	CarID            string                   `json:"carId"`
	Type             models.BookingType       `json:"type"`
	BookingType      models.BookingType       `json:"bookingType"`
	CustomerDetails  models.CustomerDetails   `json:"customerDetails"`
	PaymentMethod    models.PaymentMethod     `json:"paymentMethod"`
	TestDriveDetails *models.TestDriveDetails `json:"testDriveDetails"`
	PurchaseDetails  *models.PurchaseDetails  `json:"purchaseDetails"`
	DeliveryAddress  string                   `json:"deliveryAddress"`
	CheckoutID       string                   `json:"checkoutId"`
}

func (r bookingRequest) toService(headerKey string) services.BookingRequest {
	out := services.BookingRequest{
		CarID:           r.Car,
		Type:            r.Type,
		Customer:        r.CustomerDetails,
		PaymentMethod:   r.PaymentMethod,
		TestDrive:       r.TestDriveDetails,
		DeliveryAddress: r.DeliveryAddress,
		CheckoutID:      r.CheckoutID,
	}
	if out.CarID == "" {
		out.CarID = r.CarID
	}
	if out.Type == "" {
		out.Type = r.BookingType
	}
	if out.DeliveryAddress == "" && r.PurchaseDetails != nil {
		out.DeliveryAddress = r.PurchaseDetails.DeliveryAddress
	}
	if out.CheckoutID == "" {
		out.CheckoutID = headerKey
	}
	return out
}

func (h *Handler) createBooking(c *gin.Context) {
	var req bookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, bindError(err))
		return
	}
	cl := claimsFrom(c)

	b, created, err := h.bookings.Create(c.Request.Context(), cl.UserID(), req.toService(c.GetHeader(idempotencyHeader)))
	if err != nil {
		h.fail(c, err)
		return
	}

	status := http.StatusCreated
	if !created {
		status = http.StatusOK
	}
	c.JSON(status, b)
}

func (h *Handler) listBookings(c *gin.Context) {
	bookings, err := h.bookings.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(bookings))
}

func (h *Handler) listMyBookings(c *gin.Context) {
	bookings, err := h.bookings.ListMine(c.Request.Context(), claimsFrom(c).UserID())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(bookings))
}

func (h *Handler) getBooking(c *gin.Context) {
	cl := claimsFrom(c)
	b, err := h.bookings.Get(c.Request.Context(), c.Param("id"), cl.UserID(), cl.IsAdmin)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *Handler) bookingReceipt(c *gin.Context) {
	cl := claimsFrom(c)
	id := c.Param("id")
	text, err := h.bookings.Receipt(c.Request.Context(), id, cl.UserID(), cl.IsAdmin)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="receipt-%s.txt"`, id))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(text))
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
