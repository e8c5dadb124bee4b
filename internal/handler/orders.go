package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"storefront-orders/internal/dto"
	"storefront-orders/internal/model"
	"storefront-orders/internal/service"
)

type OrdersHandler struct {
	orders service.OrderService
}

func NewOrdersHandler(orders service.OrderService) *OrdersHandler {
	return &OrdersHandler{orders: orders}
}

func (h *OrdersHandler) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	items := make([]model.LineItem, len(req.Items))
	for i, item := range req.Items {
		items[i] = model.LineItem{
			ProductID: item.ProductID,
			BundleID:  item.BundleID,
			Title:     item.Title,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		}
	}

	input := &service.CreateOrderInput{
		PaymentMethod: model.PaymentMethod(req.PaymentMethod),
		Customer: model.Customer{
			Name:    req.Customer.Name,
			Email:   req.Customer.Email,
			Phone:   req.Customer.Phone,
			Address: req.Customer.Address,
			City:    req.Customer.City,
			Notes:   req.Customer.Notes,
		},
		Items: items,
		Totals: model.Totals{
			Items:    req.Totals.Items,
			Subtotal: req.Totals.Subtotal,
			Shipping: req.Totals.Shipping,
			Currency: req.Totals.Currency,
		},
	}

	result, err := h.orders.CreateOrder(ctx, input)
	if err != nil {
		var ve *service.ValidationError
		if errors.As(err, &ve) {
			return echo.NewHTTPError(http.StatusBadRequest, ve.Error())
		}
		var de *service.DuplicateOrderError
		if errors.As(err, &de) {
			return echo.NewHTTPError(http.StatusConflict, de.Error())
		}
		return err
	}

	return c.JSON(http.StatusCreated, dto.CreateOrderResponse{Order: result.Clean})
}

func (h *OrdersHandler) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()

	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be an integer")
		}
		limit = n
	}

	orders, err := h.orders.ListOrders(ctx, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.ListOrdersResponse{Orders: orders})
}

func (h *OrdersHandler) UpdateStatus(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	var req dto.UpdateStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	order, err := h.orders.UpdateStatus(ctx, id, req.Status)
	if err != nil {
		var ve *service.ValidationError
		if errors.As(err, &ve) {
			return echo.NewHTTPError(http.StatusBadRequest, ve.Error())
		}
		return err
	}
	if order == nil {
		return echo.NewHTTPError(http.StatusNotFound, "order not found")
	}
	return c.JSON(http.StatusOK, order)
}
