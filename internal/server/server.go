package server

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"storefront-orders/internal/handler"
	"storefront-orders/internal/metrics"
	"storefront-orders/internal/service"
)

type Server struct {
	echo          *echo.Echo
	ordersHandler *handler.OrdersHandler
}

func NewServer(orderService service.OrderService) *Server {
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	s := &Server{
		echo:          e,
		ordersHandler: handler.NewOrdersHandler(orderService),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.echo.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	orders := api.Group("/orders")
	orders.POST("", s.ordersHandler.CreateOrder)
	orders.GET("", s.ordersHandler.ListOrders)
	orders.PATCH("/:id/status", s.ordersHandler.UpdateStatus)
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown() error {
	return s.echo.Close()
}
