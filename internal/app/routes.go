package app

import (
	"plantshop/internal/handlers"

	"github.com/gofiber/fiber/v2"
)

// Route is one entry of the routing table.
type Route struct {
	Method    string
	Path      string
	Handler   fiber.Handler
	Protected bool
}

// Routes is the catalog API's routing table. Protected routes require a bearer token.
func Routes(products *handlers.ProductHandler, auth *handlers.AuthHandler) []Route {
	return []Route{
		{Method: fiber.MethodPost, Path: "/login", Handler: auth.HandleLogin},
		{Method: fiber.MethodGet, Path: "/products", Handler: products.HandleListProducts},
		{Method: fiber.MethodPost, Path: "/products", Handler: products.HandleCreateProduct, Protected: true},
		{Method: fiber.MethodGet, Path: "/products/:id", Handler: products.HandleGetProduct},
		{Method: fiber.MethodPut, Path: "/products/:id", Handler: products.HandleUpdateProduct, Protected: true},
		{Method: fiber.MethodDelete, Path: "/products/:id", Handler: products.HandleDeleteProduct, Protected: true},
	}
}

// Register adds every route to the router, placing authRequired in front of protected ones.
func Register(router fiber.Router, routes []Route, authRequired fiber.Handler) {
	for _, r := range routes {
		chain := []fiber.Handler{r.Handler}
		if r.Protected {
			chain = append([]fiber.Handler{authRequired}, chain...)
		}
		router.Add(r.Method, r.Path, chain...)
	}
}
