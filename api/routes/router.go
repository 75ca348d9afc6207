package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vivimart/storefront-backend/api/controllers"
	"github.com/vivimart/storefront-backend/api/middleware"
	"github.com/vivimart/storefront-backend/internal/addresses"
	"github.com/vivimart/storefront-backend/internal/auth"
	"github.com/vivimart/storefront-backend/internal/cart"
	"github.com/vivimart/storefront-backend/internal/catalog"
	"github.com/vivimart/storefront-backend/internal/locations"
	"github.com/vivimart/storefront-backend/internal/orders"
	"github.com/vivimart/storefront-backend/pkg/config"
	"github.com/vivimart/storefront-backend/pkg/logger"
	"github.com/vivimart/storefront-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbPinger controllers.Pinger,
	redisClient *redis.Client,
	authService auth.Service,
	catalogService catalog.Service,
	cartService cart.Service,
	addressService addresses.Service,
	locationService locations.Service,
	orderService orders.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	otpPolicy := middleware.NewAuthRateLimitPolicy(
		"otp",
		cfg.AuthRateLimit.OTPWindow,
		cfg.AuthRateLimit.OTPIPLimit,
		cfg.AuthRateLimit.OTPPhoneLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, dbPinger, redisClient, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth/otp", func(r chi.Router) {
			r.With(middleware.AuthRateLimit(otpPolicy, redisClient, logg)).Post("/request", controllers.AuthOTPRequest(authService, logg))
			r.Post("/verify", controllers.AuthOTPVerify(authService, logg))
		})

		r.Get("/categories", controllers.CatalogCategories(catalogService, logg))
		r.Get("/sub-categories", controllers.CatalogSubCategories(catalogService, logg))
		r.Get("/sub-sub-categories/{subCategory}", controllers.CatalogSubSubCategories(catalogService, logg))
		r.Get("/banners", controllers.CatalogBanners(catalogService, logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductsList(catalogService, logg))
			r.Get("/{id}", controllers.ProductByID(catalogService, logg))
			r.Get("/sub-sub-category/{name}", controllers.ProductsBySubSubCategory(catalogService, logg))
		})

		r.Route("/locations", func(r chi.Router) {
			r.Get("/by-postal-code/{pincode}", controllers.LocationByPincode(locationService, logg))
			r.Get("/autocomplete", controllers.LocationsAutocomplete(locationService, logg))
			r.Get("/reverse-geocode", controllers.LocationsReverseGeocode(locationService, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartGet(cartService, logg))
				r.Delete("/", controllers.CartClear(cartService, logg))
				r.Put("/items", controllers.CartUpsertItem(cartService, logg))
				r.Delete("/items/{productID}", controllers.CartRemoveItem(cartService, logg))
			})

			r.Route("/addresses", func(r chi.Router) {
				r.Get("/", controllers.AddressesList(addressService, logg))
				r.Post("/", controllers.AddressAdd(addressService, logg))
				r.Put("/{index}", controllers.AddressUpdate(addressService, logg))
				r.Delete("/{index}", controllers.AddressDelete(addressService, logg))
			})

			r.Route("/location-context", func(r chi.Router) {
				r.Put("/", controllers.LocationContextSet(locationService, logg))
				r.Get("/", controllers.LocationContextGet(locationService, logg))
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.OrdersList(orderService, logg))
				r.Post("/", controllers.OrderPlace(orderService, logg))
				r.Post("/{id}/confirm-payment", controllers.OrderConfirmPayment(orderService, logg))
			})
		})
	})

	return r
}
