package router

import (
	"gamasa/internal/handlers/admin"
	"gamasa/internal/handlers/auth"
	"gamasa/internal/handlers/booking"
	"gamasa/internal/handlers/chat"
	"gamasa/internal/handlers/favorite"
	"gamasa/internal/handlers/notification"
	"gamasa/internal/handlers/payment"
	"gamasa/internal/handlers/profile"
	"gamasa/internal/handlers/property"
	"gamasa/internal/handlers/review"
	"gamasa/transport/ws"

	"github.com/go-chi/chi/v5"
)

type DomainHandlers struct {
	Auth         auth.Handler
	Profile      profile.Handler
	Property     property.Handler
	Booking      booking.Handler
	Payment      payment.Handler
	Review       review.Handler
	Favorite     favorite.Handler
	Notification notification.Handler
	Chat         chat.Handler
	Admin        admin.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
	Hub            *ws.Hub
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Route("/v1", func(routerGroup chi.Router) {
		r.DomainHandlers.Auth.Router(routerGroup)
		r.DomainHandlers.Profile.Router(routerGroup)
		r.DomainHandlers.Property.Router(routerGroup)
		r.DomainHandlers.Booking.Router(routerGroup)
		r.DomainHandlers.Payment.Router(routerGroup)
		r.DomainHandlers.Review.Router(routerGroup)
		r.DomainHandlers.Favorite.Router(routerGroup)
		r.DomainHandlers.Notification.Router(routerGroup)
		r.DomainHandlers.Chat.Router(routerGroup)
		r.DomainHandlers.Admin.Router(routerGroup)

		routerGroup.Get("/realtime", r.Hub.ServeWS)
	})
}

func New(domainHandlers DomainHandlers, hub *ws.Hub) Router {
	return Router{
		DomainHandlers: domainHandlers,
		Hub:            hub,
	}
}
