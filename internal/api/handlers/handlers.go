package handlers

import (
	"time"

	"github.com/ranyal-tech/dispatch-frontend/internal/availability"
	"github.com/ranyal-tech/dispatch-frontend/internal/gateway"
	"github.com/ranyal-tech/dispatch-frontend/internal/geocode"
	"github.com/ranyal-tech/dispatch-frontend/internal/lifecycle"
	"github.com/ranyal-tech/dispatch-frontend/internal/reconcile"
	"github.com/ranyal-tech/dispatch-frontend/internal/roster"
	"github.com/ranyal-tech/dispatch-frontend/pkg/logger"
	"github.com/ranyal-tech/dispatch-frontend/pkg/monitoring"
	"github.com/ranyal-tech/dispatch-frontend/pkg/websocket"
)

// Handlers holds all handler dependencies. OfferWindow is the configured full
// offer window, echoed on ping-status responses.
type Handlers struct {
	Gateway      *gateway.Client
	Rides        *lifecycle.Store
	Drivers      *roster.Store
	Availability *availability.Controller
	Offers       *reconcile.Manager
	Geocoder     *geocode.Resolver
	OfferWindow  time.Duration
	Logger       *logger.Logger
	Monitor      *monitoring.NewRelicApp
	Hub          *websocket.Hub
}

// NewHandlers creates a new Handlers instance
func NewHandlers(
	gw *gateway.Client,
	rides *lifecycle.Store,
	drivers *roster.Store,
	avail *availability.Controller,
	offers *reconcile.Manager,
	geocoder *geocode.Resolver,
	offerWindow time.Duration,
	log *logger.Logger,
	monitor *monitoring.NewRelicApp,
	hub *websocket.Hub,
) *Handlers {
	return &Handlers{
		Gateway:      gw,
		Rides:        rides,
		Drivers:      drivers,
		Availability: avail,
		Offers:       offers,
		Geocoder:     geocoder,
		OfferWindow:  offerWindow,
		Logger:       log,
		Monitor:      monitor,
		Hub:          hub,
	}
}
