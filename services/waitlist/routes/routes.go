// Copyright (C) 2025 BalaBite AI (dev@balabite.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/BalaBiteAI/balabite-waitlist/services/waitlist/handlers"
)

// Deps bundles the handler dependencies for route registration.
// GuestStore and Counter may be nil when no database is configured;
// the handlers degrade rather than panic.
type Deps struct {
	Pipeline       handlers.SubmissionPipeline
	GuestStore     handlers.GuestStore
	Counter        handlers.RestaurantCounter
	Backups        handlers.SubmissionLister
	MetricsEnabled bool
}

func SetupRoutes(router *gin.Engine, deps Deps) {

	router.GET("/health", handlers.HandleHealthCheck())
	if deps.MetricsEnabled {
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	// API version 1 group
	v1 := router.Group("/v1")
	{
		v1.POST("/waitlist", handlers.HandleWaitlistSubmit(deps.Pipeline))
		v1.POST("/guest-waitlist", handlers.HandleGuestSignup(deps.GuestStore))
		v1.GET("/restaurant-count", handlers.HandleRestaurantCount(deps.Counter))
		v1.GET("/submissions", handlers.HandleListSubmissions(deps.Backups))
	}
}
