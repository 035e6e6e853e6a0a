package stats

import (
	"time"

	"github.com/stridehq/stride-lambda/internal/dayplan"
)

type StatsContainer struct {
	Handler *Handler
	Service Service
}

func NewStatsContainer(plans dayplan.Repository) *StatsContainer {
	service := NewService(plans, time.Now)
	handler := NewHandler(service)

	return &StatsContainer{
		Handler: handler,
		Service: service,
	}
}
