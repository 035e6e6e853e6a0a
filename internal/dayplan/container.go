package dayplan

import (
	"time"

	"github.com/stridehq/stride-lambda/internal/goal"
	"gorm.io/gorm"
)

type DayPlanContainer struct {
	Handler *Handler
	Service Service
	Repo    Repository
}

func NewDayPlanContainer(db *gorm.DB, goalService goal.Service) *DayPlanContainer {
	repo := NewRepository(db)
	service := NewService(repo, goalService, time.Now)
	handler := NewHandler(service)

	return &DayPlanContainer{
		Handler: handler,
		Service: service,
		Repo:    repo,
	}
}
