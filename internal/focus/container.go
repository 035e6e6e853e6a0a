package focus

import (
	"time"

	"github.com/stridehq/stride-lambda/internal/goal"
	"gorm.io/gorm"
)

type FocusContainer struct {
	Handler *Handler
	Service Service
}

func NewFocusContainer(db *gorm.DB, goalService goal.Service) *FocusContainer {
	repo := NewRepository(db)
	service := NewService(repo, goalService, time.Now)
	handler := NewHandler(service)

	return &FocusContainer{
		Handler: handler,
		Service: service,
	}
}
