package container

import (
	"context"
	"log"
	"os"

	"github.com/stridehq/stride-lambda/internal/auth"
	"github.com/stridehq/stride-lambda/internal/config"
	"github.com/stridehq/stride-lambda/internal/dayplan"
	"github.com/stridehq/stride-lambda/internal/focus"
	"github.com/stridehq/stride-lambda/internal/goal"
	"github.com/stridehq/stride-lambda/internal/stats"
	"github.com/stridehq/stride-lambda/internal/user"
)

type Container struct {
	UserContainer    *user.UserContainer
	GoalContainer    *goal.GoalContainer
	DayPlanContainer *dayplan.DayPlanContainer
	StatsContainer   *stats.StatsContainer
	FocusContainer   *focus.FocusContainer
}

func New() *Container {
	config.Init()
	auth.Init()
	config.InitCrypto()

	dsn := os.Getenv("DATABASE_DSN")
	if err := config.Connect(context.Background(), dsn); err != nil {
		log.Fatalf("failed to connect to DB: %v", err)
	}

	if err := config.DB.AutoMigrate(
		&user.User{},
		&goal.Goal{},
		&dayplan.DayPlan{},
		&dayplan.PlanTask{},
		&dayplan.Reflection{},
		&focus.FocusSession{},
	); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	userContainer := user.NewUserContainer(config.DB)
	goalContainer := goal.NewGoalContainer(config.DB)
	dayPlanContainer := dayplan.NewDayPlanContainer(config.DB, goalContainer.Service)
	statsContainer := stats.NewStatsContainer(dayPlanContainer.Repo)
	focusContainer := focus.NewFocusContainer(config.DB, goalContainer.Service)

	return &Container{
		UserContainer:    userContainer,
		GoalContainer:    goalContainer,
		DayPlanContainer: dayPlanContainer,
		StatsContainer:   statsContainer,
		FocusContainer:   focusContainer,
	}
}
