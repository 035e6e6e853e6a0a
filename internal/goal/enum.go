package goal

type GoalStatus string

const (
	GoalStatusActive    GoalStatus = "ACTIVE"
	GoalStatusPaused    GoalStatus = "PAUSED"
	GoalStatusCompleted GoalStatus = "COMPLETED"
	GoalStatusDropped   GoalStatus = "DROPPED"
)

var AllStatuses = []GoalStatus{
	GoalStatusActive,
	GoalStatusPaused,
	GoalStatusCompleted,
	GoalStatusDropped,
}

func (s GoalStatus) IsValid() bool {
	for _, v := range AllStatuses {
		if s == v {
			return true
		}
	}
	return false
}

type GoalPriority string

const (
	GoalPriorityLow    GoalPriority = "LOW"
	GoalPriorityMedium GoalPriority = "MEDIUM"
	GoalPriorityHigh   GoalPriority = "HIGH"
)

var AllPriorities = []GoalPriority{
	GoalPriorityLow,
	GoalPriorityMedium,
	GoalPriorityHigh,
}

func (p GoalPriority) IsValid() bool {
	for _, v := range AllPriorities {
		if p == v {
			return true
		}
	}
	return false
}
