package domain

// Priority represents the priority level of a task.
// Value object - immutable string enum.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Rank returns the sort rank of the priority, high first.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	default:
		return 3
	}
}

// RecurrenceType represents the kind of recurrence for a task.
// Value object - immutable string enum.
type RecurrenceType string

const (
	RecurrenceNone    RecurrenceType = "none"
	RecurrenceDaily   RecurrenceType = "daily"
	RecurrenceWeekly  RecurrenceType = "weekly"
	RecurrenceMonthly RecurrenceType = "monthly"
	RecurrenceCustom  RecurrenceType = "custom"
)

// NotificationType classifies an in-app notification.
type NotificationType string

const (
	NotificationTaskDueSoon       NotificationType = "task-due-soon"
	NotificationTaskDueNow        NotificationType = "task-due-now"
	NotificationTaskOverdue       NotificationType = "task-overdue"
	NotificationTaskCompleted     NotificationType = "task-completed"
	NotificationStreak            NotificationType = "streak"
	NotificationRecurringReminder NotificationType = "recurring-reminder"
	NotificationDailySummary      NotificationType = "daily-summary"
	NotificationInfo              NotificationType = "info"
)

// SortBy selects the ordering of the task collection.
type SortBy string

const (
	SortByDueDate   SortBy = "dueDate"
	SortByPriority  SortBy = "priority"
	SortByCreatedAt SortBy = "createdAt"
)
