package service

import (
	"fmt"
	"sort"
	"time"

	"backend/internal/models"
	"backend/internal/repository"

	"go.uber.org/zap"
)

// CreateTaskInput carries the fields the create endpoint accepts. Status is
// not among them; new tasks always start out pending.
type CreateTaskInput struct {
	Title       string
	Description string
	DueDate     time.Time
	Priority    string
	Source      string
}

// TaskCounters is the summary block of the dashboard payload.
type TaskCounters struct {
	Total      int `json:"total"`
	Completed  int `json:"completed"`
	InProgress int `json:"inProgress"`
	Overdue    int `json:"overdue"`
}

// PriorityBreakdown feeds the dashboard's fixed three-bar priority chart.
// Tasks with any other priority value fall into no bucket.
type PriorityBreakdown struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

type DashboardStats struct {
	Stats       TaskCounters      `json:"stats"`
	ChartData   PriorityBreakdown `json:"chartData"`
	RecentTasks []models.Task     `json:"recentTasks"`
}

type TaskService interface {
	List(userID int64) ([]models.Task, error)
	Create(userID int64, input CreateTaskInput) (int64, error)
	UpdateStatus(userID, taskID int64, status string) error
	Delete(userID, taskID int64) error
	DashboardStats(userID int64) (*DashboardStats, error)
}

type taskService struct {
	repo   repository.TaskRepository
	logger *zap.Logger
}

func NewTaskService(repo repository.TaskRepository, logger *zap.Logger) TaskService {
	return &taskService{repo: repo, logger: logger}
}

func (s *taskService) List(userID int64) ([]models.Task, error) {
	tasks, err := s.repo.ListByUser(userID)
	if err != nil {
		s.logger.Error("Failed to list tasks", zap.Error(err))
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

func (s *taskService) Create(userID int64, input CreateTaskInput) (int64, error) {
	if input.Priority == "" {
		input.Priority = models.PriorityMedium
	}
	if input.Source == "" {
		input.Source = "Manual"
	}

	task := &models.Task{
		UserID:      userID,
		Title:       input.Title,
		Description: input.Description,
		DueDate:     input.DueDate,
		Priority:    input.Priority,
		Source:      input.Source,
		Status:      models.StatusPending,
	}

	if err := s.repo.CreateTask(task); err != nil {
		s.logger.Error("Failed to create task", zap.Error(err))
		return 0, fmt.Errorf("failed to create task: %w", err)
	}

	return task.ID, nil
}

// UpdateStatus changes the task's status if the caller owns it. A wrong id or
// a wrong owner affects zero rows and is not an error.
func (s *taskService) UpdateStatus(userID, taskID int64, status string) error {
	affected, err := s.repo.UpdateStatus(taskID, userID, status)
	if err != nil {
		s.logger.Error("Failed to update task", zap.Error(err))
		return fmt.Errorf("failed to update task: %w", err)
	}
	if affected == 0 {
		s.logger.Debug("Task update matched no rows",
			zap.Int64("task_id", taskID), zap.Int64("user_id", userID))
	}
	return nil
}

func (s *taskService) Delete(userID, taskID int64) error {
	affected, err := s.repo.DeleteTask(taskID, userID)
	if err != nil {
		s.logger.Error("Failed to delete task", zap.Error(err))
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if affected == 0 {
		s.logger.Debug("Task delete matched no rows",
			zap.Int64("task_id", taskID), zap.Int64("user_id", userID))
	}
	return nil
}

// DashboardStats aggregates the caller's tasks in memory. The scan is
// unbounded, which is fine at the scale a single user's task list reaches.
func (s *taskService) DashboardStats(userID int64) (*DashboardStats, error) {
	tasks, err := s.repo.ListByUser(userID)
	if err != nil {
		s.logger.Error("Failed to load tasks for dashboard", zap.Error(err))
		return nil, fmt.Errorf("failed to load tasks: %w", err)
	}

	stats := &DashboardStats{RecentTasks: []models.Task{}}
	now := time.Now()

	for _, task := range tasks {
		stats.Stats.Total++

		switch task.Status {
		case models.StatusCompleted:
			stats.Stats.Completed++
		case models.StatusInProgress:
			stats.Stats.InProgress++
		}

		if task.Status != models.StatusCompleted && task.DueDate.Before(now) {
			stats.Stats.Overdue++
		}

		switch task.Priority {
		case models.PriorityHigh:
			stats.ChartData.High++
		case models.PriorityMedium:
			stats.ChartData.Medium++
		case models.PriorityLow:
			stats.ChartData.Low++
		}
	}

	recent := make([]models.Task, len(tasks))
	copy(recent, tasks)
	sort.Slice(recent, func(i, j int) bool {
		return recent[i].CreatedAt.After(recent[j].CreatedAt)
	})
	if len(recent) > 5 {
		recent = recent[:5]
	}
	stats.RecentTasks = recent

	return stats, nil
}
