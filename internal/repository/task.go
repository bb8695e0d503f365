package repository

import (
	"backend/internal/models"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// TaskRepository is the task row store. Every query that touches an existing
// row is filtered by the owning user's id; a task is never visible to or
// mutable by a non-owner.
type TaskRepository interface {
	ListByUser(userID int64) ([]models.Task, error)
	CreateTask(task *models.Task) error
	UpdateStatus(taskID, userID int64, status string) (int64, error)
	DeleteTask(taskID, userID int64) (int64, error)
}

type taskRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewTaskRepository(db *sqlx.DB, logger *zap.Logger) TaskRepository {
	return &taskRepository{db: db, logger: logger}
}

func (r *taskRepository) ListByUser(userID int64) ([]models.Task, error) {
	tasks := []models.Task{}
	query := `SELECT id, user_id, title, description, due_date, priority, source, status, created_at, updated_at
	          FROM tasks WHERE user_id = $1 ORDER BY due_date`
	err := r.db.Select(&tasks, query, userID)
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *taskRepository) CreateTask(task *models.Task) error {
	query := `INSERT INTO tasks (user_id, title, description, due_date, priority, source, status)
	          VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id, created_at, updated_at`
	return r.db.QueryRowx(query, task.UserID, task.Title, task.Description, task.DueDate,
		task.Priority, task.Source, task.Status).Scan(&task.ID, &task.CreatedAt, &task.UpdatedAt)
}

// UpdateStatus sets the task's status and returns the number of rows touched.
// Zero means the id does not exist or belongs to another user.
func (r *taskRepository) UpdateStatus(taskID, userID int64, status string) (int64, error) {
	query := `UPDATE tasks SET status = $1, updated_at = now() WHERE id = $2 AND user_id = $3`
	res, err := r.db.Exec(query, status, taskID, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *taskRepository) DeleteTask(taskID, userID int64) (int64, error) {
	query := `DELETE FROM tasks WHERE id = $1 AND user_id = $2`
	res, err := r.db.Exec(query, taskID, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
