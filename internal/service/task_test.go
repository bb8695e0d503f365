package service

import (
	"sort"
	"testing"
	"time"

	"backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeTaskRepo struct {
	tasks  []models.Task
	nextID int64
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{nextID: 1}
}

func (r *fakeTaskRepo) ListByUser(userID int64) ([]models.Task, error) {
	out := []models.Task{}
	for _, task := range r.tasks {
		if task.UserID == userID {
			out = append(out, task)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DueDate.Before(out[j].DueDate) })
	return out, nil
}

func (r *fakeTaskRepo) CreateTask(task *models.Task) error {
	task.ID = r.nextID
	r.nextID++
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now()
	}
	task.UpdatedAt = task.CreatedAt
	r.tasks = append(r.tasks, *task)
	return nil
}

func (r *fakeTaskRepo) UpdateStatus(taskID, userID int64, status string) (int64, error) {
	for i := range r.tasks {
		if r.tasks[i].ID == taskID && r.tasks[i].UserID == userID {
			r.tasks[i].Status = status
			return 1, nil
		}
	}
	return 0, nil
}

func (r *fakeTaskRepo) DeleteTask(taskID, userID int64) (int64, error) {
	for i := range r.tasks {
		if r.tasks[i].ID == taskID && r.tasks[i].UserID == userID {
			r.tasks = append(r.tasks[:i], r.tasks[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func newTaskService(repo *fakeTaskRepo) TaskService {
	return NewTaskService(repo, zap.NewNop())
}

func TestCreateAppliesDefaults(t *testing.T) {
	repo := newFakeTaskRepo()
	svc := newTaskService(repo)

	id, err := svc.Create(1, CreateTaskInput{Title: "X", DueDate: time.Now().Add(time.Hour)})
	require.NoError(t, err)
	require.NotZero(t, id)

	task := repo.tasks[0]
	assert.Equal(t, models.PriorityMedium, task.Priority)
	assert.Equal(t, "Manual", task.Source)
	assert.Equal(t, "", task.Description)
	assert.Equal(t, models.StatusPending, task.Status)
}

func TestCreateKeepsProvidedFields(t *testing.T) {
	repo := newFakeTaskRepo()
	svc := newTaskService(repo)

	_, err := svc.Create(1, CreateTaskInput{
		Title:       "X",
		Description: "details",
		DueDate:     time.Now().Add(time.Hour),
		Priority:    models.PriorityHigh,
		Source:      "Email",
	})
	require.NoError(t, err)

	task := repo.tasks[0]
	assert.Equal(t, models.PriorityHigh, task.Priority)
	assert.Equal(t, "Email", task.Source)
	assert.Equal(t, "details", task.Description)
	// Status is forced to pending no matter what the caller sends.
	assert.Equal(t, models.StatusPending, task.Status)
}

func TestUpdateAndDeleteAreOwnerScoped(t *testing.T) {
	repo := newFakeTaskRepo()
	svc := newTaskService(repo)

	id, err := svc.Create(1, CreateTaskInput{Title: "owned by 1", DueDate: time.Now()})
	require.NoError(t, err)

	// Another user touching the task is a silent no-op, not an error.
	require.NoError(t, svc.UpdateStatus(2, id, models.StatusCompleted))
	assert.Equal(t, models.StatusPending, repo.tasks[0].Status)

	require.NoError(t, svc.Delete(2, id))
	assert.Len(t, repo.tasks, 1)

	// The owner's calls take effect.
	require.NoError(t, svc.UpdateStatus(1, id, models.StatusCompleted))
	assert.Equal(t, models.StatusCompleted, repo.tasks[0].Status)

	require.NoError(t, svc.Delete(1, id))
	assert.Empty(t, repo.tasks)
}

func TestDeleteMissingTaskIsIdempotent(t *testing.T) {
	svc := newTaskService(newFakeTaskRepo())

	assert.NoError(t, svc.Delete(1, 12345))
	assert.NoError(t, svc.Delete(1, 12345))
}

func TestListExcludesOtherUsers(t *testing.T) {
	repo := newFakeTaskRepo()
	svc := newTaskService(repo)

	_, err := svc.Create(1, CreateTaskInput{Title: "mine", DueDate: time.Now()})
	require.NoError(t, err)
	_, err = svc.Create(2, CreateTaskInput{Title: "theirs", DueDate: time.Now()})
	require.NoError(t, err)

	tasks, err := svc.List(1)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "mine", tasks[0].Title)
}

func TestDashboardStatsCounts(t *testing.T) {
	repo := newFakeTaskRepo()
	svc := newTaskService(repo)

	now := time.Now()
	seed := []models.Task{
		{UserID: 1, Title: "done", DueDate: now.Add(-48 * time.Hour), Priority: models.PriorityHigh, Status: models.StatusCompleted},
		{UserID: 1, Title: "late", DueDate: now.Add(-time.Hour), Priority: models.PriorityMedium, Status: models.StatusPending},
		{UserID: 1, Title: "busy", DueDate: now.Add(time.Hour), Priority: models.PriorityLow, Status: models.StatusInProgress},
		{UserID: 1, Title: "odd", DueDate: now.Add(time.Hour), Priority: "urgent", Status: models.StatusPending},
		{UserID: 2, Title: "other user", DueDate: now.Add(-time.Hour), Priority: models.PriorityHigh, Status: models.StatusPending},
	}
	for i := range seed {
		require.NoError(t, repo.CreateTask(&seed[i]))
	}

	stats, err := svc.DashboardStats(1)
	require.NoError(t, err)

	assert.Equal(t, 4, stats.Stats.Total)
	assert.Equal(t, 1, stats.Stats.Completed)
	assert.Equal(t, 1, stats.Stats.InProgress)
	// "done" is past due but completed; only "late" counts as overdue.
	assert.Equal(t, 1, stats.Stats.Overdue)

	// The unknown "urgent" priority lands in no bucket.
	assert.Equal(t, 1, stats.ChartData.High)
	assert.Equal(t, 1, stats.ChartData.Medium)
	assert.Equal(t, 1, stats.ChartData.Low)

	assert.Len(t, stats.RecentTasks, 4)
}

func TestDashboardStatsRecentTasksCapAndOrder(t *testing.T) {
	repo := newFakeTaskRepo()
	svc := newTaskService(repo)

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 7; i++ {
		task := models.Task{
			UserID:    1,
			Title:     string(rune('a' + i)),
			DueDate:   base,
			Priority:  models.PriorityMedium,
			Status:    models.StatusPending,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, repo.CreateTask(&task))
	}

	stats, err := svc.DashboardStats(1)
	require.NoError(t, err)

	require.Len(t, stats.RecentTasks, 5)
	assert.Equal(t, "g", stats.RecentTasks[0].Title)
	assert.Equal(t, "c", stats.RecentTasks[4].Title)
}

func TestDashboardStatsEmpty(t *testing.T) {
	svc := newTaskService(newFakeTaskRepo())

	stats, err := svc.DashboardStats(1)
	require.NoError(t, err)

	assert.Zero(t, stats.Stats.Total)
	assert.NotNil(t, stats.RecentTasks)
	assert.Empty(t, stats.RecentTasks)
}
