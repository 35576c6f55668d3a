package app

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/example/quitplan/internal/ports/secondary"
)

// ============================================================================
// Mock Implementations
// ============================================================================

// nextMockID mirrors the repositories' MAX(suffix)+1 ID scheme.
func nextMockID[T any](prefix string, records map[string]T) string {
	maxID := 0
	for id := range records {
		n, err := strconv.Atoi(strings.TrimPrefix(id, prefix+"-"))
		if err == nil && n > maxID {
			maxID = n
		}
	}
	return fmt.Sprintf("%s-%03d", prefix, maxID+1)
}

// mockPlanRepository implements secondary.PlanRepository for testing.
type mockPlanRepository struct {
	plans     map[string]*secondary.PlanRecord
	createErr error
	getErr    error
	listErr   error
	statusLog []string // "PLAN-001:active" for each UpdateStatus call
}

func newMockPlanRepository() *mockPlanRepository {
	return &mockPlanRepository{plans: make(map[string]*secondary.PlanRecord)}
}

func (m *mockPlanRepository) Create(ctx context.Context, plan *secondary.PlanRecord) error {
	if m.createErr != nil {
		return m.createErr
	}
	copied := *plan
	m.plans[plan.ID] = &copied
	return nil
}

func (m *mockPlanRepository) GetByID(ctx context.Context, id string) (*secondary.PlanRecord, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if plan, ok := m.plans[id]; ok {
		copied := *plan
		return &copied, nil
	}
	return nil, fmt.Errorf("plan %s %w", id, secondary.ErrNotFound)
}

func (m *mockPlanRepository) List(ctx context.Context, filters secondary.PlanFilters) ([]*secondary.PlanRecord, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var result []*secondary.PlanRecord
	for _, p := range m.plans {
		if filters.UserID != "" && p.UserID != filters.UserID {
			continue
		}
		if filters.CoachID != "" && p.CoachID != filters.CoachID {
			continue
		}
		if filters.Status != "" && p.Status != filters.Status {
			continue
		}
		result = append(result, p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *mockPlanRepository) Update(ctx context.Context, plan *secondary.PlanRecord) error {
	existing, ok := m.plans[plan.ID]
	if !ok {
		return fmt.Errorf("plan %s %w", plan.ID, secondary.ErrNotFound)
	}
	if plan.Name != "" {
		existing.Name = plan.Name
	}
	if plan.Reason != "" {
		existing.Reason = plan.Reason
	}
	if plan.StartDate != "" {
		existing.StartDate = plan.StartDate
	}
	if plan.TargetQuitDate != "" {
		existing.TargetQuitDate = plan.TargetQuitDate
	}
	return nil
}

func (m *mockPlanRepository) UpdateStatus(ctx context.Context, id, status string) error {
	existing, ok := m.plans[id]
	if !ok {
		return fmt.Errorf("plan %s %w", id, secondary.ErrNotFound)
	}
	existing.Status = status
	m.statusLog = append(m.statusLog, id+":"+status)
	return nil
}

func (m *mockPlanRepository) AssignCoach(ctx context.Context, id, coachID string) error {
	existing, ok := m.plans[id]
	if !ok {
		return fmt.Errorf("plan %s %w", id, secondary.ErrNotFound)
	}
	existing.CoachID = coachID
	return nil
}

func (m *mockPlanRepository) GetOpenPlanForUser(ctx context.Context, userID string) (*secondary.PlanRecord, error) {
	for _, p := range m.plans {
		if p.UserID == userID && p.Status != "rejected" && p.Status != "completed" {
			return p, nil
		}
	}
	return nil, nil
}

func (m *mockPlanRepository) GetNextID(ctx context.Context) (string, error) {
	return nextMockID("PLAN", m.plans), nil
}

// mockStageRepository implements secondary.StageRepository for testing.
type mockStageRepository struct {
	stages    map[string]*secondary.StageRecord
	createErr error
	listErr   error
}

func newMockStageRepository() *mockStageRepository {
	return &mockStageRepository{stages: make(map[string]*secondary.StageRecord)}
}

func (m *mockStageRepository) Create(ctx context.Context, stage *secondary.StageRecord) error {
	if m.createErr != nil {
		return m.createErr
	}
	for _, s := range m.stages {
		if s.PlanID == stage.PlanID && s.StageNumber == stage.StageNumber {
			return fmt.Errorf("stage %d of plan %s: %w", stage.StageNumber, stage.PlanID, secondary.ErrDuplicate)
		}
	}
	copied := *stage
	m.stages[stage.ID] = &copied
	return nil
}

func (m *mockStageRepository) GetByID(ctx context.Context, id string) (*secondary.StageRecord, error) {
	if s, ok := m.stages[id]; ok {
		copied := *s
		return &copied, nil
	}
	return nil, fmt.Errorf("stage %s %w", id, secondary.ErrNotFound)
}

func (m *mockStageRepository) ListByPlan(ctx context.Context, planID string) ([]*secondary.StageRecord, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var result []*secondary.StageRecord
	for _, s := range m.stages {
		if s.PlanID == planID {
			copied := *s
			result = append(result, &copied)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StageNumber < result[j].StageNumber })
	return result, nil
}

func (m *mockStageRepository) Delete(ctx context.Context, id string) error {
	if _, ok := m.stages[id]; !ok {
		return fmt.Errorf("stage %s %w", id, secondary.ErrNotFound)
	}
	delete(m.stages, id)
	return nil
}

func (m *mockStageRepository) MarkCompleted(ctx context.Context, id string) error {
	s, ok := m.stages[id]
	if !ok {
		return fmt.Errorf("stage %s %w", id, secondary.ErrNotFound)
	}
	s.IsCompleted = true
	s.CompletedAt = "2024-03-01T10:00:00Z"
	return nil
}

func (m *mockStageRepository) GetNextID(ctx context.Context) (string, error) {
	return nextMockID("STAGE", m.stages), nil
}

// mockTaskRepository implements secondary.TaskRepository for testing.
// completions mirrors the task_completions table; IsCompleted is derived from it.
type mockTaskRepository struct {
	tasks       map[string]*secondary.TaskRecord
	completions map[string]string // taskID -> completedBy
	markCalls   int
	markErr     error
}

func newMockTaskRepository() *mockTaskRepository {
	return &mockTaskRepository{
		tasks:       make(map[string]*secondary.TaskRecord),
		completions: make(map[string]string),
	}
}

func (m *mockTaskRepository) view(t *secondary.TaskRecord) *secondary.TaskRecord {
	copied := *t
	if by, ok := m.completions[t.ID]; ok {
		copied.IsCompleted = true
		copied.CompletedBy = by
		copied.CompletedAt = "2024-03-01T10:00:00Z"
	}
	return &copied
}

func (m *mockTaskRepository) Create(ctx context.Context, task *secondary.TaskRecord) error {
	copied := *task
	m.tasks[task.ID] = &copied
	return nil
}

func (m *mockTaskRepository) GetByID(ctx context.Context, id string) (*secondary.TaskRecord, error) {
	if t, ok := m.tasks[id]; ok {
		return m.view(t), nil
	}
	return nil, fmt.Errorf("task %s %w", id, secondary.ErrNotFound)
}

func (m *mockTaskRepository) ListByStage(ctx context.Context, stageID string) ([]*secondary.TaskRecord, error) {
	var result []*secondary.TaskRecord
	for _, t := range m.tasks {
		if t.StageID == stageID {
			result = append(result, m.view(t))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Position < result[j].Position })
	return result, nil
}

func (m *mockTaskRepository) Update(ctx context.Context, task *secondary.TaskRecord) error {
	existing, ok := m.tasks[task.ID]
	if !ok {
		return fmt.Errorf("task %s %w", task.ID, secondary.ErrNotFound)
	}
	if task.Title != "" {
		existing.Title = task.Title
	}
	if task.Description != "" {
		existing.Description = task.Description
	}
	if task.Deadline != "" {
		existing.Deadline = task.Deadline
	}
	return nil
}

func (m *mockTaskRepository) Delete(ctx context.Context, id string) error {
	if _, ok := m.tasks[id]; !ok {
		return fmt.Errorf("task %s %w", id, secondary.ErrNotFound)
	}
	delete(m.tasks, id)
	delete(m.completions, id)
	return nil
}

func (m *mockTaskRepository) MarkCompleted(ctx context.Context, taskID, completedBy string) (bool, error) {
	m.markCalls++
	if m.markErr != nil {
		return false, m.markErr
	}
	if _, ok := m.completions[taskID]; ok {
		return false, nil
	}
	m.completions[taskID] = completedBy
	return true, nil
}

func (m *mockTaskRepository) GetNextID(ctx context.Context) (string, error) {
	return nextMockID("TASK", m.tasks), nil
}

// mockRatingRepository implements secondary.RatingRepository for testing.
type mockRatingRepository struct {
	ratings    map[string]*secondary.RatingRecord
	queryCount int
	queryErr   error
}

func newMockRatingRepository() *mockRatingRepository {
	return &mockRatingRepository{ratings: make(map[string]*secondary.RatingRecord)}
}

func (m *mockRatingRepository) Create(ctx context.Context, rating *secondary.RatingRecord) error {
	for _, r := range m.ratings {
		if r.PlanID == rating.PlanID && r.UserID == rating.UserID {
			return fmt.Errorf("rating: %w", secondary.ErrDuplicate)
		}
	}
	copied := *rating
	copied.CreatedAt = "2024-03-02T10:00:00Z"
	m.ratings[rating.ID] = &copied
	return nil
}

func (m *mockRatingRepository) GetByPlanAndUser(ctx context.Context, planID, userID string) (*secondary.RatingRecord, error) {
	m.queryCount++
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	for _, r := range m.ratings {
		if r.PlanID == planID && r.UserID == userID {
			return r, nil
		}
	}
	return nil, nil
}

func (m *mockRatingRepository) ListByCoach(ctx context.Context, coachID string) ([]*secondary.RatingRecord, error) {
	var result []*secondary.RatingRecord
	for _, r := range m.ratings {
		if r.CoachID == coachID {
			result = append(result, r)
		}
	}
	return result, nil
}

func (m *mockRatingRepository) GetNextID(ctx context.Context) (string, error) {
	return nextMockID("RATE", m.ratings), nil
}

// mockSessionStore implements secondary.SessionStore for testing.
type mockSessionStore struct {
	records map[string]secondary.RatingSessionRecord
	lastTTL time.Duration
	getErr  error
}

func newMockSessionStore() *mockSessionStore {
	return &mockSessionStore{records: make(map[string]secondary.RatingSessionRecord)}
}

func (m *mockSessionStore) Get(ctx context.Context, key string) (*secondary.RatingSessionRecord, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if r, ok := m.records[key]; ok {
		return &r, nil
	}
	return nil, nil
}

func (m *mockSessionStore) Put(ctx context.Context, key string, record *secondary.RatingSessionRecord, ttl time.Duration) error {
	m.records[key] = *record
	m.lastTTL = ttl
	return nil
}

// mockAuditLogRepository implements secondary.AuditLogRepository for testing.
type mockAuditLogRepository struct {
	entries []*secondary.AuditLogRecord
	listErr error
}

func (m *mockAuditLogRepository) Create(ctx context.Context, entry *secondary.AuditLogRecord) error {
	m.entries = append(m.entries, entry)
	return nil
}

func (m *mockAuditLogRepository) List(ctx context.Context, filters secondary.AuditLogFilters) ([]*secondary.AuditLogRecord, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var result []*secondary.AuditLogRecord
	for i := len(m.entries) - 1; i >= 0; i-- {
		e := m.entries[i]
		if filters.EntityType != "" && e.EntityType != filters.EntityType {
			continue
		}
		if filters.EntityID != "" && e.EntityID != filters.EntityID {
			continue
		}
		result = append(result, e)
		if filters.Limit > 0 && len(result) == filters.Limit {
			break
		}
	}
	return result, nil
}

func (m *mockAuditLogRepository) GetNextID(ctx context.Context) (string, error) {
	return fmt.Sprintf("LOG-%03d", len(m.entries)+1), nil
}

// ============================================================================
// Fixtures
// ============================================================================

// day returns a clock fixed at noon UTC on the given date.
func day(value string) func() time.Time {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	t = t.Add(12 * time.Hour)
	return func() time.Time { return t }
}

type fixture struct {
	plans    *mockPlanRepository
	stages   *mockStageRepository
	tasks    *mockTaskRepository
	ratings  *mockRatingRepository
	sessions *mockSessionStore
}

func newFixture() *fixture {
	return &fixture{
		plans:    newMockPlanRepository(),
		stages:   newMockStageRepository(),
		tasks:    newMockTaskRepository(),
		ratings:  newMockRatingRepository(),
		sessions: newMockSessionStore(),
	}
}

func (f *fixture) addPlan(id, userID, coachID, status string) {
	f.plans.plans[id] = &secondary.PlanRecord{ID: id, UserID: userID, CoachID: coachID, Name: "Quit plan", Status: status}
}

func (f *fixture) addStage(id, planID string, number int, start, end string, completed bool) {
	f.stages.stages[id] = &secondary.StageRecord{
		ID: id, PlanID: planID, StageNumber: number, Title: "Stage " + id,
		StartDate: start, EndDate: end, IsCompleted: completed,
	}
}

func (f *fixture) addTask(id, stageID string, position int, completed bool) {
	f.tasks.tasks[id] = &secondary.TaskRecord{ID: id, StageID: stageID, Position: position, Title: "Task " + id}
	if completed {
		f.tasks.completions[id] = "user-1"
	}
}
