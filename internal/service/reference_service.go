package service

import (
	"context"

	"bimtrack/internal/model"
	"bimtrack/pkg/logger"
	"bimtrack/pkg/store/mysql"
	redisstore "bimtrack/pkg/store/redis"
)

// Cache kinds, shared between the services and the admin invalidation API
const (
	CacheKindSubtask  = "subtask"
	CacheKindProject  = "project"
	CacheKindEmployee = "employee"
)

// ReferenceService serves reference-data reads through per-entity redis
// caches. Every cached value carries a TTL and can be invalidated
// explicitly; there is no in-process cache state.
type ReferenceService struct {
	repo *mysql.Repository

	subtaskCache  *redisstore.RefCache
	projectCache  *redisstore.RefCache
	employeeCache *redisstore.RefCache
}

// NewReferenceService creates a new reference service
func NewReferenceService(repo *mysql.Repository, subtaskCache, projectCache, employeeCache *redisstore.RefCache) *ReferenceService {
	return &ReferenceService{
		repo:          repo,
		subtaskCache:  subtaskCache,
		projectCache:  projectCache,
		employeeCache: employeeCache,
	}
}

// GetSubtask retrieves one subtask, cache first. A cache failure falls
// through to the database instead of failing the read.
func (s *ReferenceService) GetSubtask(ctx context.Context, subtaskID string) (*model.Subtask, error) {
	var cached model.Subtask
	hit, err := s.subtaskCache.Get(ctx, subtaskID, &cached)
	if err != nil {
		logger.WarnCtx(ctx, "subtask cache read failed, subtask_id: %s, error: %v", subtaskID, err)
	}
	if hit {
		return &cached, nil
	}

	row, err := s.repo.Subtask.Get(ctx, subtaskID)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, model.NotFoundError("subtask", subtaskID)
	}

	subtask := mysql.ToSubtaskDomain(row)
	if err := s.subtaskCache.Set(ctx, subtaskID, subtask); err != nil {
		logger.WarnCtx(ctx, "subtask cache write failed, subtask_id: %s, error: %v", subtaskID, err)
	}
	return subtask, nil
}

// ListAssigneeSubtasks retrieves the active subtasks an assignee may report
// against, including the shared pool. Lists are not cached; only the
// per-entity lookups are.
func (s *ReferenceService) ListAssigneeSubtasks(ctx context.Context, assignee string) ([]*model.Subtask, error) {
	rows, err := s.repo.Subtask.ListByAssignee(ctx, assignee)
	if err != nil {
		return nil, err
	}
	return mysql.ToSubtaskDomainList(rows), nil
}

// GetProject retrieves one project, cache first
func (s *ReferenceService) GetProject(ctx context.Context, projectID string) (*mysql.Project, error) {
	var cached mysql.Project
	hit, err := s.projectCache.Get(ctx, projectID, &cached)
	if err != nil {
		logger.WarnCtx(ctx, "project cache read failed, project_id: %s, error: %v", projectID, err)
	}
	if hit {
		return &cached, nil
	}

	project, err := s.repo.Project.Get(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, model.NotFoundError("project", projectID)
	}

	if err := s.projectCache.Set(ctx, projectID, project); err != nil {
		logger.WarnCtx(ctx, "project cache write failed, project_id: %s, error: %v", projectID, err)
	}
	return project, nil
}

// projectListCacheKey holds the full project list; the list is small and
// read on every day view, so it is cached as one value.
const projectListCacheKey = "all"

// ListProjects retrieves all projects, cache first. The list feeds the
// relate-drawing labels on the day view.
func (s *ReferenceService) ListProjects(ctx context.Context) ([]*mysql.Project, error) {
	var cached []*mysql.Project
	hit, err := s.projectCache.Get(ctx, projectListCacheKey, &cached)
	if err != nil {
		logger.WarnCtx(ctx, "project list cache read failed, error: %v", err)
	}
	if hit {
		return cached, nil
	}

	projects, err := s.repo.Project.List(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.projectCache.Set(ctx, projectListCacheKey, projects); err != nil {
		logger.WarnCtx(ctx, "project list cache write failed, error: %v", err)
	}
	return projects, nil
}

// GetEmployee retrieves one employee, cache first. The role on the record
// drives the edit-window bypass.
func (s *ReferenceService) GetEmployee(ctx context.Context, employeeID string) (*mysql.Employee, error) {
	var cached mysql.Employee
	hit, err := s.employeeCache.Get(ctx, employeeID, &cached)
	if err != nil {
		logger.WarnCtx(ctx, "employee cache read failed, employee_id: %s, error: %v", employeeID, err)
	}
	if hit {
		return &cached, nil
	}

	employee, err := s.repo.Employee.Get(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if employee == nil {
		return nil, model.NotFoundError("employee", employeeID)
	}

	if err := s.employeeCache.Set(ctx, employeeID, employee); err != nil {
		logger.WarnCtx(ctx, "employee cache write failed, employee_id: %s, error: %v", employeeID, err)
	}
	return employee, nil
}

// InvalidateSubtask drops one subtask from the cache. Called after every
// aggregate recompute so readers never see a stale aggregate block past
// the write.
func (s *ReferenceService) InvalidateSubtask(ctx context.Context, subtaskID string) {
	if err := s.subtaskCache.Invalidate(ctx, subtaskID); err != nil {
		logger.WarnCtx(ctx, "subtask cache invalidation failed, subtask_id: %s, error: %v", subtaskID, err)
	}
}

// InvalidateAll drops every cached value of the named kinds. An empty list
// means all kinds.
func (s *ReferenceService) InvalidateAll(ctx context.Context, kinds []string) error {
	if len(kinds) == 0 {
		kinds = []string{CacheKindSubtask, CacheKindProject, CacheKindEmployee}
	}
	for _, kind := range kinds {
		var cache *redisstore.RefCache
		switch kind {
		case CacheKindSubtask:
			cache = s.subtaskCache
		case CacheKindProject:
			cache = s.projectCache
		case CacheKindEmployee:
			cache = s.employeeCache
		default:
			return model.ValidationError("unknown cache kind %q", kind)
		}
		if err := cache.InvalidateAll(ctx); err != nil {
			return err
		}
		logger.InfoCtx(ctx, "cache invalidated, kind: %s", kind)
	}
	return nil
}
