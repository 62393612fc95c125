package mysql

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// ProjectRepository handles project reference data in MySQL
type ProjectRepository struct {
	ds *Datastore
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(ds *Datastore) *ProjectRepository {
	return &ProjectRepository{ds: ds}
}

// Get retrieves a project by ID
func (r *ProjectRepository) Get(ctx context.Context, projectID string) (*Project, error) {
	var project Project
	err := r.ds.DB(ctx).Where("project_id = ?", projectID).First(&project).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return &project, nil
}

// List retrieves all projects
func (r *ProjectRepository) List(ctx context.Context) ([]*Project, error) {
	var projects []*Project
	err := r.ds.DB(ctx).Order("project_id ASC").Find(&projects).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// EmployeeRepository handles employee reference data in MySQL
type EmployeeRepository struct {
	ds *Datastore
}

// NewEmployeeRepository creates a new employee repository
func NewEmployeeRepository(ds *Datastore) *EmployeeRepository {
	return &EmployeeRepository{ds: ds}
}

// Get retrieves an employee by ID
func (r *EmployeeRepository) Get(ctx context.Context, employeeID string) (*Employee, error) {
	var employee Employee
	err := r.ds.DB(ctx).Where("employee_id = ?", employeeID).First(&employee).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}
	return &employee, nil
}
