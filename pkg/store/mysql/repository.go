package mysql

// Repository aggregates all MySQL repositories
type Repository struct {
	ds *Datastore

	Entry    *EntryRepository
	Subtask  *SubtaskRepository
	Task     *TaskRepository
	Project  *ProjectRepository
	Employee *EmployeeRepository
}

// NewRepository creates a new MySQL repository with all sub-repositories
func NewRepository(dsn string) (*Repository, error) {
	ds, err := NewDatastore(dsn)
	if err != nil {
		return nil, err
	}

	return &Repository{
		ds:       ds,
		Entry:    NewEntryRepository(ds),
		Subtask:  NewSubtaskRepository(ds),
		Task:     NewTaskRepository(ds),
		Project:  NewProjectRepository(ds),
		Employee: NewEmployeeRepository(ds),
	}, nil
}

// GetDatastore returns the underlying datastore for transaction support
func (r *Repository) GetDatastore() *Datastore {
	return r.ds
}

// Close closes the database connection
func (r *Repository) Close() error {
	return r.ds.Close()
}
