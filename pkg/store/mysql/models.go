package mysql

import "bimtrack/pkg/store/mysql/model"

// Re-export types from model package so callers can stay on the mysql package
type (
	ReportEntry  = model.ReportEntry
	Subtask      = model.Subtask
	Task         = model.Task
	Project      = model.Project
	Employee     = model.Employee
	FileMeta     = model.FileMeta
	FileMetaList = model.FileMetaList
)
