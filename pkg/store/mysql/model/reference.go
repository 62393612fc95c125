package model

import "time"

// Project MySQL model for the projects reference table.
type Project struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ProjectID string    `gorm:"column:project_id;type:varchar(64);not null;uniqueIndex:idx_project_id_unique" json:"project_id"`
	Name      string    `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Abbr      string    `gorm:"column:abbr;type:varchar(32)" json:"abbr"`
	CreatedAt time.Time `gorm:"column:created_at;type:datetime(3);not null;default:CURRENT_TIMESTAMP(3)" json:"created_at"`
}

// TableName specifies the table name for Project
func (Project) TableName() string {
	return "projects"
}

// Employee MySQL model for the employees reference table.
type Employee struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	EmployeeID string    `gorm:"column:employee_id;type:varchar(64);not null;uniqueIndex:idx_employee_id_unique" json:"employee_id"`
	FullName   string    `gorm:"column:full_name;type:varchar(255);not null" json:"full_name"`
	Role       string    `gorm:"column:role;type:varchar(64)" json:"role"`
	CreatedAt  time.Time `gorm:"column:created_at;type:datetime(3);not null;default:CURRENT_TIMESTAMP(3)" json:"created_at"`
}

// TableName specifies the table name for Employee
func (Employee) TableName() string {
	return "employees"
}
