package scope

import "gorm.io/gorm"

// Department limits a query to one department. column is the department code
// column, qualified when the query joins other tables.
func Department(column, code string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(column+" = ?", code)
	}
}
