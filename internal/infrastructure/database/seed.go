package database

import (
	"fmt"

	categorydomain "github.com/1Zamuken1/gastuapp-backend-sub000/internal/module/category/domain"
)

// Predefined categories every installation starts with.
var predefinedCategories = []categorydomain.Category{
	{Name: "Salary", Icon: "briefcase", Type: categorydomain.TypeIncome, Predefined: true},
	{Name: "Freelance", Icon: "laptop", Type: categorydomain.TypeIncome, Predefined: true},
	{Name: "Investments", Icon: "trending-up", Type: categorydomain.TypeIncome, Predefined: true},
	{Name: "Gifts", Icon: "gift", Type: categorydomain.TypeBoth, Predefined: true},
	{Name: "Food", Icon: "utensils", Type: categorydomain.TypeExpense, Predefined: true},
	{Name: "Transport", Icon: "bus", Type: categorydomain.TypeExpense, Predefined: true},
	{Name: "Housing", Icon: "home", Type: categorydomain.TypeExpense, Predefined: true},
	{Name: "Utilities", Icon: "zap", Type: categorydomain.TypeExpense, Predefined: true},
	{Name: "Health", Icon: "heart", Type: categorydomain.TypeExpense, Predefined: true},
	{Name: "Entertainment", Icon: "film", Type: categorydomain.TypeExpense, Predefined: true},
	{Name: "Education", Icon: "book", Type: categorydomain.TypeExpense, Predefined: true},
	{Name: "Other", Icon: "circle", Type: categorydomain.TypeBoth, Predefined: true},
}

// SeedCategories inserts the predefined catalog once. Re-running against a
// seeded database is a no-op.
func (d *DB) SeedCategories() error {
	var count int64
	if err := d.gorm.Model(&categorydomain.Category{}).
		Where("predefined = ?", true).
		Count(&count).Error; err != nil {
		return fmt.Errorf("count predefined categories: %w", err)
	}
	if count > 0 {
		return nil
	}

	categories := make([]categorydomain.Category, len(predefinedCategories))
	copy(categories, predefinedCategories)
	if err := d.gorm.Create(&categories).Error; err != nil {
		return fmt.Errorf("seed categories: %w", err)
	}
	return nil
}
