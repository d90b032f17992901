// Package seed installs the default category tree on first startup.
// Seeding is idempotent: existing categories are left untouched.
package seed

import (
	"context"
	"fmt"

	"budgetbook/internal/core"
	"budgetbook/internal/log"
	"budgetbook/internal/storage"
)

type group struct {
	name     string
	children []string
}

// defaultCategories is ordered so seeding is deterministic.
var defaultCategories = []group{
	{"Housing", []string{"Mortgage/Rent", "Property Tax", "Home Insurance", "Utilities", "Maintenance"}},
	{"Transportation", []string{"Car Payment", "Gas/Fuel", "Auto Insurance", "Maintenance", "Public Transit"}},
	{"Food", []string{"Groceries", "Dining Out", "Coffee"}},
	{"Healthcare", []string{"Health Insurance", "Doctor/Medical", "Dental", "Pharmacy", "Vision"}},
	{"Entertainment", []string{"Streaming", "Movies/Events", "Hobbies", "Subscriptions"}},
	{"Personal", []string{"Clothing", "Personal Care", "Gym/Fitness"}},
	{"Education", []string{"Tuition", "Books", "Online Courses"}},
	{"Savings", []string{"Emergency Fund", "Retirement", "Investments"}},
	{"Debt", []string{"Student Loans", "Credit Card Payments", "Personal Loans"}},
	{"Insurance", []string{"Life Insurance", "Disability"}},
	{"Gifts & Donations", []string{"Gifts", "Charity"}},
	{"Miscellaneous", []string{"Other"}},
}

// Categories creates any missing default categories and subcategories,
// returning how many were created.
func Categories(ctx context.Context, store *storage.SQLiteRepository, logger *log.Logger) (int, error) {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	logger = logger.WithComponent(log.ComponentSeed)

	created := 0
	for _, g := range defaultCategories {
		parent, err := store.FindCategory(ctx, g.name, nil)
		if err != nil {
			return created, fmt.Errorf("find category %q: %w", g.name, err)
		}
		if parent == nil {
			c, err := store.CreateCategory(ctx, core.Category{Name: g.name})
			if err != nil {
				return created, fmt.Errorf("create category %q: %w", g.name, err)
			}
			parent = &c
			created++
		}

		for _, childName := range g.children {
			child, err := store.FindCategory(ctx, childName, &parent.ID)
			if err != nil {
				return created, fmt.Errorf("find subcategory %q: %w", childName, err)
			}
			if child != nil {
				continue
			}
			parentID := parent.ID
			if _, err := store.CreateCategory(ctx, core.Category{Name: childName, ParentID: &parentID}); err != nil {
				return created, fmt.Errorf("create subcategory %q: %w", childName, err)
			}
			created++
		}
	}

	if created > 0 {
		logger.InfoContext(ctx, "Seeded default categories", "created", created)
	}
	return created, nil
}
