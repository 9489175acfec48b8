package core

// Default category catalogs seeded into a fresh account. Users can add
// and remove categories afterwards; transactions keep referencing a
// removed category's id.

func DefaultExpenseCategories() []Category {
	return []Category{
		{ID: "daily", Name: "Daily Expenses", Color: "#F87171", Icon: "coffee", Type: Expense},
		{ID: "transport", Name: "Transportation", Color: "#FBBF24", Icon: "car", Type: Expense},
		{ID: "leisure", Name: "Leisure & Entertainment", Color: "#818CF8", Icon: "tv", Type: Expense},
		{ID: "groceries", Name: "Groceries", Color: "#34D399", Icon: "shopping-basket", Type: Expense},
		{ID: "home", Name: "Home & Utilities", Color: "#60A5FA", Icon: "home", Type: Expense},
		{ID: "health", Name: "Health & Wellness", Color: "#F472B6", Icon: "heart-pulse", Type: Expense},
		{ID: "travel", Name: "Travel & Vacation", Color: "#A78BFA", Icon: "plane", Type: Expense},
		{ID: "education", Name: "Education", Color: "#6EE7B7", Icon: "book", Type: Expense},
		{ID: "savings", Name: "Savings", Color: "#059669", Icon: "piggy-bank", Type: Expense},
		{ID: "other", Name: "Other Expenses", Color: "#9CA3AF", Icon: "more-horizontal", Type: Expense},
	}
}

func DefaultIncomeCategories() []Category {
	return []Category{
		{ID: "salary", Name: "Salary & Wages", Color: "#10B981", Icon: "briefcase", Type: Income},
		{ID: "freelance", Name: "Freelance", Color: "#3B82F6", Icon: "laptop", Type: Income},
		{ID: "investments", Name: "Investments", Color: "#8B5CF6", Icon: "trending-up", Type: Income},
		{ID: "gifts", Name: "Gifts", Color: "#EC4899", Icon: "gift", Type: Income},
		{ID: "refunds", Name: "Refunds", Color: "#F59E0B", Icon: "rotate-ccw", Type: Income},
		{ID: "other_income", Name: "Other Income", Color: "#6B7280", Icon: "plus-circle", Type: Income},
	}
}
