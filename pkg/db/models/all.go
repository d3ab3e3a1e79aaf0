package models

// All lists every persisted model in dependency order, for AutoMigrate in
// sqlite-backed tests and dev runs.
func All() []any {
	return []any{
		&Category{},
		&Product{},
		&Customer{},
		&Order{},
		&OrderLineItem{},
	}
}
