package core

// Category is an entry of the static category table. Categories are not
// user-editable; transactions reference them by ID.
type Category struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Color string          `json:"color"`
	Type  TransactionType `json:"type"`
}

// DefaultCategoryColor is used for transactions whose category is unknown.
const DefaultCategoryColor = "#94a3b8"

var categories = []Category{
	{ID: "salario", Name: "Salário", Color: "#10b981", Type: Income},
	{ID: "freela", Name: "Renda Extra", Color: "#34d399", Type: Income},
	{ID: "invest", Name: "Investimentos", Color: "#6ee7b7", Type: Income},
	{ID: "moradia", Name: "Moradia", Color: "#f43f5e", Type: Expense},
	{ID: "mercado", Name: "Mercado", Color: "#fb7185", Type: Expense},
	{ID: "lazer", Name: "Lazer", Color: "#fda4af", Type: Expense},
	{ID: "saude", Name: "Saúde", Color: "#e11d48", Type: Expense},
	{ID: "transporte", Name: "Transporte", Color: "#be123c", Type: Expense},
	{ID: "educacao", Name: "Educação", Color: "#8b5cf6", Type: Expense},
	{ID: "cartao", Name: "Pagamento de Cartão", Color: "#64748b", Type: Expense},
	{ID: "outros", Name: "Outros", Color: DefaultCategoryColor, Type: Expense},
}

// Categories returns a copy of the whole table.
func Categories() []Category {
	return append([]Category(nil), categories...)
}

// CategoriesFor returns the categories offered for a transaction type.
// Types without categories of their own (TRANSFER) get the full table.
func CategoriesFor(t TransactionType) []Category {
	out := make([]Category, 0, len(categories))
	for _, c := range categories {
		if c.Type == t {
			out = append(out, c)
		}
	}
	if len(out) == 0 {
		return Categories()
	}
	return out
}

// LookupCategory finds a category by ID.
func LookupCategory(id string) (Category, bool) {
	for _, c := range categories {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

// CategoryName returns the display name, falling back to the raw ID.
func CategoryName(id string) string {
	if c, ok := LookupCategory(id); ok {
		return c.Name
	}
	return id
}

// CategoryColor returns the category color or DefaultCategoryColor.
func CategoryColor(id string) string {
	if c, ok := LookupCategory(id); ok {
		return c.Color
	}
	return DefaultCategoryColor
}
