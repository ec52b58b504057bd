package domain

import "time"

// DefaultCategoryIcon is assigned to user-created categories without an icon.
const DefaultCategoryIcon = "MoreHorizontal"

// Category groups transactions. Names are unique.
type Category struct {
	CategoryID string    `json:"categoryID"`
	Name       string    `json:"name"`
	Icon       string    `json:"icon"`
	IsDefault  bool      `json:"isDefault"`
	CreatedAt  time.Time `json:"createdAt"`
}

// DefaultCategories is the seed set every household starts with, in display order.
var DefaultCategories = []Category{
	{Name: "Alimentação", Icon: "Utensils", IsDefault: true},
	{Name: "Transporte", Icon: "Car", IsDefault: true},
	{Name: "Casa", Icon: "Home", IsDefault: true},
	{Name: "Contas", Icon: "Receipt", IsDefault: true},
	{Name: "Saúde", Icon: "Heart", IsDefault: true},
	{Name: "Educação", Icon: "GraduationCap", IsDefault: true},
	{Name: "Lazer", Icon: "Gamepad2", IsDefault: true},
	{Name: "Compras", Icon: "ShoppingBag", IsDefault: true},
	{Name: "Assinaturas", Icon: "Tv", IsDefault: true},
	{Name: "Outros", Icon: DefaultCategoryIcon, IsDefault: true},
}
