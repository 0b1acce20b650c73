// Package menu holds the per-category ingredient lists used by the
// customizer and the items suggested when the box is empty.
package menu

import (
	"slices"
	"strings"
)

const (
	CategoryBurgers = "burgers"
	CategoryCombos  = "combos"
	CategorySides   = "sides"
	CategoryDrinks  = "drinks"
)

var burgerIngredients = []string{"Beef Patty", "Cheese", "Tomato", "Cucumber", "Lettuce", "Onions", "Spicy Mayo"}

var ingredients = map[string][]string{
	CategoryBurgers: burgerIngredients,
	CategoryCombos:  append(slices.Clone(burgerIngredients), "Fries", "Classic Drink"),
	CategorySides:   {},
	CategoryDrinks:  {},
}

// Ingredients returns a copy of the removable ingredients for category.
// Unknown categories have none.
func Ingredients(category string) []string {
	return slices.Clone(ingredients[category])
}

// IsSimple reports whether a product goes straight into the box without
// opening the customizer: every drink, and every side except nuggets.
func IsSimple(productName, category string) bool {
	switch category {
	case CategoryDrinks:
		return true
	case CategorySides:
		return !strings.Contains(strings.ToLower(productName), "nuggets")
	default:
		return false
	}
}

type Recommendation struct {
	Name  string `json:"name"`
	Price string `json:"price"`
	Image string `json:"img"`
}

var recommended = []Recommendation{
	{Name: "Single Beef Burger", Price: "₦17,050", Image: "assets/burger-classic.png"},
	{Name: "French Fries", Price: "₦3,999", Image: "assets/pill-sides.png"},
	{Name: "Pepsi (50cl)", Price: "₦2,200", Image: "assets/drink-pepsi.png"},
}

// Recommended lists the classics offered in an empty box.
func Recommended() []Recommendation {
	return slices.Clone(recommended)
}
