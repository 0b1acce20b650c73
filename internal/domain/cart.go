package domain

import "slices"

// DefaultImage is used for items added without an image reference.
const DefaultImage = "assets/burger-classic.png"

// Box is the shopping cart of one browser session: its lines in insertion
// order plus at most one active discount.
type Box struct {
	Items    []CartItem `json:"items" bson:"cart"`
	Discount *Discount  `json:"discount,omitempty" bson:"discount"`
}

type CartItem struct {
	ID             string   `json:"id,omitempty" bson:"id"`
	Name           string   `json:"name" bson:"name"`
	Price          string   `json:"price" bson:"price"`
	Customizations []string `json:"customizations" bson:"customizations"`
	Image          string   `json:"img" bson:"img"`
	Quantity       int      `json:"quantity" bson:"quantity"`
}

// UnitPrice is the numeric amount behind the price snapshot.
func (i CartItem) UnitPrice() Money {
	return ParseMoney(i.Price)
}

// Matches reports whether the item is the cart line for name with exactly
// these removals, in this order.
func (i CartItem) Matches(name string, customizations []string) bool {
	return i.Name == name && slices.Equal(i.Customizations, customizations)
}

// Count is the number of units across all lines.
func (b Box) Count() int {
	n := 0
	for _, it := range b.Items {
		n += it.Quantity
	}
	return n
}

func (b Box) IsEmpty() bool {
	return len(b.Items) == 0
}

// Clone returns a deep copy safe to hand out of the engine.
func (b Box) Clone() Box {
	out := Box{Items: make([]CartItem, len(b.Items))}
	for i, it := range b.Items {
		it.Customizations = slices.Clone(it.Customizations)
		if it.Customizations == nil {
			it.Customizations = []string{}
		}
		out.Items[i] = it
	}
	if b.Discount != nil {
		d := *b.Discount
		out.Discount = &d
	}
	return out
}
