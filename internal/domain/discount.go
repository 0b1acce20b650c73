package domain

// DiscountKind is how a discount value is interpreted.
type DiscountKind string

const (
	DiscountPercent DiscountKind = "percent"
	DiscountFixed   DiscountKind = "fixed"
)

type Discount struct {
	Code    string       `json:"code,omitempty" bson:"code"`
	Kind    DiscountKind `json:"type" bson:"type"`
	Value   float64      `json:"value" bson:"value"`
	Message string       `json:"message" bson:"message"`
}

func (d Discount) IsPercent() bool {
	return d.Kind == DiscountPercent
}
