package poker

// Category is a coarse strength bucket for a starting hand.
type Category string

const (
	CategoryPremium Category = "Premium"
	CategoryStrong  Category = "Strong"
	CategoryMedium  Category = "Medium"
	CategoryWeak    Category = "Weak"
	CategoryTrash   Category = "Trash"
)

// Category buckets the label: Premium (JJ+, AK), Strong (TT, AQ, AJ), Medium
// (77-99, suited broadway), Weak (22-66, suited hands within two ranks),
// Trash (everything else).
func (l HandLabel) Category() Category {
	high, low := l.Ranks()
	pair := l.IsPair()

	switch {
	case pair && low >= Jack, high == Ace && low == King:
		return CategoryPremium
	case pair && low == Ten, high == Ace && (low == Queen || low == Jack):
		return CategoryStrong
	case pair && low >= Seven, l.Suited() && low >= Ten:
		return CategoryMedium
	case pair, l.Suited() && high-low <= 2:
		return CategoryWeak
	default:
		return CategoryTrash
	}
}
