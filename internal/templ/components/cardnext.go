package components

// CardNextProps customizes the presentation of the promotional card.
// The card content itself is fixed.
type CardNextProps struct {
	ImageURL string // Resolved URL of the card image
	Class    string // Extra classes merged over the defaults
}
