package domain

// Component represents one stockable item in the lab inventory.
type Component struct {
	// ID is the unique identifier for the component.
	ID string `json:"id"`

	// Name is the display name, e.g. "Arduino Uno R3".
	Name string `json:"name"`

	// Category groups components, e.g. "Microcontroller", "Sensor".
	Category string `json:"category"`

	// Description is free-form text shown alongside the component.
	Description string `json:"description"`

	// TotalQuantity is the number of units the lab owns. Never negative.
	TotalQuantity int `json:"totalQuantity"`

	// AvailableQuantity is the number of units currently on the shelf.
	// Invariant: 0 <= AvailableQuantity <= TotalQuantity.
	AvailableQuantity int `json:"availableQuantity"`
}

// NewComponent creates a Component with all units available.
func NewComponent(id, name, category, description string, total int) Component {
	return Component{
		ID:                id,
		Name:              name,
		Category:          category,
		Description:       description,
		TotalQuantity:     total,
		AvailableQuantity: total,
	}
}

// ValidateQuantities checks the quantity invariant.
func (c Component) ValidateQuantities() error {
	if c.TotalQuantity < 0 || c.AvailableQuantity < 0 || c.AvailableQuantity > c.TotalQuantity {
		return ErrQuantityRange
	}
	return nil
}
