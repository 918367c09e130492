package model

// MenuMaterial binds a material quantity to every order of a menu.
type MenuMaterial struct {
	MaterialID int64
	Quantity   int
}

// Menu is the catalog entry an order is placed against.
type Menu struct {
	ID        int64
	Title     string
	UnitPrice float64
	MinGuests int
	Stock     int
	Materials []MenuMaterial
}
