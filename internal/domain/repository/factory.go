package repository

// Factory describes access to different domain repositories.
type Factory interface {
	Orders() OrderRepository
	Menus() MenuRepository
	Materials() MaterialRepository
	Customers() CustomerRepository
}
