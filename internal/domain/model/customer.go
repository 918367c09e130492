package model

// Customer holds the contact details used for notifications.
type Customer struct {
	ID        int64
	Email     string
	FirstName string
	LastName  string
	Phone     string
}
