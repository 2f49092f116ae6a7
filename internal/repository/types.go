package repository

// ProductListFilter filters catalog listings.
type ProductListFilter struct {
	Page         int
	PageSize     int
	Category     string
	Search       string
	OnlySellable bool // exclude out-of-stock and discontinued rows
	HideRetired  bool // exclude discontinued rows, keep out-of-stock visible
}

// UserListFilter filters admin user listings.
type UserListFilter struct {
	Page     int
	PageSize int
	Search   string // matches email, phone or name
	Role     string
	Status   string
}

// UserLoginLogListFilter filters login log listings.
type UserLoginLogListFilter struct {
	Page       int
	PageSize   int
	UserID     uint
	Identifier string
	Status     string
}
