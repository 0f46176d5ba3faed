package entity

// Product is a catalog entry. Products are loaded once from the remote
// catalog at startup and never updated or deleted afterwards.
type Product struct {
	// ID is the external catalog identifier, not a surrogate key.
	ID          int64
	Name        string
	Description string
	// Price is expressed in cents to keep all money arithmetic integral.
	Price int64
	// Weight is expressed in grams.
	Weight  int64
	InStock bool
	Image   string
}
