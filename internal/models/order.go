package models

// OrderItem is a single line of an order.
type OrderItem struct {
	ID          int     `json:"id,omitempty"`
	MenuID      int     `json:"menuId"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

// Order is a placed order.
type Order struct {
	ID          int         `json:"id,omitempty"`
	FranchiseID int         `json:"franchiseId,omitempty"`
	StoreID     int         `json:"storeId,omitempty"`
	Date        string      `json:"date,omitempty"`
	Items       []OrderItem `json:"items"`
}

// OrderHistory is the fixed page of past orders returned to a diner.
type OrderHistory struct {
	DinerID int     `json:"dinerId"`
	Orders  []Order `json:"orders"`
	Page    int     `json:"page"`
}
