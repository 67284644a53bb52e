package entities

type CustomerResponse struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type CustomerList struct {
	Customers []CustomerResponse `json:"customers"`
	Count     int                `json:"count"`
}

type UpdateCustomerRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}
