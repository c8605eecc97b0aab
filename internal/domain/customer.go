package domain

// Address mirrors a backend customer address.
type Address struct {
	ID          int64  `json:"id,omitempty"`
	CustomerID  int64  `json:"customerId,omitempty"`
	FirstName   string `json:"firstName,omitempty"`
	LastName    string `json:"lastName,omitempty"`
	Name        string `json:"name,omitempty"`
	Company     string `json:"company,omitempty"`
	Address1    string `json:"address1" validate:"required"`
	Address2    string `json:"address2,omitempty"`
	City        string `json:"city" validate:"required"`
	Province    string `json:"province,omitempty"`
	Country     string `json:"country" validate:"required"`
	CountryCode string `json:"countryCode,omitempty" validate:"omitempty,len=2"`
	CountryName string `json:"countryName,omitempty"`
	Zip         string `json:"zip,omitempty"`
	Phone       string `json:"phone" validate:"required,min=7,max=20"`
	Default     bool   `json:"default"`
}

// Customer is a backend customer record.
type Customer struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName,omitempty"`
	LastName  string    `json:"lastName,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Currency  string    `json:"currency,omitempty"`
	Note      string    `json:"-"`
	Tags      string    `json:"-"`
	Addresses []Address `json:"addresses,omitempty"`
}

// FullName joins first and last name.
func (c Customer) FullName() string {
	switch {
	case c.FirstName == "":
		return c.LastName
	case c.LastName == "":
		return c.FirstName
	default:
		return c.FirstName + " " + c.LastName
	}
}
