package models

import "time"

// Customer is a registered shopper. Guests never get a row.
type Customer struct {
	ID           int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Email        string    `gorm:"column:email;size:255;not null;uniqueIndex:uq_customers_email"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	LastName     string    `gorm:"column:last_name;size:50;not null"`
	FirstName    string    `gorm:"column:first_name;size:50;not null"`
	PhoneNumber  string    `gorm:"column:phone_number;size:20"`
	Address      string    `gorm:"column:address;size:500"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// FullName joins the name parts the way they were entered at registration.
func (c Customer) FullName() string {
	if c.FirstName == "" {
		return c.LastName
	}
	return c.LastName + " " + c.FirstName
}
