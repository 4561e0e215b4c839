package models

import "time"

// Customer is the purchaser contact recorded on each purchase.
type Customer struct {
	ID           string    `json:"id" bson:"_id"`
	Name         string    `json:"name" bson:"name"`
	Email        string    `json:"email" bson:"email"`
	Mobile       string    `json:"mobile,omitempty" bson:"mobile,omitempty"`
	PurchaseDate time.Time `json:"purchaseDate" bson:"purchase_date"`
}
