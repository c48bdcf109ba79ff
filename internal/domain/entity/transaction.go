package entity

import "time"

// Transaction is one clinic visit or online consultation. Clinic records
// carry serviceDetails.idClinic, consultation records serviceDetails.id.
// Payments made through the gateway are listed under
// midtransResponse.payment_amounts, each with an amount that may be a
// number or a numeric string.
type Transaction struct {
	ID                int                    `json:"id" bson:"id"`
	IDPatient         int                    `json:"idPatient,omitempty" bson:"idPatient,omitempty"`
	OrderID           string                 `json:"orderId,omitempty" bson:"orderId,omitempty"`
	Name              string                 `json:"name,omitempty" bson:"name,omitempty"`
	TypeService       string                 `json:"typeService,omitempty" bson:"typeService,omitempty"`
	TransactionStatus string                 `json:"transactionStatus,omitempty" bson:"transactionStatus,omitempty"`
	ServiceDetails    map[string]interface{} `json:"serviceDetails" bson:"serviceDetails"`
	MidtransResponse  map[string]interface{} `json:"midtransResponse,omitempty" bson:"midtransResponse,omitempty"`
	CreatedAt         time.Time              `json:"createdAt" bson:"createdAt"`
	UpdatedAt         time.Time              `json:"updatedAt" bson:"updatedAt"`
}
