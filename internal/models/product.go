package models

// Product is a reference catalog record. Verification compares submitted
// weight and MRP against it.
type Product struct {
	Barcode string  `json:"barcode" bson:"barcode"`
	Name    string  `json:"name" bson:"name"`
	Weight  float64 `json:"weight" bson:"weight"` // grams
	MRP     float64 `json:"mrp" bson:"mrp"`
}
