package models

// StoreInfo is the public storefront profile. The UPI fields tell customers
// where to pay before they upload a payment proof.
type StoreInfo struct {
	Name       string `json:"name"`
	Tagline    string `json:"tagline"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	UPIID      string `json:"upi_id"`
	UPIPayee   string `json:"upi_payee"`
	UPIQRImage string `json:"upi_qr_image"`
}
