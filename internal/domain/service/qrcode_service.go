package service

// QRCodeService defines the interface for QR code generation services.
type QRCodeService interface {
	// GenerateActivationQR generates a PNG QR code encoding the activation
	// link for a freshly registered account, for scanning from the mobile app.
	GenerateActivationQR(activationKey string) ([]byte, error)
}
