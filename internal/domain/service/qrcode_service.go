package service

// QRCodeService renders text content as a scannable QR code image.
type QRCodeService interface {
	// Generate encodes content as a PNG image.
	Generate(content string) ([]byte, error)
}

// ImageCache keeps rendered images in memory. It is an optimization only; a miss is never an error.
type ImageCache interface {
	Get(key string) ([]byte, bool)
	Add(key string, image []byte)
	Remove(key string)
	Len() int
}
