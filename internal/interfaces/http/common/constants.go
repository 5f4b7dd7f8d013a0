package common

const (
	// MaxRequestBody limits JSON request bodies; videos never pass through the API.
	MaxRequestBody = 1 << 20
)
