package config

type SecurityLevel int

const (
	SecurityPublic  SecurityLevel = iota // No authentication
	SecurityRefresh                      // Refresh token required
	SecurityAccess                       // Access token required
)

// EndpointSecurityConfig maps "METHOD /route/template" to the token the
// route requires.
var EndpointSecurityConfig = map[string]SecurityLevel{
	"GET /healthz": SecurityPublic,
	"GET /files/":  SecurityPublic,
	"HEAD /files/": SecurityPublic,

	// gRPC, keyed by full method name
	"/grpc.health.v1.Health/Check": SecurityPublic,

	// Auth
	"POST /api/v1/auth/signup":  SecurityPublic,
	"POST /api/v1/auth/signin":  SecurityPublic,
	"POST /api/v1/auth/refresh": SecurityRefresh,
	"POST /api/v1/auth/signout": SecurityRefresh,
	"GET /api/v1/me":            SecurityAccess,

	// Items - browsing is public
	"GET /api/v1/categories":                      SecurityPublic,
	"GET /api/v1/items":                           SecurityPublic,
	"GET /api/v1/items/{id:[0-9]+}":               SecurityPublic,
	"GET /api/v1/items/{id:[0-9]+}/quote":         SecurityPublic,
	"GET /api/v1/items/{id:[0-9]+}/reviews":       SecurityPublic,
	"GET /api/v1/users/{id:[0-9]+}/reviews":       SecurityPublic,
	"GET /api/v1/items/mine":                      SecurityAccess,
	"POST /api/v1/items":                          SecurityAccess,
	"PUT /api/v1/items/{id:[0-9]+}":               SecurityAccess,
	"DELETE /api/v1/items/{id:[0-9]+}":            SecurityAccess,
	"POST /api/v1/items/{id:[0-9]+}/availability": SecurityAccess,
	"POST /api/v1/items/{id:[0-9]+}/archive":      SecurityAccess,
	"POST /api/v1/items/{id:[0-9]+}/images":       SecurityAccess,
	"POST /api/v1/items/{id:[0-9]+}/inquiries":    SecurityAccess,

	// Bookings
	"POST /api/v1/bookings":                         SecurityAccess,
	"GET /api/v1/bookings":                          SecurityAccess,
	"GET /api/v1/bookings/{id:[0-9]+}":              SecurityAccess,
	"POST /api/v1/bookings/{id:[0-9]+}/transitions": SecurityAccess,
	"POST /api/v1/bookings/{id:[0-9]+}/reviews":     SecurityAccess,

	// Inquiries
	"GET /api/v1/inquiries":                      SecurityAccess,
	"POST /api/v1/inquiries/{id:[0-9]+}/reply":   SecurityAccess,
	"POST /api/v1/inquiries/{id:[0-9]+}/dismiss": SecurityAccess,

	// Conversations
	"GET /api/v1/conversations":                       SecurityAccess,
	"POST /api/v1/conversations":                      SecurityAccess,
	"GET /api/v1/conversations/{id:[0-9]+}/messages":  SecurityAccess,
	"POST /api/v1/conversations/{id:[0-9]+}/messages": SecurityAccess,

	// Notifications
	"GET /api/v1/notifications":                   SecurityAccess,
	"POST /api/v1/notifications/{id:[0-9]+}/read": SecurityAccess,
}

// GetSecurityLevel returns the security level for a route key
func GetSecurityLevel(route string) SecurityLevel {
	if level, exists := EndpointSecurityConfig[route]; exists {
		return level
	}
	// Default to highest security for unknown endpoints
	return SecurityAccess
}
