// internal/app/system/limits/limits.go
package limits

// Request body size limits.
const (
	// MaxLoginFormSize caps the sign-in form body (email, password,
	// return target and CSRF token).
	MaxLoginFormSize = 16 << 10 // 16 KB
)
