// ABOUTME: Version and product identification constants
// ABOUTME: Used in logs and the TUI header
package version

const (
	Product = "Simple Protocol Player"
	Version = "1.0.0"
)

// String returns the product name with its version.
func String() string {
	return Product + " " + Version
}
