// Package constants defines application-wide constants and version information.
package constants

import "runtime"

// Version holds the engine version information
const Version = "1.0-" + runtime.GOOS + "/" + runtime.GOARCH

// DefaultComputationVersion is used when the caller does not supply an
// explicit computation version for a bundle.
const DefaultComputationVersion = "v1"
