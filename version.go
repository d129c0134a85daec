package inet

// Version is the release of the library and the inet binary.
// Release builds override it with -ldflags "-X github.com/aretw0/inet.Version=...".
var Version = "0.1.0-dev"
