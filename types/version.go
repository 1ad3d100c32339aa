package types

// Version is the canonical project version.
// The CLI, the manifest frame contract, and the library share this version.
const Version = "0.3.0"
