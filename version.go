package beetflow

// Version is the beetflow release.
const Version = "0.3.0"
