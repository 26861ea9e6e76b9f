package cli

// DefaultWidth is used when the terminal width is unknown.
const DefaultWidth = 100
