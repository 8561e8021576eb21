package model

// Version is the release this binary was built from.
const Version = "0.4.2"
