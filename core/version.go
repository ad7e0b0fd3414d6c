package core

// Version of the forwarder; overridden at link time with -X.
var Version = "v0.1.0"
