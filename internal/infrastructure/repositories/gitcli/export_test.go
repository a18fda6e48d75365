package gitcli

// ParseStatus exports parseStatus for testing.
var ParseStatus = parseStatus //nolint:gochecknoglobals // test export

// ParseRemoteRefs exports parseRemoteRefs for testing.
var ParseRemoteRefs = parseRemoteRefs //nolint:gochecknoglobals // test export
