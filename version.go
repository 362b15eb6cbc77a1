package companion

// Version is the published client version, reported to the companion service
// through the Uppy-Versions request header.
// 1.2.0: Add Provider and URLClient helpers layered on the request client.
// 1.1.0: Accept the legacy boolean form of per-request options via NormalizeOptions.
// 1.0.0: Initial release - get/post/delete with preflight header negotiation
// and host-affinity bookkeeping.
const Version = "1.2.0"

// versionHeaderValue is the Uppy-Versions wire value.
const versionHeaderValue = "@uppy/companion-client=" + Version
