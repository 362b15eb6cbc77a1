// Package routes provides companion endpoint paths shared by the request
// client and the provider helpers to prevent path mismatches.
//
// Paths are relative (no leading slash); the request client joins them onto
// the resolved companion host.
package routes

const (
	// URLMeta inspects a remote URL (name, size, type) before import.
	URLMeta = "url/meta"

	// URLGet asks companion to download a remote URL and pipe it to the
	// upload destination.
	URLGet = "url/get"
)

// ProviderAuthorized reports whether the provider session is authenticated.
func ProviderAuthorized(provider string) string { return provider + "/authorized" }

// ProviderList lists the contents of a provider directory. An empty dirPath
// addresses the provider root.
func ProviderList(provider, dirPath string) string { return provider + "/list/" + dirPath }

// ProviderGet requests the transfer of a single provider file.
func ProviderGet(provider, fileID string) string { return provider + "/get/" + fileID }

// ProviderLogout terminates the provider session.
func ProviderLogout(provider string) string { return provider + "/logout" }
