// Package i18n holds the zh-CN and en-US message catalogs used for user-facing
// notices, route titles, and channel status labels, and negotiates the active
// language from configuration.
package i18n
