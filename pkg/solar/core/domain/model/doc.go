// Package model contains the site, generation and forecast types moved between the
// persister, the stores and the exporters.
package model
