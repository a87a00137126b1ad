// Package services implements the request side of the Chosic client: the
// HTTP transport with its browser-session credentials, parameter
// normalization, catalog identifier resolution, the sequential paginated
// fetcher, and the [CatalogService] facade that ties them to the mapping
// layer in package catalog.
package services
