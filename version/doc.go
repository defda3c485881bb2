// Package version reports which inkflow build is running. Version, Commit
// and BuildTime come from -ldflags; missing values are read from the
// module build info.
package version
