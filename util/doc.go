// Package util holds small generic and string helpers shared by the llm
// and command packages.
package util
