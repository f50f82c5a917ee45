// Package aegis generates runnable application skeletons from
// component-conditional stack templates.
package aegis

// Version is the current aegis release.
const Version = "0.4.0"
