// Package core provides shared types for the renderer subsystem.
// This package breaks import cycles between renderer and backend.
package core
