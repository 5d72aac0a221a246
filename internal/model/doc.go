package model

// Package model defines domain data structures used across the app: download
// tasks and their status enum. Structures are designed for explicit state
// transitions driven by the download service.
