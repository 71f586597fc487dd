// Package utils provides common utility functions for the feature-merge application.
// It includes helpers for the comma-joined list fields used by merged features and
// other shared logic that doesn't fit into domain-specific packages.
package utils
