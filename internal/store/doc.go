// Package store defines interfaces for task persistence operations.
// These interfaces abstract the underlying storage mechanism from the
// service layer, which only depends on the behaviour described here.
package store
