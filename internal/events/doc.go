// Package events publishes task lifecycle events to interested handlers.
//
// Services emit an event after each successful store mutation without
// knowing which handlers will process it. The primary components are:
// - TaskEvent: a record of a completed create, update, status change or delete
// - EventHandler: interface for components that consume events
// - EventEmitter: interface for components that publish events
package events
