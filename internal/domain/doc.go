// Package domain contains the task entity, its enumerations and the
// validation rules every stored task satisfies. It has no knowledge of
// storage, transport or configuration.
package domain
