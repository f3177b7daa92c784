// Package datagrid implements the tabular data-management engine shared by
// every console resource: a paginated collection loader, a client-side filter
// engine, a dialog/action orchestrator and a diff-based mutation submitter.
//
// One Engine is instantiated per entity type. Entity specifics (endpoints,
// form projection, filter fields, validation) are supplied through Config as
// plain function values.
package datagrid
