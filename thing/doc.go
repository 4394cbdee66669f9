// Package thing defines the three value kinds that flow through pipeline
// chains: Request, Response, and Item. All of them implement the Thing
// interface, which only exposes the kind name used by the report counters.
package thing
