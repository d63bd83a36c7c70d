// package models defines the persisted data model for the library mirror.
//
// All entity kinds except Library are remote-authoritative: rows are created
// or refreshed only by a sync pass and deleted only when a pass observes the
// remote no longer reports them.
package models
