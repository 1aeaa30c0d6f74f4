// Package rules holds the consistency checks every mutation runs inside its own transaction before
// writing: field validation, uniqueness, referential integrity and deletion guards.
//
// The checks give precise, early answers. They are not the last line of defense: unique indexes,
// foreign keys and check constraints in the schema catch whatever a concurrent transaction slips in
// between check and write, and the engines classify those violations into the same error kinds.
package rules
