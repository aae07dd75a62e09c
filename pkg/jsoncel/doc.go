// Package jsoncel lets CEL predicates reference entity fields
// which are only known from a JSON schema, such as custom
// properties stored in an entity's extension.
//
// A Provider type-checks 'entity.<field>' references against the
// schema when predicates are compiled. At evaluation time Flatten
// supplies the matching dot separated keys.
package jsoncel
