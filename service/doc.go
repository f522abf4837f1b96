// Package service is the single write entry point of the cross engine.
//
// Cross turns input lines into actions, numbers and journals the accepted
// ones, dispatches them to the books and hands back the output lines. The
// journal, report store and metrics are optional and wired at construction.
package service
