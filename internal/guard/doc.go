// Package guard defines scaffold preconditions and evaluates them.
//
// A guard is a named predicate with a severity and a blocking flag. The
// scaffold pipeline only interprets results: a failed guard with severity
// error and blocking set stops the run, any other failure becomes a warning.
//
// Checks are independent of each other, so the default Evaluator runs them
// concurrently while reporting results in the order the specs were given.
package guard
