// Package assignment holds the Assignment entity: the link between a courier and an
// order from the moment the order is handed out until it is delivered.
//
// An assignment is open while its complete time is unset. Completing it fixes the
// delivery time, measured from the courier's previous completion or, for the first
// delivery of the courier, from the assign time.
package assignment
